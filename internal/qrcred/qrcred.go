// Package qrcred builds the scannable QR credential for a student: the
// payload embedded in the image, the PNG itself, and the storage path the
// image is uploaded to.
package qrcred

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// JobType is the queue message type for credential render jobs.
const JobType = "qr_render"

// DefaultSize is the rendered PNG edge length in pixels.
const DefaultSize = 512

// Payload is what a camera or NFC reader hands back after a scan. Both
// fields ride inside the QR image so a scan can be checked against the
// owning teacher.
type Payload struct {
	StudentCode string `json:"student_code"`
	TeacherID   string `json:"teacher_id"`
}

// RenderJob identifies one credential to render and upload.
type RenderJob struct {
	TeacherID   string `json:"teacher_id"`
	StudentCode string `json:"student_code"`
}

// Marshal encodes the job for the queue.
func (j RenderJob) Marshal() []byte {
	b, _ := json.Marshal(j)
	return b
}

// ParseJob decodes a queue message body.
func ParseJob(body []byte) (RenderJob, error) {
	var j RenderJob
	if err := json.Unmarshal(body, &j); err != nil {
		return RenderJob{}, fmt.Errorf("qrcred: bad render job: %w", err)
	}
	if j.TeacherID == "" || j.StudentCode == "" {
		return RenderJob{}, fmt.Errorf("qrcred: render job missing fields")
	}
	return j, nil
}

// RenderPNG produces the credential image for one student.
func RenderPNG(teacherID, studentCode string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	payload, err := json.Marshal(Payload{StudentCode: studentCode, TeacherID: teacherID})
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcred: encode failed: %w", err)
	}
	return png, nil
}

// PublicID is the predictable storage path for a credential image, keyed
// by teacher and student so re-renders overwrite in place.
func PublicID(teacherID, studentCode string) string {
	return fmt.Sprintf("qrcodes/%s/%s", teacherID, studentCode)
}
