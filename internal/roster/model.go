package roster

import "time"

// Student is one roster entry owned by a single teacher. Code is the
// 8-character credential embedded in the student's QR image; it never
// changes after creation.
type Student struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacher_id"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
	Section   string    `json:"section"`
	Code      string    `json:"student_code"`
	QRCodeURL string    `json:"qr_code_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sections is the fixed allow-list of section names. CSV import and the
// create/edit flows reject anything else.
var Sections = []string{"A", "B", "C", "D"}

// ValidSection reports whether s exactly matches the allow-list.
func ValidSection(s string) bool {
	for _, v := range Sections {
		if s == v {
			return true
		}
	}
	return false
}
