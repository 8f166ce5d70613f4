package qrcred

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG("t-1", "ABCD2345", 256)
	assert.NoError(t, err)
	// PNG signature
	assert.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderJobRoundTrip(t *testing.T) {
	job := RenderJob{TeacherID: "t-1", StudentCode: "ABCD2345"}
	parsed, err := ParseJob(job.Marshal())
	assert.NoError(t, err)
	assert.Equal(t, job, parsed)
}

func TestParseJobRejectsBadInput(t *testing.T) {
	_, err := ParseJob([]byte("not json"))
	assert.Error(t, err)
	_, err = ParseJob([]byte(`{"teacher_id":"t-1"}`))
	assert.Error(t, err)
}

func TestPublicID(t *testing.T) {
	assert.Equal(t, "qrcodes/t-1/ABCD2345", PublicID("t-1", "ABCD2345"))
}
