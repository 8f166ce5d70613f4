package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/attendance"
)

func TestForOutcome(t *testing.T) {
	cooldown := 1500 * time.Millisecond

	tests := []struct {
		outcome attendance.Outcome
		color   string
		tone    string
	}{
		{attendance.OutcomeSuccess, "green", "chime"},
		{attendance.OutcomeDuplicate, "amber", "double-beep"},
		{attendance.OutcomeNotFound, "red", "buzz"},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			sig := ForOutcome(tt.outcome, cooldown)
			assert.Equal(t, tt.color, sig.Color)
			assert.Equal(t, tt.tone, sig.Tone)
			assert.Equal(t, 1500, sig.CooldownMS)
			assert.NotEmpty(t, sig.Message)
		})
	}
}

func TestForOutcomeDroppedIsSilent(t *testing.T) {
	sig := ForOutcome(attendance.OutcomeDropped, time.Second)
	assert.Empty(t, sig.Tone)
	assert.Empty(t, sig.Icon)
	assert.Zero(t, sig.CooldownMS)
}
