// Package feedback maps scan outcomes to the visual/audio cue the client
// renders, plus the cool-down it must honor before re-arming the reader.
package feedback

import (
	"time"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/attendance"
)

// Signal tells the client what to present for one scan outcome. The
// client holds the cue for CooldownMS and then re-arms; the server's
// session guard enforces the same window, so an early re-scan is dropped
// rather than double-processed.
type Signal struct {
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Tone       string `json:"tone"`
	Message    string `json:"message"`
	CooldownMS int    `json:"cooldown_ms"`
}

// ForOutcome builds the cue for an outcome.
func ForOutcome(o attendance.Outcome, cooldown time.Duration) Signal {
	ms := int(cooldown / time.Millisecond)
	switch o {
	case attendance.OutcomeSuccess:
		return Signal{Icon: "check", Color: "green", Tone: "chime", Message: "Marked present", CooldownMS: ms}
	case attendance.OutcomeDuplicate:
		return Signal{Icon: "repeat", Color: "amber", Tone: "double-beep", Message: "Already marked today", CooldownMS: ms}
	case attendance.OutcomeNotFound:
		return Signal{Icon: "cross", Color: "red", Tone: "buzz", Message: "Not on your roster", CooldownMS: ms}
	case attendance.OutcomeDropped:
		// Dropped emissions get no cue: the previous one is still showing.
		return Signal{Icon: "", Color: "", Tone: "", Message: "", CooldownMS: 0}
	default:
		return Signal{Icon: "cross", Color: "red", Tone: "buzz", Message: "Scan failed", CooldownMS: ms}
	}
}
