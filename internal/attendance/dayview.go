package attendance

import (
	"time"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
)

// Display statuses for the day view and CSV export. On-leave records
// export as Absent, matching the record-keeping the schools actually use.
const (
	DisplayPresent = "Present"
	DisplayAbsent  = "Absent"
	DisplayOnLeave = "On Leave"
)

// DayStatus is one roster student's derived state for a day.
type DayStatus struct {
	Student    roster.Student `json:"student"`
	Status     string         `json:"status"`
	RecordedAt *time.Time     `json:"recorded_at,omitempty"`
}

// DayOverview joins the roster with the day's records: one row per
// student, Absent when no record exists.
func DayOverview(students []roster.Student, records []Record) []DayStatus {
	byCode := make(map[string]Record, len(records))
	for _, rec := range records {
		// Duplicate rows per code can exist when two sessions raced;
		// records arrive ordered by recorded_at, so the earliest wins.
		if _, ok := byCode[rec.StudentCode]; !ok {
			byCode[rec.StudentCode] = rec
		}
	}
	out := make([]DayStatus, 0, len(students))
	for _, st := range students {
		ds := DayStatus{Student: st, Status: DisplayAbsent}
		if rec, ok := byCode[st.Code]; ok {
			at := rec.RecordedAt
			ds.RecordedAt = &at
			if rec.Status == StatusOnLeave {
				ds.Status = DisplayOnLeave
			} else {
				ds.Status = DisplayPresent
			}
		}
		out = append(out, ds)
	}
	return out
}
