package attendance

import "time"

// Record statuses. Absence is derived, never stored.
const (
	StatusPresent = "present"
	StatusOnLeave = "on_leave"
)

// DayFormat is the calendar-day key used throughout the service.
const DayFormat = "2006-01-02"

// Record is one attendance mark. Records are append-only: the attendance
// flows never mutate or delete them.
type Record struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacher_id"`
	StudentCode string    `json:"student_code"`
	Day         string    `json:"date"`
	RecordedAt  time.Time `json:"timestamp"`
	Status      string    `json:"status"`
}

// Today returns the current calendar-day key.
func Today() string {
	return time.Now().UTC().Format(DayFormat)
}
