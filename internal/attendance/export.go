package attendance

import (
	"encoding/csv"
	"io"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/nepdate"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
)

// exportHeader is the fixed column layout of the daily export.
var exportHeader = []string{
	"Student Name", "Student ID", "Class", "Section",
	"Status", "Attendance Time", "Date (AD)", "Date (BS)",
}

// WriteDayCSV writes the daily attendance export: one row per roster
// student, Status is Present or Absent, and the day appears in both AD
// and BS calendars. On-leave students export as Absent with no time.
func WriteDayCSV(w io.Writer, day string, students []roster.Student, records []Record) error {
	bsDay, err := nepdate.ToBS(day)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, ds := range DayOverview(students, records) {
		status := DisplayAbsent
		attendedAt := ""
		if ds.Status == DisplayPresent {
			status = DisplayPresent
			attendedAt = ds.RecordedAt.Format("15:04")
		}
		row := []string{
			ds.Student.Name,
			ds.Student.Code,
			ds.Student.Class,
			ds.Student.Section,
			status,
			attendedAt,
			day,
			bsDay,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
