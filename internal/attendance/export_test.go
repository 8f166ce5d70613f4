package attendance

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
)

func testStudents() []roster.Student {
	return []roster.Student{
		{Name: "Aarav", Code: "AAAA1111", Class: "10", Section: "A"},
		{Name: "Binita", Code: "BBBB2222", Class: "10", Section: "A"},
		{Name: "Chandra", Code: "CCCC3333", Class: "10", Section: "B"},
	}
}

func TestDayOverview(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	records := []Record{
		{StudentCode: "AAAA1111", Day: "2026-08-30", RecordedAt: at, Status: StatusPresent},
		{StudentCode: "CCCC3333", Day: "2026-08-30", RecordedAt: at, Status: StatusOnLeave},
	}

	overview := DayOverview(testStudents(), records)
	assert.Len(t, overview, 3)
	assert.Equal(t, DisplayPresent, overview[0].Status)
	assert.Equal(t, DisplayAbsent, overview[1].Status)
	assert.Nil(t, overview[1].RecordedAt)
	assert.Equal(t, DisplayOnLeave, overview[2].Status)
}

func TestDayOverviewKeepsEarliestRecord(t *testing.T) {
	first := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 30, 9, 45, 0, 0, time.UTC)
	// two sessions raced and both wrote a row; listing is ordered by
	// recorded_at, and the earliest scan is the one that counts
	records := []Record{
		{StudentCode: "AAAA1111", Day: "2026-08-30", RecordedAt: first, Status: StatusPresent},
		{StudentCode: "AAAA1111", Day: "2026-08-30", RecordedAt: second, Status: StatusPresent},
	}

	overview := DayOverview(testStudents(), records)
	assert.Equal(t, DisplayPresent, overview[0].Status)
	assert.Equal(t, first, *overview[0].RecordedAt)
}

func TestWriteDayCSV(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	records := []Record{
		{StudentCode: "AAAA1111", Day: "2026-08-30", RecordedAt: at, Status: StatusPresent},
		{StudentCode: "CCCC3333", Day: "2026-08-30", RecordedAt: at, Status: StatusOnLeave},
	}

	var buf bytes.Buffer
	err := WriteDayCSV(&buf, "2026-08-30", testStudents(), records)
	assert.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 4)

	assert.Equal(t, []string{
		"Student Name", "Student ID", "Class", "Section",
		"Status", "Attendance Time", "Date (AD)", "Date (BS)",
	}, rows[0])

	// present student carries the scan time
	assert.Equal(t, "Aarav", rows[1][0])
	assert.Equal(t, "AAAA1111", rows[1][1])
	assert.Equal(t, "Present", rows[1][4])
	assert.Equal(t, "09:15", rows[1][5])

	// unmarked student exports as absent with no time
	assert.Equal(t, "Binita", rows[2][0])
	assert.Equal(t, "Absent", rows[2][4])
	assert.Equal(t, "", rows[2][5])

	// on-leave exports as absent too
	assert.Equal(t, "Absent", rows[3][4])
	assert.Equal(t, "", rows[3][5])

	bsDay := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	for _, row := range rows[1:] {
		assert.Equal(t, "2026-08-30", row[6])
		assert.Regexp(t, bsDay, row[7])
	}
}

func TestWriteDayCSVBadDay(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDayCSV(&buf, "30/08/2026", nil, nil)
	assert.Error(t, err)
}
