package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RecordStore is the persistence surface the committer and handlers use.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec Record) (Record, error)
	ListByDay(ctx context.Context, teacherID, day string) ([]Record, error)
	ListRange(ctx context.Context, teacherID, from, to string) ([]Record, error)
	ListAll(ctx context.Context, teacherID string) ([]Record, error)
	MarkedCodes(ctx context.Context, teacherID, day string) ([]string, error)
	HasRecord(ctx context.Context, teacherID, code, day string) (bool, error)
}

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, teacher_id, student_code, day, recorded_at, status`

// InsertRecord writes a new record. Existence is checked upstream against
// the session snapshot, not here; see DESIGN.md on the duplicate race.
func (r *Repository) InsertRecord(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusPresent
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, teacher_id, student_code, day, recorded_at, status)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.ID, rec.TeacherID, rec.StudentCode, rec.Day, rec.RecordedAt, rec.Status)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ListByDay returns the teacher's records for one calendar day.
func (r *Repository) ListByDay(ctx context.Context, teacherID, day string) ([]Record, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE teacher_id = $1 AND day = $2
		ORDER BY recorded_at
	`, teacherID, day)
}

// ListRange returns records for an inclusive day range.
func (r *Repository) ListRange(ctx context.Context, teacherID, from, to string) ([]Record, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE teacher_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day, recorded_at
	`, teacherID, from, to)
}

// ListAll returns the teacher's entire history, oldest first. Feeds the
// absenteeism summary.
func (r *Repository) ListAll(ctx context.Context, teacherID string) ([]Record, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE teacher_id = $1
		ORDER BY day, recorded_at
	`, teacherID)
}

// MarkedCodes returns the codes already marked for the day. Feeds the
// scan session's daily snapshot.
func (r *Repository) MarkedCodes(ctx context.Context, teacherID, day string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_code FROM attendance_records
		WHERE teacher_id = $1 AND day = $2
	`, teacherID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// HasRecord reports whether any record exists for the student on the day.
// Used by the manual on-leave flow, which has no session snapshot.
func (r *Repository) HasRecord(ctx context.Context, teacherID, code, day string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM attendance_records
		WHERE teacher_id = $1 AND student_code = $2 AND day = $3
		LIMIT 1
	`, teacherID, code, day)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.TeacherID, &rec.StudentCode, &day, &rec.RecordedAt, &rec.Status); err != nil {
			return nil, err
		}
		rec.Day = day.Format(DayFormat)
		res = append(res, rec)
	}
	return res, rows.Err()
}
