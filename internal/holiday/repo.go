package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository persists holidays in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertBatch writes a whole range in one transaction so a partial range
// never lands.
func (r *Repository) InsertBatch(ctx context.Context, hs []Holiday) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, h := range hs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO holidays (id, teacher_id, name, day, range_id)
			VALUES ($1,$2,$3,$4,$5)
		`, h.ID, h.TeacherID, h.Name, h.Day, h.RangeID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns the teacher's holidays ordered by day.
func (r *Repository) List(ctx context.Context, teacherID string) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, teacher_id, name, day, range_id FROM holidays
		WHERE teacher_id = $1
		ORDER BY day
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Holiday
	for rows.Next() {
		var h Holiday
		var day time.Time
		if err := rows.Scan(&h.ID, &h.TeacherID, &h.Name, &day, &h.RangeID); err != nil {
			return nil, err
		}
		h.Day = day.Format(dayFormat)
		res = append(res, h)
	}
	return res, rows.Err()
}

// RangeIDOf returns the range id of one holiday row.
func (r *Repository) RangeIDOf(ctx context.Context, teacherID, id string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT range_id FROM holidays WHERE id = $1 AND teacher_id = $2
	`, id, teacherID)
	var rangeID string
	if err := row.Scan(&rangeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return rangeID, nil
}

// DeleteRange removes every row sharing the range id.
func (r *Repository) DeleteRange(ctx context.Context, teacherID, rangeID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM holidays WHERE teacher_id = $1 AND range_id = $2
	`, teacherID, rangeID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
