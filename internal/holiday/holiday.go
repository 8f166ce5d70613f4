// Package holiday manages the teacher's holiday calendar. A multi-day
// holiday is stored as one row per day sharing a range id; deleting any
// member removes the whole range.
package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no holiday matches.
var ErrNotFound = errors.New("holiday not found")

const dayFormat = "2006-01-02"

// maxRangeDays caps a single holiday range.
const maxRangeDays = 90

// Holiday is one calendar day of a (possibly multi-day) holiday.
type Holiday struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name"`
	Day       string `json:"date"`
	RangeID   string `json:"range_id"`
}

// Store is the persistence surface for holidays.
type Store interface {
	InsertBatch(ctx context.Context, hs []Holiday) error
	List(ctx context.Context, teacherID string) ([]Holiday, error)
	RangeIDOf(ctx context.Context, teacherID, id string) (string, error)
	DeleteRange(ctx context.Context, teacherID, rangeID string) (int, error)
}

// Service implements the range semantics on top of a Store.
type Service struct {
	store Store
}

// NewService creates a service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateRange inserts one row per day from from to to inclusive, all
// sharing a fresh range id.
func (s *Service) CreateRange(ctx context.Context, teacherID, name, from, to string) ([]Holiday, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	start, err := time.Parse(dayFormat, from)
	if err != nil {
		return nil, fmt.Errorf("bad from date %q", from)
	}
	if to == "" {
		to = from
	}
	end, err := time.Parse(dayFormat, to)
	if err != nil {
		return nil, fmt.Errorf("bad to date %q", to)
	}
	if end.Before(start) {
		return nil, errors.New("to date is before from date")
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("holiday range longer than %d days", maxRangeDays)
	}

	rangeID := uuid.NewString()
	var hs []Holiday
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		hs = append(hs, Holiday{
			ID:        uuid.NewString(),
			TeacherID: teacherID,
			Name:      name,
			Day:       d.Format(dayFormat),
			RangeID:   rangeID,
		})
	}
	if err := s.store.InsertBatch(ctx, hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// List returns the teacher's holidays.
func (s *Service) List(ctx context.Context, teacherID string) ([]Holiday, error) {
	return s.store.List(ctx, teacherID)
}

// Delete removes the whole range the target holiday belongs to and
// returns the number of days removed.
func (s *Service) Delete(ctx context.Context, teacherID, id string) (int, error) {
	rangeID, err := s.store.RangeIDOf(ctx, teacherID, id)
	if err != nil {
		return 0, err
	}
	return s.store.DeleteRange(ctx, teacherID, rangeID)
}
