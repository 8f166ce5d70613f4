package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/qrcred"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/queue"
)

// Service owns roster writes: validation, code generation, and queueing
// the QR credential render for each new student.
type Service struct {
	store Store
	jobs  queue.Queue
}

// NewService creates a service. jobs may be nil in tests; renders are
// then skipped.
func NewService(store Store, jobs queue.Queue) *Service {
	return &Service{store: store, jobs: jobs}
}

// Create validates the fields, mints a credential code, inserts the
// student, and enqueues a QR render.
func (s *Service) Create(ctx context.Context, teacherID, name, class, section string) (Student, error) {
	name = strings.TrimSpace(name)
	class = strings.TrimSpace(class)
	section = strings.TrimSpace(section)
	if err := validateFields(name, class, section); err != nil {
		return Student{}, err
	}
	code, err := NewCode()
	if err != nil {
		return Student{}, err
	}
	st, err := s.store.Insert(ctx, Student{
		TeacherID: teacherID,
		Name:      name,
		Class:     class,
		Section:   section,
		Code:      code,
	})
	if err != nil {
		return Student{}, err
	}
	s.enqueueRender(ctx, st)
	return st, nil
}

// Update edits name/class/section. The credential code is immutable.
func (s *Service) Update(ctx context.Context, teacherID, id, name, class, section string) (Student, error) {
	name = strings.TrimSpace(name)
	class = strings.TrimSpace(class)
	section = strings.TrimSpace(section)
	if err := validateFields(name, class, section); err != nil {
		return Student{}, err
	}
	return s.store.Update(ctx, teacherID, id, name, class, section)
}

// List returns the teacher's roster.
func (s *Service) List(ctx context.Context, teacherID string) ([]Student, error) {
	return s.store.List(ctx, teacherID)
}

// Get returns one student scoped to the teacher.
func (s *Service) Get(ctx context.Context, teacherID, id string) (Student, error) {
	return s.store.GetByID(ctx, teacherID, id)
}

// Codes returns the roster snapshot feed for scan sessions.
func (s *Service) Codes(ctx context.Context, teacherID string) ([]string, error) {
	return s.store.Codes(ctx, teacherID)
}

// RequestQRRender re-enqueues the credential render for a student.
func (s *Service) RequestQRRender(ctx context.Context, teacherID, id string) (Student, error) {
	st, err := s.store.GetByID(ctx, teacherID, id)
	if err != nil {
		return Student{}, err
	}
	s.enqueueRender(ctx, st)
	return st, nil
}

func (s *Service) enqueueRender(ctx context.Context, st Student) {
	if s.jobs == nil {
		return
	}
	job := qrcred.RenderJob{TeacherID: st.TeacherID, StudentCode: st.Code}
	if err := s.jobs.Publish(ctx, queue.Message{Type: qrcred.JobType, Body: job.Marshal()}); err != nil {
		log.Printf("qr render enqueue failed for %s: %v", st.Code, err)
	}
}

func validateFields(name, class, section string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if class == "" {
		return errors.New("class is required")
	}
	if !ValidSection(section) {
		return fmt.Errorf("invalid section %q: must be one of %s", section, strings.Join(Sections, ", "))
	}
	return nil
}
