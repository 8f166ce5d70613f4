package attendance

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or closed sessions.
var ErrSessionNotFound = errors.New("scan session not found")

// Session is the per-device scan state: a roster snapshot, the set of
// codes already marked today, the re-entrancy window, and any persist
// failure notices waiting for the client. Both sets are snapshots taken
// when the session opens; a second device's marks are not reflected
// until a new session is opened.
type Session struct {
	ID        string
	TeacherID string
	Day       string
	OpenedAt  time.Time

	mu            sync.Mutex
	roster        map[string]struct{}
	marked        map[string]struct{}
	cooldownUntil time.Time
	notices       []string
}

// NewSession builds a session from the roster and daily snapshots.
func NewSession(teacherID, day string, rosterCodes, markedCodes []string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		Day:       day,
		OpenedAt:  time.Now().UTC(),
		roster:    make(map[string]struct{}, len(rosterCodes)),
		marked:    make(map[string]struct{}, len(markedCodes)),
	}
	for _, c := range rosterCodes {
		s.roster[c] = struct{}{}
	}
	for _, c := range markedCodes {
		s.marked[c] = struct{}{}
	}
	return s
}

// Known reports whether the code is on the roster snapshot.
func (s *Session) Known(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.roster[code]
	return ok
}

// Marked reports whether the code is already marked today.
func (s *Session) Marked(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.marked[code]
	return ok
}

// Mark optimistically adds the code to the daily set.
func (s *Session) Mark(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[code] = struct{}{}
}

// Unmark rolls back an optimistic mark. Removing an absent code is a
// no-op, so rollback is idempotent.
func (s *Session) Unmark(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.marked, code)
}

// MarkedCount returns the size of the daily set.
func (s *Session) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marked)
}

// TryArm consumes the re-entrancy window. It returns false while a prior
// emission's cool-down is still running, in which case the new emission
// must be dropped.
func (s *Session) TryArm(now time.Time, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.cooldownUntil) {
		return false
	}
	s.cooldownUntil = now.Add(window)
	return true
}

// AddNotice queues a non-blocking notice for the client, e.g. a persist
// failure after the success cue was already shown.
func (s *Session) AddNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
}

// DrainNotices returns and clears pending notices.
func (s *Session) DrainNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Registry tracks open scan sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open stores a session.
func (r *Registry) Open(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns a session, scoped to its owning teacher.
func (r *Registry) Get(id, teacherID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.TeacherID != teacherID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close removes a session. In-flight persists keep running; only the
// snapshot state is dropped.
func (r *Registry) Close(id, teacherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.TeacherID != teacherID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
