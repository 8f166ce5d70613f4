package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeWriter struct {
	mu       sync.Mutex
	inserted []Record
	err      error
}

func (f *fakeWriter) InsertRecord(_ context.Context, rec Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Record{}, f.err
	}
	f.inserted = append(f.inserted, rec)
	return rec, nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

func newTestCommitter(w RecordWriter, cooldown time.Duration, at time.Time) *Committer {
	c := NewCommitter(w, cooldown)
	c.now = func() time.Time { return at }
	return c
}

func TestCommitSuccess(t *testing.T) {
	w := &fakeWriter{}
	s := NewSession("t-1", "2026-08-30", []string{"ABC123QQ"}, nil)
	c := newTestCommitter(w, time.Second, time.Now())

	outcome := c.Commit(s, "ABC123QQ")
	assert.Equal(t, OutcomeSuccess, outcome)
	// optimistic mark lands before the write resolves
	assert.True(t, s.Marked("ABC123QQ"))

	c.Wait()
	assert.Equal(t, 1, w.count())
	rec := w.inserted[0]
	assert.Equal(t, "t-1", rec.TeacherID)
	assert.Equal(t, "ABC123QQ", rec.StudentCode)
	assert.Equal(t, "2026-08-30", rec.Day)
	assert.Equal(t, StatusPresent, rec.Status)
}

func TestCommitDuplicate(t *testing.T) {
	w := &fakeWriter{}
	s := NewSession("t-1", "2026-08-30", []string{"ABC123QQ"}, []string{"ABC123QQ"})
	c := newTestCommitter(w, time.Second, time.Now())

	assert.Equal(t, OutcomeDuplicate, c.Commit(s, "ABC123QQ"))
	c.Wait()
	assert.Equal(t, 0, w.count())
}

func TestCommitNotFound(t *testing.T) {
	w := &fakeWriter{}
	s := NewSession("t-1", "2026-08-30", nil, nil)
	c := newTestCommitter(w, time.Second, time.Now())

	assert.Equal(t, OutcomeNotFound, c.Commit(s, "XYZ999ZZ"))
	c.Wait()
	assert.Equal(t, 0, w.count())
	assert.False(t, s.Marked("XYZ999ZZ"))
}

func TestCommitReentrancyWindow(t *testing.T) {
	w := &fakeWriter{}
	s := NewSession("t-1", "2026-08-30", []string{"AAAA1111", "BBBB2222"}, nil)
	now := time.Now()
	c := newTestCommitter(w, time.Second, now)

	assert.Equal(t, OutcomeSuccess, c.Commit(s, "AAAA1111"))
	// a different code inside the window is dropped too
	assert.Equal(t, OutcomeDropped, c.Commit(s, "BBBB2222"))
	assert.False(t, s.Marked("BBBB2222"))

	// once the window passes the next emission is processed
	c.now = func() time.Time { return now.Add(2 * time.Second) }
	assert.Equal(t, OutcomeSuccess, c.Commit(s, "BBBB2222"))

	c.Wait()
	assert.Equal(t, 2, w.count())
}

func TestCommitRollbackOnPersistFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection reset")}
	s := NewSession("t-1", "2026-08-30", []string{"ABC123QQ"}, nil)
	c := newTestCommitter(w, time.Second, time.Now())

	// the caller still sees success; the rollback happens later
	assert.Equal(t, OutcomeSuccess, c.Commit(s, "ABC123QQ"))
	c.Wait()

	assert.False(t, s.Marked("ABC123QQ"))
	notices := s.DrainNotices()
	assert.Len(t, notices, 1)
	assert.Contains(t, notices[0], "ABC123QQ")
	// drained once, gone
	assert.Empty(t, s.DrainNotices())
}

func TestCommitRescanAfterDuplicate(t *testing.T) {
	w := &fakeWriter{}
	s := NewSession("t-1", "2026-08-30", []string{"ABC123QQ"}, nil)
	now := time.Now()
	c := newTestCommitter(w, time.Second, now)

	assert.Equal(t, OutcomeSuccess, c.Commit(s, "ABC123QQ"))
	c.now = func() time.Time { return now.Add(2 * time.Second) }
	assert.Equal(t, OutcomeDuplicate, c.Commit(s, "ABC123QQ"))

	c.Wait()
	assert.Equal(t, 1, w.count())
}

func TestSessionUnmarkIdempotent(t *testing.T) {
	s := NewSession("t-1", "2026-08-30", nil, []string{"ABC123QQ"})
	s.Unmark("ABC123QQ")
	s.Unmark("ABC123QQ")
	s.Unmark("NEVERSET")
	assert.Equal(t, 0, s.MarkedCount())
}

func TestRegistryScoping(t *testing.T) {
	r := NewRegistry()
	s := NewSession("t-1", "2026-08-30", nil, nil)
	r.Open(s)

	got, err := r.Get(s.ID, "t-1")
	assert.NoError(t, err)
	assert.Equal(t, s, got)

	// another teacher cannot see or close the session
	_, err = r.Get(s.ID, "t-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Close(s.ID, "t-2"), ErrSessionNotFound)

	assert.NoError(t, r.Close(s.ID, "t-1"))
	_, err = r.Get(s.ID, "t-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
