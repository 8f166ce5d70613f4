package attendance

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/metrics"
)

// Outcome classifies one scan emission.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeNotFound  Outcome = "not_found"
	// OutcomeDropped means the emission landed inside the previous scan's
	// cool-down window and was ignored.
	OutcomeDropped Outcome = "dropped"
)

// RecordWriter is the slice of the store the committer needs.
type RecordWriter interface {
	InsertRecord(ctx context.Context, rec Record) (Record, error)
}

// Committer validates a scanned code against the session snapshots and
// persists successful marks. The local commit is synchronous; the store
// write is fire-and-forget with a best-effort rollback on failure. No
// retry, and deliberately no timeout on the write: a hung request keeps
// the optimistic mark until it resolves.
type Committer struct {
	writer   RecordWriter
	cooldown time.Duration
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewCommitter creates a committer with the given re-entrancy window.
func NewCommitter(writer RecordWriter, cooldown time.Duration) *Committer {
	if cooldown <= 0 {
		cooldown = 1500 * time.Millisecond
	}
	return &Committer{writer: writer, cooldown: cooldown, now: time.Now}
}

// Cooldown returns the re-entrancy window length.
func (c *Committer) Cooldown() time.Duration {
	return c.cooldown
}

// Commit applies the scan policy, in order: re-entrancy guard, duplicate
// check, roster check, then optimistic mark + async persist.
func (c *Committer) Commit(s *Session, code string) Outcome {
	now := c.now()
	if !s.TryArm(now, c.cooldown) {
		metrics.ScanOutcomes.WithLabelValues(string(OutcomeDropped)).Inc()
		return OutcomeDropped
	}

	var outcome Outcome
	switch {
	case s.Marked(code):
		outcome = OutcomeDuplicate
	case !s.Known(code):
		outcome = OutcomeNotFound
	default:
		outcome = OutcomeSuccess
		s.Mark(code)
		rec := Record{
			TeacherID:   s.TeacherID,
			StudentCode: code,
			Day:         s.Day,
			RecordedAt:  now.UTC(),
			Status:      StatusPresent,
		}
		c.wg.Add(1)
		go c.persist(s, rec)
	}
	metrics.ScanOutcomes.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (c *Committer) persist(s *Session, rec Record) {
	defer c.wg.Done()
	if _, err := c.writer.InsertRecord(context.Background(), rec); err != nil {
		s.Unmark(rec.StudentCode)
		s.AddNotice("attendance for " + rec.StudentCode + " was not saved, please rescan")
		metrics.PersistFailures.Inc()
		log.Printf("attendance persist failed for %s on %s: %v", rec.StudentCode, rec.Day, err)
	}
}

// Wait blocks until all in-flight persists finish. Called on shutdown so
// accepted marks are not lost with the process.
func (c *Committer) Wait() {
	c.wg.Wait()
}
