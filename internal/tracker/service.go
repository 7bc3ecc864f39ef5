// Package tracker implements the task and time-entry tracking core: the
// single entry point UI collaborators use to start and stop timers, log and
// edit time, complete tasks, and record daily check-ins.
//
// Every mutation runs inside one store transaction together with the
// aggregate recompute it triggers, so a failed call leaves state exactly as
// it was and a successful call never exposes stale derived fields.
package tracker

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// readRetryDelay is the backoff before the single retry of an idempotent
// read that hit a transient busy error. Mutations are never retried.
const readRetryDelay = 50 * time.Millisecond

// Service is the tracking façade.
type Service struct {
	db *db.DB

	// now is swapped out by tests.
	now func() time.Time
}

// New creates a tracking service on top of the given database.
func New(database *db.DB) *Service {
	return &Service{db: database, now: time.Now}
}

// userTask loads a task and checks ownership. Unknown ids and other users'
// tasks are both reported as ErrNotFound.
func userTask(s *db.Store, userID string, taskID int64) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotFound
	}
	return task, nil
}

// validateRange checks a closed entry's range: start must precede end and
// end must not be in the future.
func validateRange(start, end, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if end.After(now) {
		return ErrInvalidRange
	}
	return nil
}

func validateFocusScore(score *int) error {
	if score != nil && (*score < 1 || *score > 5) {
		return ErrInvalidFocusScore
	}
	return nil
}

// minutesBetween truncates to whole minutes.
func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// readWithRetry runs an idempotent read, retrying once after a short backoff
// when the store reports a transient busy error.
func readWithRetry(fn func() error) error {
	err := fn()
	if err == nil || !db.IsBusy(err) {
		return err
	}
	time.Sleep(readRetryDelay)
	return fn()
}
