package tracker

import (
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// The active timer guard enforces that a user has at most one running entry.
// Both operations are single statements against the store, so the invariant
// holds under concurrent calls from multiple devices without a read-then-
// write race: acquisition rides on the partial unique index over open
// entries, release on a conditional update.

// acquireTimer opens a timer by inserting an entry with no end. If the user
// already has an open entry the insert violates the unique index and the
// attempt fails with ErrAlreadyRunning.
func acquireTimer(s *db.Store, userID string, taskID int64, start time.Time) (*models.TimeEntry, error) {
	entry, err := s.InsertEntry(models.TimeEntry{
		TaskID: taskID,
		UserID: userID,
		Start:  start,
	})
	if db.IsUniqueViolation(err) {
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// releaseTimer closes the entry if and only if it is still the user's open
// entry. A repeated or stale release affects no rows and fails with
// ErrNotActive, so closing is never applied twice.
func releaseTimer(s *db.Store, userID string, entryID int64, end time.Time, durationMinutes int, needsReview bool) error {
	ok, err := s.CloseEntry(entryID, userID, end, durationMinutes, needsReview)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotActive
	}
	return nil
}
