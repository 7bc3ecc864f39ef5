package tracker

import (
	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// StartTracking opens a timer against a task. It fails with
// ErrAlreadyRunning if the user already has a running timer; the existing
// timer is never auto-stopped, so no tracked time is lost silently.
func (svc *Service) StartTracking(userID string, taskID int64) (*models.TimeEntry, error) {
	var entry *models.TimeEntry
	err := svc.db.InTx(func(s *db.Store) error {
		task, err := userTask(s, userID, taskID)
		if err != nil {
			return err
		}

		entry, err = acquireTimer(s, userID, taskID, svc.now())
		if err != nil {
			return err
		}

		if task.Status == models.StatusNotStarted {
			return s.SetTaskStatus(taskID, models.StatusInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// StopTracking closes the user's active timer and recomputes the owning
// task's aggregates in the same transaction. Stopping an entry that is not
// the active one (already closed, someone else's, or unknown) fails with
// ErrNotActive.
//
// A stop that arrives at or before the entry's start (clock skew across
// devices) is not rejected: the duration is clamped to zero and the entry
// flagged for review, so the session is preserved rather than lost.
func (svc *Service) StopTracking(userID string, entryID int64) (*models.TimeEntry, error) {
	var entry *models.TimeEntry
	err := svc.db.InTx(func(s *db.Store) error {
		current, err := s.GetEntry(entryID)
		if err != nil || current.UserID != userID || !current.Running() {
			// Unknown, foreign and closed entries all look the same to the
			// caller: not the active timer.
			if err == nil || db.IsNotFound(err) {
				return ErrNotActive
			}
			return err
		}

		end := svc.now()
		minutes := minutesBetween(current.Start, end)
		needsReview := false
		if !end.After(current.Start) {
			end = current.Start
			minutes = 0
			needsReview = true
		}

		if err := releaseTimer(s, userID, entryID, end, minutes, needsReview); err != nil {
			return err
		}
		if _, err := recomputeTask(s, current.TaskID); err != nil {
			return err
		}

		entry, err = s.GetEntry(entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ActiveEntry returns the user's running entry, or nil if no timer is
// running. As an idempotent read it is retried once on a transient busy
// error.
func (svc *Service) ActiveEntry(userID string) (*models.TimeEntry, error) {
	var entry *models.TimeEntry
	err := readWithRetry(func() error {
		var err error
		entry, err = svc.db.Store().ActiveEntry(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
