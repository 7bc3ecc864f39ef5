package tracker

import (
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// ManualLog describes a manually entered, already-finished block of time.
// When TaskID is nil a minimal task is created from NewTaskTitle first; this
// is the only implicit task creation path in the core.
type ManualLog struct {
	TaskID       *int64
	NewTaskTitle string
	Start        time.Time
	End          time.Time
	FocusScore   *int
	Notes        string
}

// EntryPatch holds the editable fields of a closed time entry. Nil fields
// are left unchanged.
type EntryPatch struct {
	TaskID     *int64
	Start      *time.Time
	End        *time.Time
	FocusScore *int
	Notes      *string
}

// LogManualTime creates a closed entry directly, without touching the active
// timer. The range must satisfy start < end and end <= now; otherwise the
// call fails with ErrInvalidRange and creates nothing.
func (svc *Service) LogManualTime(userID string, log ManualLog) (*models.TimeEntry, error) {
	if err := validateRange(log.Start, log.End, svc.now()); err != nil {
		return nil, err
	}
	if err := validateFocusScore(log.FocusScore); err != nil {
		return nil, err
	}

	var entry *models.TimeEntry
	err := svc.db.InTx(func(s *db.Store) error {
		var task *models.Task
		var err error
		if log.TaskID != nil {
			task, err = userTask(s, userID, *log.TaskID)
		} else {
			if log.NewTaskTitle == "" {
				return ErrEmptyTitle
			}
			task, err = s.CreateTask(models.Task{
				UserID:   userID,
				Title:    log.NewTaskTitle,
				Category: models.CategoryOther,
				Priority: models.PriorityMedium,
				Status:   models.StatusNotStarted,
			})
		}
		if err != nil {
			return err
		}

		entry, err = s.InsertEntry(models.TimeEntry{
			TaskID:          task.ID,
			UserID:          userID,
			Start:           log.Start,
			End:             &log.End,
			DurationMinutes: minutesBetween(log.Start, log.End),
			FocusScore:      log.FocusScore,
			Notes:           log.Notes,
		})
		if err != nil {
			return err
		}

		if task.Status == models.StatusNotStarted {
			if err := s.SetTaskStatus(task.ID, models.StatusInProgress); err != nil {
				return err
			}
		}

		_, err = recomputeTask(s, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateTimeEntry edits a closed entry. Editing the live timer fails with
// ErrEntryRunning; the caller must stop it first. The resulting range is
// validated the same way as a manual log, and the old (and, when the entry
// moves, new) owning task is recomputed in the same transaction.
func (svc *Service) UpdateTimeEntry(userID string, entryID int64, patch EntryPatch) (*models.TimeEntry, error) {
	if err := validateFocusScore(patch.FocusScore); err != nil {
		return nil, err
	}

	var entry *models.TimeEntry
	err := svc.db.InTx(func(s *db.Store) error {
		current, err := s.GetEntry(entryID)
		if db.IsNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return ErrNotFound
		}
		if current.Running() {
			return ErrEntryRunning
		}

		oldTaskID := current.TaskID
		if patch.TaskID != nil && *patch.TaskID != oldTaskID {
			if _, err := userTask(s, userID, *patch.TaskID); err != nil {
				return err
			}
			current.TaskID = *patch.TaskID
		}
		if patch.Start != nil {
			current.Start = *patch.Start
		}
		if patch.End != nil {
			current.End = patch.End
		}
		if patch.FocusScore != nil {
			current.FocusScore = patch.FocusScore
		}
		if patch.Notes != nil {
			current.Notes = *patch.Notes
		}

		if err := validateRange(current.Start, *current.End, svc.now()); err != nil {
			return err
		}
		current.DurationMinutes = minutesBetween(current.Start, *current.End)
		// An explicit edit resolves a clock-skew flag.
		current.NeedsReview = false

		if err := s.UpdateEntry(current); err != nil {
			return err
		}
		if _, err := recomputeTask(s, oldTaskID); err != nil {
			return err
		}
		if current.TaskID != oldTaskID {
			if _, err := recomputeTask(s, current.TaskID); err != nil {
				return err
			}
		}

		entry, err = s.GetEntry(entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteTimeEntry deletes a closed entry and recomputes its owning task.
// The live timer cannot be deleted; stop it first.
func (svc *Service) DeleteTimeEntry(userID string, entryID int64) error {
	return svc.db.InTx(func(s *db.Store) error {
		current, err := s.GetEntry(entryID)
		if db.IsNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return ErrNotFound
		}
		if current.Running() {
			return ErrEntryRunning
		}

		if _, err := s.DeleteEntry(entryID); err != nil {
			return err
		}
		_, err = recomputeTask(s, current.TaskID)
		return err
	})
}

// EntriesForTask returns all of the user's entries for a task, newest first.
func (svc *Service) EntriesForTask(userID string, taskID int64) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := readWithRetry(func() error {
		s := svc.db.Store()
		if _, err := userTask(s, userID, taskID); err != nil {
			return err
		}
		var err error
		entries, err = s.ListEntriesForTask(taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
