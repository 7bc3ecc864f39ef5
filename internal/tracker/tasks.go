package tracker

import (
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// TaskParams holds the caller-settable fields for creating a task.
type TaskParams struct {
	Title            string
	Description      string
	Category         models.Category
	Priority         models.Priority
	Tags             []string
	EstimatedMinutes int
	Deadline         *time.Time
}

// TaskPatch holds the editable fields of a task. Nil fields are left
// unchanged. Status may move between not_started, in_progress and paused;
// completed is only reachable through CompleteTask.
type TaskPatch struct {
	Title            *string
	Description      *string
	Category         *models.Category
	Priority         *models.Priority
	Status           *models.Status
	Tags             *[]string
	EstimatedMinutes *int
	Deadline         *time.Time
	ClearDeadline    bool
}

// Completion carries the optional user-supplied figures recorded when a task
// is completed.
type Completion struct {
	// TimeSpentMinutes is the user's own total. When it disagrees with the
	// summed entry total it is recorded on the task as the authoritative
	// completion figure; individual entries are never rewritten.
	TimeSpentMinutes *int
	// CompletionPct overrides the completion percentage for tasks without
	// subtasks. Defaults to 100.
	CompletionPct *int
}

// CreateTask creates a task. Category and priority default to other/medium.
func (svc *Service) CreateTask(userID string, params TaskParams) (*models.Task, error) {
	if params.Title == "" {
		return nil, ErrEmptyTitle
	}
	if params.Category == "" {
		params.Category = models.CategoryOther
	}
	if !params.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !params.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if params.EstimatedMinutes < 0 {
		return nil, ErrInvalidEstimate
	}

	var task *models.Task
	err := svc.db.InTx(func(s *db.Store) error {
		var err error
		task, err = s.CreateTask(models.Task{
			UserID:           userID,
			Title:            params.Title,
			Description:      params.Description,
			Category:         params.Category,
			Priority:         params.Priority,
			Status:           models.StatusNotStarted,
			Tags:             params.Tags,
			EstimatedMinutes: params.EstimatedMinutes,
			Deadline:         params.Deadline,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask edits a task's caller-settable fields. Setting the status to
// completed is rejected; a completed task's status cannot be changed at all.
func (svc *Service) UpdateTask(userID string, taskID int64, patch TaskPatch) (*models.Task, error) {
	var task *models.Task
	err := svc.db.InTx(func(s *db.Store) error {
		current, err := userTask(s, userID, taskID)
		if err != nil {
			return err
		}

		if patch.Status != nil {
			if !patch.Status.IsValid() || *patch.Status == models.StatusCompleted {
				return ErrInvalidStatus
			}
			if current.Completed() {
				return ErrAlreadyCompleted
			}
			current.Status = *patch.Status
		}
		if patch.Title != nil {
			if *patch.Title == "" {
				return ErrEmptyTitle
			}
			current.Title = *patch.Title
		}
		if patch.Description != nil {
			current.Description = *patch.Description
		}
		if patch.Category != nil {
			if !patch.Category.IsValid() {
				return ErrInvalidCategory
			}
			current.Category = *patch.Category
		}
		if patch.Priority != nil {
			if !patch.Priority.IsValid() {
				return ErrInvalidPriority
			}
			current.Priority = *patch.Priority
		}
		if patch.Tags != nil {
			current.Tags = *patch.Tags
		}
		if patch.EstimatedMinutes != nil {
			if *patch.EstimatedMinutes < 0 {
				return ErrInvalidEstimate
			}
			current.EstimatedMinutes = *patch.EstimatedMinutes
		}
		if patch.ClearDeadline {
			current.Deadline = nil
		} else if patch.Deadline != nil {
			current.Deadline = patch.Deadline
		}

		if err := s.UpdateTask(current); err != nil {
			return err
		}
		task, err = s.GetTask(taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task with its tags and subtasks.
func (svc *Service) GetTask(userID string, taskID int64) (*models.Task, error) {
	var task *models.Task
	err := readWithRetry(func() error {
		var err error
		task, err = userTask(svc.db.Store(), userID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns the user's tasks filtered by search text and category.
func (svc *Service) ListTasks(userID, search string, category *models.Category, includeCompleted bool) ([]models.Task, error) {
	var tasks []models.Task
	err := readWithRetry(func() error {
		var err error
		tasks, err = svc.db.Store().ListTasksFiltered(userID, search, category, includeCompleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTask deletes a task that has no time entries. Tasks with logged
// time are rejected with ErrTaskHasEntries rather than silently cascading.
func (svc *Service) DeleteTask(userID string, taskID int64) error {
	return svc.db.InTx(func(s *db.Store) error {
		if _, err := userTask(s, userID, taskID); err != nil {
			return err
		}
		count, err := s.CountEntriesForTask(taskID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrTaskHasEntries
		}
		return s.DeleteTask(taskID)
	})
}

// CompleteTask marks a task completed. Completion is final: completing an
// already-completed task fails with ErrAlreadyCompleted and the original
// completion timestamp is never overwritten.
func (svc *Service) CompleteTask(userID string, taskID int64, completion Completion) (*models.Task, error) {
	var task *models.Task
	err := svc.db.InTx(func(s *db.Store) error {
		current, err := userTask(s, userID, taskID)
		if err != nil {
			return err
		}
		if current.Completed() {
			return ErrAlreadyCompleted
		}

		// Refresh aggregates so the discrepancy check compares against the
		// true summed total.
		current, err = recomputeTask(s, taskID)
		if err != nil {
			return err
		}

		var reported *int
		if completion.TimeSpentMinutes != nil && *completion.TimeSpentMinutes != current.LoggedMinutes {
			reported = completion.TimeSpentMinutes
		}

		pct := 100
		_, total, err := s.SubtaskCounts(taskID)
		if err != nil {
			return err
		}
		if total > 0 {
			// Subtask-derived percentage stays authoritative.
			pct = current.CompletionPct
		} else if completion.CompletionPct != nil {
			pct = clampPct(*completion.CompletionPct)
		}

		if err := s.MarkTaskCompleted(taskID, svc.now(), pct, reported); err != nil {
			return err
		}
		task, err = s.GetTask(taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AddSubtask appends a checklist item to a task and refreshes the derived
// completion percentage.
func (svc *Service) AddSubtask(userID string, taskID int64, title string) (*models.Subtask, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	var subtask *models.Subtask
	err := svc.db.InTx(func(s *db.Store) error {
		if _, err := userTask(s, userID, taskID); err != nil {
			return err
		}
		var err error
		subtask, err = s.AddSubtask(taskID, title)
		if err != nil {
			return err
		}
		_, err = recomputeTask(s, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

// SetSubtaskDone toggles a checklist item and refreshes the derived
// completion percentage of its task.
func (svc *Service) SetSubtaskDone(userID string, subtaskID int64, done bool) (*models.Task, error) {
	var task *models.Task
	err := svc.db.InTx(func(s *db.Store) error {
		subtask, err := s.GetSubtask(subtaskID)
		if db.IsNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := userTask(s, userID, subtask.TaskID); err != nil {
			return err
		}
		if _, err := s.SetSubtaskDone(subtaskID, done); err != nil {
			return err
		}
		task, err = recomputeTask(s, subtask.TaskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
