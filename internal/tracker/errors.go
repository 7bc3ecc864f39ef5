package tracker

import "errors"

// The service returns these sentinel errors as values so callers can match
// them with errors.Is and render specific messages. None of them are used
// for control flow inside the package boundary.
var (
	// ErrAlreadyRunning indicates a start attempt while a timer is active.
	// The caller must stop the running timer first; it is never auto-stopped.
	ErrAlreadyRunning = errors.New("a timer is already running")

	// ErrNotActive indicates a stop referenced an entry that is not the
	// current active one. The caller holds stale state and should refetch
	// the active entry.
	ErrNotActive = errors.New("entry is not the active timer")

	// ErrEntryRunning indicates an edit or delete attempted on the live
	// entry. The caller must stop it first.
	ErrEntryRunning = errors.New("entry is currently running")

	// ErrInvalidRange indicates start >= end or an end in the future.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrAlreadyCompleted indicates a completion attempt on a task that is
	// already completed. Completion is not an idempotent no-op.
	ErrAlreadyCompleted = errors.New("task is already completed")

	// ErrNotFound indicates a stale or unknown id.
	ErrNotFound = errors.New("not found")

	// ErrTaskHasEntries indicates a delete attempt on a task that still has
	// time entries. Entries must be deleted or moved first.
	ErrTaskHasEntries = errors.New("task has time entries")

	// ErrEmptyTitle indicates a task title was empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidFocusScore indicates a focus score outside 1-5.
	ErrInvalidFocusScore = errors.New("focus score must be between 1 and 5")

	// ErrInvalidLevel indicates a check-in level outside 1-5.
	ErrInvalidLevel = errors.New("level must be between 1 and 5")

	// ErrInvalidDate indicates a check-in date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidStatus indicates an unknown status or a status transition
	// that must go through completion.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidCategory indicates an unknown category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidPriority indicates an unknown priority.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidEstimate indicates a negative estimated duration.
	ErrInvalidEstimate = errors.New("estimated minutes cannot be negative")
)
