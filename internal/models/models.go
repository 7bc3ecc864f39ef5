package models

import "time"

// Task represents a single tracked task
type Task struct {
	ID               int64
	UserID           string
	Title            string
	Description      string
	Category         Category
	Priority         Priority
	Status           Status
	EstimatedMinutes int
	// LoggedMinutes is derived from closed time entries and never set
	// directly by a caller.
	LoggedMinutes int
	// CompletionPct is derived from subtasks when any exist, otherwise it
	// holds whatever the last completion set.
	CompletionPct int
	// ReportedMinutes records a user-supplied total from completion when it
	// disagrees with the summed entry total. Entries are never rewritten.
	ReportedMinutes *int
	Deadline        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
	Tags            []string  // populated when loading tasks
	Subtasks        []Subtask // populated when loading task details
}

// Completed reports whether the task has been completed.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Subtask represents a checklist item under a task
type Subtask struct {
	ID        int64
	TaskID    int64
	Title     string
	Done      bool
	CreatedAt time.Time
}

// TimeEntry represents time spent on a task. An entry with a nil End is the
// user's active timer; at most one such entry exists per user.
type TimeEntry struct {
	ID     int64
	TaskID int64
	UserID string
	Start  time.Time
	End    *time.Time
	// DurationMinutes is derived as End - Start once the entry is closed.
	// It is zero while the entry is running.
	DurationMinutes int
	FocusScore      *int // 1-5, nil if not rated
	Notes           string
	// NeedsReview marks an entry whose stop time arrived at or before its
	// start time; the duration was clamped to zero instead of failing.
	NeedsReview bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Running reports whether the entry is still open.
func (e *TimeEntry) Running() bool {
	return e.End == nil
}

// DailyCheckIn is a per-date journal record, one per user per date.
type DailyCheckIn struct {
	ID         int64
	UserID     string
	Date       string // YYYY-MM-DD
	Priorities []string
	Energy     *int // 1-5
	Mood       *int // 1-5
	Stress     *int // 1-5
	FocusAreas []string
	Motivation string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
