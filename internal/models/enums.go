package models

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusNotStarted indicates no time has been tracked against the task.
	StatusNotStarted Status = "not_started"

	// StatusInProgress indicates the task has tracked time or was started.
	StatusInProgress Status = "in_progress"

	// StatusPaused indicates the task was explicitly set aside.
	StatusPaused Status = "paused"

	// StatusCompleted indicates the task is done. Completed is terminal and
	// is only set through task completion, never through a plain update.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Category represents the area of life a task belongs to.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryLearning Category = "learning"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryLearning, CategoryHealth, CategoryOther}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Priority represents task urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}
