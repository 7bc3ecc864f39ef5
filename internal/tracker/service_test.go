package tracker

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

const testUser = "u1"

// clock is a controllable time source for the service under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "pulse.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	c := &clock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := New(database)
	svc.now = c.Now
	return svc, c
}

func mustCreateTask(t *testing.T, svc *Service, title string) *models.Task {
	t.Helper()
	task, err := svc.CreateTask(testUser, TaskParams{Title: title})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

// requireLoggedEquals checks the core aggregation invariant: a task's logged
// minutes always equal the sum of its closed entries.
func requireLoggedEquals(t *testing.T, svc *Service, taskID int64, want int) {
	t.Helper()
	task, err := svc.GetTask(testUser, taskID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if task.LoggedMinutes != want {
		t.Errorf("expected %d logged minutes, got %d", want, task.LoggedMinutes)
	}

	entries, err := svc.EntriesForTask(testUser, taskID)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	sum := 0
	for _, e := range entries {
		if !e.Running() {
			sum += e.DurationMinutes
		}
	}
	if task.LoggedMinutes != sum {
		t.Errorf("logged minutes %d out of sync with entry sum %d", task.LoggedMinutes, sum)
	}
}

func intPtr(n int) *int { return &n }
