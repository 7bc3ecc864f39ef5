package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/jmhart/pulse/internal/models"
)

// Scenario: a manual log with no task creates exactly one minimal task and
// one entry, and the task's logged minutes match the entry.
func TestLogManualTimeCreatesTask(t *testing.T) {
	svc, clk := newTestService(t)
	now := clk.Now()

	entry, err := svc.LogManualTime(testUser, ManualLog{
		NewTaskTitle: "Read book",
		Start:        now.Add(-3 * time.Hour), // 9:00
		End:          now.Add(-2 * time.Hour), // 10:00
		FocusScore:   intPtr(4),
	})
	if err != nil {
		t.Fatalf("failed to log time: %v", err)
	}
	if entry.DurationMinutes != 60 {
		t.Errorf("expected 60 minutes, got %d", entry.DurationMinutes)
	}

	tasks, err := svc.ListTasks(testUser, "", nil, true)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected exactly 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Read book" {
		t.Errorf("expected title %q, got %q", "Read book", tasks[0].Title)
	}
	if tasks[0].Status != models.StatusInProgress {
		t.Errorf("expected in_progress, got %s", tasks[0].Status)
	}
	requireLoggedEquals(t, svc, tasks[0].ID, 60)
}

func TestLogManualTimeExistingTask(t *testing.T) {
	svc, clk := newTestService(t)
	task := mustCreateTask(t, svc, "write report")
	now := clk.Now()

	if _, err := svc.LogManualTime(testUser, ManualLog{
		TaskID: &task.ID,
		Start:  now.Add(-90 * time.Minute),
		End:    now.Add(-30 * time.Minute),
	}); err != nil {
		t.Fatalf("failed to log time: %v", err)
	}
	requireLoggedEquals(t, svc, task.ID, 60)
}

// Scenario: an inverted range is rejected and creates no records.
func TestLogManualTimeInvalidRange(t *testing.T) {
	svc, clk := newTestService(t)
	now := clk.Now()

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"inverted", now.Add(-1 * time.Hour), now.Add(-2 * time.Hour)},
		{"equal", now.Add(-1 * time.Hour), now.Add(-1 * time.Hour)},
		{"future end", now.Add(-1 * time.Hour), now.Add(1 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogManualTime(testUser, ManualLog{
				NewTaskTitle: "Read book",
				Start:        tc.start,
				End:          tc.end,
			})
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}

	tasks, err := svc.ListTasks(testUser, "", nil, true)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks after rejected logs, got %d", len(tasks))
	}
}

func TestLogManualTimeMissingTitle(t *testing.T) {
	svc, clk := newTestService(t)
	now := clk.Now()

	_, err := svc.LogManualTime(testUser, ManualLog{
		Start: now.Add(-1 * time.Hour),
		End:   now,
	})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestLogManualTimeBadFocusScore(t *testing.T) {
	svc, clk := newTestService(t)
	now := clk.Now()

	for _, score := range []int{0, 6} {
		_, err := svc.LogManualTime(testUser, ManualLog{
			NewTaskTitle: "Read book",
			Start:        now.Add(-1 * time.Hour),
			End:          now,
			FocusScore:   intPtr(score),
		})
		if !errors.Is(err, ErrInvalidFocusScore) {
			t.Fatalf("score %d: expected ErrInvalidFocusScore, got %v", score, err)
		}
	}
}

// Round-trip: logging and then re-writing the same range yields the exact
// minute difference, regardless of intermediate edits.
func TestUpdateTimeEntryRoundTrip(t *testing.T) {
	svc, clk := newTestService(t)
	task := mustCreateTask(t, svc, "write report")
	now := clk.Now()
	t0 := now.Add(-3 * time.Hour)
	t1 := t0.Add(95 * time.Minute)

	entry, err := svc.LogManualTime(testUser, ManualLog{TaskID: &task.ID, Start: t0, End: t1})
	if err != nil {
		t.Fatalf("failed to log time: %v", err)
	}

	// Shrink the range, then restore it.
	mid := t0.Add(10 * time.Minute)
	if _, err := svc.UpdateTimeEntry(testUser, entry.ID, EntryPatch{Start: &mid}); err != nil {
		t.Fatalf("failed to edit entry: %v", err)
	}
	updated, err := svc.UpdateTimeEntry(testUser, entry.ID, EntryPatch{Start: &t0, End: &t1})
	if err != nil {
		t.Fatalf("failed to edit entry: %v", err)
	}

	if updated.DurationMinutes != 95 {
		t.Errorf("expected 95 minutes, got %d", updated.DurationMinutes)
	}
	requireLoggedEquals(t, svc, task.ID, 95)
}

// Scenario: editing the live timer is rejected and the timer is untouched.
func TestUpdateTimeEntryRunning(t *testing.T) {
	svc, clk := newTestService(t)
	task := mustCreateTask(t, svc, "write report")

	entry, err := svc.StartTracking(testUser, task.ID)
	if err != nil {
		t.Fatalf("failed to start tracking: %v", err)
	}

	earlier := clk.Now().Add(-1 * time.Hour)
	notes := "rewritten"
	_, err = svc.UpdateTimeEntry(testUser, entry.ID, EntryPatch{Start: &earlier, Notes: &notes})
	if !errors.Is(err, ErrEntryRunning) {
		t.Fatalf("expected ErrEntryRunning, got %v", err)
	}

	active, err := svc.ActiveEntry(testUser)
	if err != nil {
		t.Fatalf("failed to read active entry: %v", err)
	}
	if active == nil || !active.Start.Equal(entry.Start) || active.Notes != "" {
		t.Fatalf("running entry was modified: %+v", active)
	}
}

func TestUpdateTimeEntryMovesTask(t *testing.T) {
	svc, clk := newTestService(t)
	t1 := mustCreateTask(t, svc, "write report")
	t2 := mustCreateTask(t, svc, "review notes")
	now := clk.Now()

	entry, err := svc.LogManualTime(testUser, ManualLog{
		TaskID: &t1.ID,
		Start:  now.Add(-2 * time.Hour),
		End:    now.Add(-1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to log time: %v", err)
	}
	requireLoggedEquals(t, svc, t1.ID, 60)

	if _, err := svc.UpdateTimeEntry(testUser, entry.ID, EntryPatch{TaskID: &t2.ID}); err != nil {
		t.Fatalf("failed to move entry: %v", err)
	}

	// Both the old and the new owning task are recomputed.
	requireLoggedEquals(t, svc, t1.ID, 0)
	requireLoggedEquals(t, svc, t2.ID, 60)
}

func TestUpdateTimeEntryRevalidatesRange(t *testing.T) {
	svc, clk := newTestService(t)
	task := mustCreateTask(t, svc, "write report")
	now := clk.Now()

	entry, err := svc.LogManualTime(testUser, ManualLog{
		TaskID: &task.ID,
		Start:  now.Add(-2 * time.Hour),
		End:    now.Add(-1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to log time: %v", err)
	}

	future := now.Add(1 * time.Hour)
	if _, err := svc.UpdateTimeEntry(testUser, entry.ID, EntryPatch{End: &future}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	requireLoggedEquals(t, svc, task.ID, 60)
}

func TestUpdateTimeEntryNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.UpdateTimeEntry(testUser, 999, EntryPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTimeEntry(t *testing.T) {
	svc, clk := newTestService(t)
	task := mustCreateTask(t, svc, "write report")
	now := clk.Now()

	entry, err := svc.LogManualTime(testUser, ManualLog{
		TaskID: &task.ID,
		Start:  now.Add(-2 * time.Hour),
		End:    now.Add(-1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to log time: %v", err)
	}
	requireLoggedEquals(t, svc, task.ID, 60)

	if err := svc.DeleteTimeEntry(testUser, entry.ID); err != nil {
		t.Fatalf("failed to delete entry: %v", err)
	}
	requireLoggedEquals(t, svc, task.ID, 0)

	if err := svc.DeleteTimeEntry(testUser, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRunningEntryRejected(t *testing.T) {
	svc, _ := newTestService(t)
	task := mustCreateTask(t, svc, "write report")

	entry, err := svc.StartTracking(testUser, task.ID)
	if err != nil {
		t.Fatalf("failed to start tracking: %v", err)
	}
	if err := svc.DeleteTimeEntry(testUser, entry.ID); !errors.Is(err, ErrEntryRunning) {
		t.Fatalf("expected ErrEntryRunning, got %v", err)
	}
}
