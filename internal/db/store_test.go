package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jmhart/pulse/internal/models"
)

const testUser = "u1"

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "pulse.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seedTask(t *testing.T, s *Store) *models.Task {
	t.Helper()
	task, err := s.CreateTask(models.Task{
		UserID:   testUser,
		Title:    "write report",
		Category: models.CategoryWork,
		Priority: models.PriorityMedium,
		Status:   models.StatusNotStarted,
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestTaskRoundTrip(t *testing.T) {
	s := testDB(t).Store()

	deadline := time.Date(2025, 3, 20, 17, 0, 0, 0, time.UTC)
	created, err := s.CreateTask(models.Task{
		UserID:           testUser,
		Title:            "write report",
		Description:      "quarterly numbers",
		Category:         models.CategoryWork,
		Priority:         models.PriorityHigh,
		Status:           models.StatusNotStarted,
		EstimatedMinutes: 120,
		Deadline:         &deadline,
		Tags:             []string{"q1", "finance"},
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.Title != "write report" || got.Description != "quarterly numbers" {
		t.Errorf("text fields did not round-trip: %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Errorf("deadline did not round-trip: %v", got.Deadline)
	}
	if !reflect.DeepEqual(got.Tags, []string{"finance", "q1"}) {
		t.Errorf("expected sorted tags, got %v", got.Tags)
	}
	if got.LoggedMinutes != 0 || got.CompletionPct != 0 || got.ReportedMinutes != nil {
		t.Errorf("derived fields must start zero: %+v", got)
	}
}

func TestListTasksFiltered(t *testing.T) {
	s := testDB(t).Store()

	if _, err := s.CreateTask(models.Task{
		UserID: testUser, Title: "write report",
		Category: models.CategoryWork, Priority: models.PriorityLow, Status: models.StatusNotStarted,
	}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	done, err := s.CreateTask(models.Task{
		UserID: testUser, Title: "morning run",
		Category: models.CategoryHealth, Priority: models.PriorityCritical, Status: models.StatusNotStarted,
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if err := s.MarkTaskCompleted(done.ID, time.Now(), 100, nil); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	all, err := s.ListTasksFiltered(testUser, "", nil, true)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	// Critical priority sorts first.
	if all[0].ID != done.ID {
		t.Errorf("expected priority ordering, got %v first", all[0].Title)
	}

	open, err := s.ListTasksFiltered(testUser, "", nil, false)
	if err != nil {
		t.Fatalf("failed to list open tasks: %v", err)
	}
	if len(open) != 1 || open[0].Title != "write report" {
		t.Errorf("completed task not excluded: %+v", open)
	}

	health := models.CategoryHealth
	byCat, err := s.ListTasksFiltered(testUser, "", &health, true)
	if err != nil {
		t.Fatalf("failed to filter by category: %v", err)
	}
	if len(byCat) != 1 || byCat[0].ID != done.ID {
		t.Errorf("category filter failed: %+v", byCat)
	}

	bySearch, err := s.ListTasksFiltered(testUser, "report", nil, true)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Title != "write report" {
		t.Errorf("search filter failed: %+v", bySearch)
	}
}

// The partial unique index allows any number of closed entries but at most
// one open entry per user.
func TestSecondOpenEntryRejected(t *testing.T) {
	s := testDB(t).Store()
	task := seedTask(t, s)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: start,
	}); err != nil {
		t.Fatalf("failed to insert open entry: %v", err)
	}

	_, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: start.Add(time.Minute),
	})
	if err == nil {
		t.Fatal("expected the second open entry to fail")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected a unique violation, got %v", err)
	}

	// A different user is not constrained by this user's open entry.
	if _, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: "u2", Start: start,
	}); err != nil {
		t.Fatalf("open entry for another user rejected: %v", err)
	}

	// Closed entries coexist freely.
	end := start.Add(30 * time.Minute)
	if _, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: start,
		End: &end, DurationMinutes: 30,
	}); err != nil {
		t.Fatalf("closed entry rejected while a timer runs: %v", err)
	}
}

func TestCloseEntryConditional(t *testing.T) {
	s := testDB(t).Store()
	task := seedTask(t, s)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	entry, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: start,
	})
	if err != nil {
		t.Fatalf("failed to insert open entry: %v", err)
	}

	// The wrong user closes zero rows.
	ok, err := s.CloseEntry(entry.ID, "u2", start.Add(time.Hour), 60, false)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if ok {
		t.Fatal("another user must not close the entry")
	}

	ok, err = s.CloseEntry(entry.ID, testUser, start.Add(time.Hour), 60, false)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the close to succeed")
	}

	// A repeated close finds the entry already closed.
	ok, err = s.CloseEntry(entry.ID, testUser, start.Add(2*time.Hour), 120, false)
	if err != nil {
		t.Fatalf("repeated close failed: %v", err)
	}
	if ok {
		t.Fatal("a closed entry must not be closed again")
	}

	got, err := s.GetEntry(entry.ID)
	if err != nil {
		t.Fatalf("failed to get entry: %v", err)
	}
	if got.DurationMinutes != 60 {
		t.Errorf("repeated close rewrote the entry: %d minutes", got.DurationMinutes)
	}
}

func TestActiveEntryNilWhenIdle(t *testing.T) {
	s := testDB(t).Store()
	task := seedTask(t, s)

	active, err := s.ActiveEntry(testUser)
	if err != nil {
		t.Fatalf("failed to query active entry: %v", err)
	}
	if active != nil {
		t.Fatalf("expected nil, got %+v", active)
	}

	entry, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to insert open entry: %v", err)
	}
	active, err = s.ActiveEntry(testUser)
	if err != nil {
		t.Fatalf("failed to query active entry: %v", err)
	}
	if active == nil || active.ID != entry.ID {
		t.Fatalf("expected entry %d, got %+v", entry.ID, active)
	}
}

func TestListEntriesInRangeBoundaries(t *testing.T) {
	s := testDB(t).Store()
	task := seedTask(t, s)

	from := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	insert := func(start time.Time) {
		end := start.Add(10 * time.Minute)
		if _, err := s.InsertEntry(models.TimeEntry{
			TaskID: task.ID, UserID: testUser, Start: start,
			End: &end, DurationMinutes: 10,
		}); err != nil {
			t.Fatalf("failed to insert entry: %v", err)
		}
	}
	insert(from.Add(-time.Minute)) // before the window
	insert(from)                   // inclusive start
	insert(to.Add(-time.Minute))   // just inside
	insert(to)                     // exclusive end

	entries, err := s.ListEntriesInRange(testUser, from, to)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in [from, to), got %d", len(entries))
	}
	if !entries[0].Start.Equal(from) {
		t.Errorf("expected oldest-first ordering, got %v first", entries[0].Start)
	}
}

func TestSumClosedMinutesIgnoresRunning(t *testing.T) {
	s := testDB(t).Store()
	task := seedTask(t, s)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	end := start.Add(45 * time.Minute)
	if _, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: start,
		End: &end, DurationMinutes: 45,
	}); err != nil {
		t.Fatalf("failed to insert closed entry: %v", err)
	}
	if _, err := s.InsertEntry(models.TimeEntry{
		TaskID: task.ID, UserID: testUser, Start: end,
	}); err != nil {
		t.Fatalf("failed to insert open entry: %v", err)
	}

	sum, err := s.SumClosedMinutes(task.ID)
	if err != nil {
		t.Fatalf("failed to sum entries: %v", err)
	}
	if sum != 45 {
		t.Errorf("expected 45 closed minutes, got %d", sum)
	}
}

func TestUpsertCheckInReplacesRow(t *testing.T) {
	s := testDB(t).Store()

	first, err := s.UpsertCheckIn(models.DailyCheckIn{
		UserID:     testUser,
		Date:       "2025-03-10",
		Priorities: []string{"ship report"},
		Energy:     intPtr(4),
	})
	if err != nil {
		t.Fatalf("failed to insert check-in: %v", err)
	}

	second, err := s.UpsertCheckIn(models.DailyCheckIn{
		UserID: testUser,
		Date:   "2025-03-10",
		Mood:   intPtr(3),
	})
	if err != nil {
		t.Fatalf("failed to upsert check-in: %v", err)
	}

	// Same row, fully replaced.
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %d != %d", second.ID, first.ID)
	}
	if second.Energy != nil {
		t.Errorf("full replace should have cleared energy, got %v", *second.Energy)
	}
	if second.Mood == nil || *second.Mood != 3 {
		t.Errorf("expected mood 3, got %v", second.Mood)
	}
	if len(second.Priorities) != 0 {
		t.Errorf("full replace should have cleared priorities, got %v", second.Priorities)
	}
}

func TestListCheckInsInRange(t *testing.T) {
	s := testDB(t).Store()

	for _, date := range []string{"2025-03-03", "2025-03-04", "2025-03-10", "2025-03-11"} {
		if _, err := s.UpsertCheckIn(models.DailyCheckIn{UserID: testUser, Date: date}); err != nil {
			t.Fatalf("failed to insert check-in: %v", err)
		}
	}

	checkins, err := s.ListCheckInsInRange(testUser, "2025-03-04", "2025-03-11")
	if err != nil {
		t.Fatalf("failed to list check-ins: %v", err)
	}
	if len(checkins) != 2 {
		t.Fatalf("expected 2 check-ins in range, got %d", len(checkins))
	}
	if checkins[0].Date != "2025-03-04" || checkins[1].Date != "2025-03-10" {
		t.Errorf("unexpected dates: %s, %s", checkins[0].Date, checkins[1].Date)
	}
}

// A failed transaction leaves nothing behind.
func TestInTxRollback(t *testing.T) {
	database := testDB(t)

	sentinel := errors.New("abort")
	err := database.InTx(func(s *Store) error {
		if _, err := s.CreateTask(models.Task{
			UserID: testUser, Title: "doomed",
			Category: models.CategoryOther, Priority: models.PriorityLow, Status: models.StatusNotStarted,
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected the sentinel error back, got %v", err)
	}

	tasks, err := database.Store().ListTasks(testUser)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("rolled-back task is visible: %+v", tasks)
	}
}

func TestSettings(t *testing.T) {
	database := testDB(t)

	value, err := database.GetSetting("missing")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value for a missing key, got %q", value)
	}

	if err := database.SetSetting("last_user", "u1"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := database.SetSetting("last_user", "u2"); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}

	value, err = database.GetSetting("last_user")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "u2" {
		t.Errorf("expected u2, got %q", value)
	}
}

func intPtr(n int) *int { return &n }
