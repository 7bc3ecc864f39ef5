package db

import (
	"database/sql"
	"time"

	"github.com/jmhart/pulse/internal/models"
)

const entryColumns = `id, task_id, user_id, start_ts, end_ts, duration_minutes,
	focus_score, notes, needs_review, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	var end sql.NullTime
	var focus sql.NullInt64
	err := row.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Start, &end,
		&e.DurationMinutes, &focus, &e.Notes, &e.NeedsReview,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		e.End = &t
	}
	if focus.Valid {
		v := int(focus.Int64)
		e.FocusScore = &v
	}
	return e, nil
}

// InsertEntry inserts a time entry, open or closed. Inserting an open entry
// (nil End) for a user who already has one fails the partial unique index;
// callers detect that with IsUniqueViolation.
func (s *Store) InsertEntry(e models.TimeEntry) (*models.TimeEntry, error) {
	var focus sql.NullInt64
	if e.FocusScore != nil {
		focus = sql.NullInt64{Int64: int64(*e.FocusScore), Valid: true}
	}
	result, err := s.q.Exec(`
		INSERT INTO time_entries (task_id, user_id, start_ts, end_ts, duration_minutes, focus_score, notes, needs_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.TaskID, e.UserID, e.Start.UTC(), nullableTime(e.End),
		e.DurationMinutes, focus, e.Notes, e.NeedsReview)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetEntry(id)
}

// GetEntry retrieves a time entry by ID
func (s *Store) GetEntry(id int64) (*models.TimeEntry, error) {
	return scanEntry(s.q.QueryRow(`
		SELECT `+entryColumns+` FROM time_entries WHERE id = ?
	`, id))
}

// ActiveEntry returns the user's running entry, or nil if no timer is
// running.
func (s *Store) ActiveEntry(userID string) (*models.TimeEntry, error) {
	e, err := scanEntry(s.q.QueryRow(`
		SELECT `+entryColumns+` FROM time_entries WHERE user_id = ? AND end_ts IS NULL
	`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CloseEntry closes a running entry. The WHERE clause requires the entry to
// still be open and owned by the user, so a stale or repeated close affects
// zero rows and returns false.
func (s *Store) CloseEntry(id int64, userID string, end time.Time, durationMinutes int, needsReview bool) (bool, error) {
	result, err := s.q.Exec(`
		UPDATE time_entries SET end_ts = ?, duration_minutes = ?, needs_review = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND end_ts IS NULL
	`, end.UTC(), durationMinutes, needsReview, id, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// UpdateEntry rewrites the mutable fields of a closed entry.
func (s *Store) UpdateEntry(e *models.TimeEntry) error {
	var focus sql.NullInt64
	if e.FocusScore != nil {
		focus = sql.NullInt64{Int64: int64(*e.FocusScore), Valid: true}
	}
	_, err := s.q.Exec(`
		UPDATE time_entries SET task_id = ?, start_ts = ?, end_ts = ?,
			duration_minutes = ?, focus_score = ?, notes = ?, needs_review = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, e.TaskID, e.Start.UTC(), nullableTime(e.End), e.DurationMinutes,
		focus, e.Notes, e.NeedsReview, e.ID)
	return err
}

// DeleteEntry deletes a time entry. Returns false if no such entry existed.
func (s *Store) DeleteEntry(id int64) (bool, error) {
	result, err := s.q.Exec("DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ListEntriesForTask returns all entries for a task, newest first
func (s *Store) ListEntriesForTask(taskID int64) ([]models.TimeEntry, error) {
	return s.listEntries(`
		SELECT `+entryColumns+` FROM time_entries WHERE task_id = ? ORDER BY start_ts DESC
	`, taskID)
}

// ListEntriesInRange returns a user's entries whose start falls in
// [start, end), oldest first.
func (s *Store) ListEntriesInRange(userID string, start, end time.Time) ([]models.TimeEntry, error) {
	return s.listEntries(`
		SELECT `+entryColumns+` FROM time_entries
		WHERE user_id = ? AND start_ts >= ? AND start_ts < ?
		ORDER BY start_ts
	`, userID, start.UTC(), end.UTC())
}

func (s *Store) listEntries(query string, args ...any) ([]models.TimeEntry, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// SumClosedMinutes returns the summed duration of all closed entries for a
// task. Running entries contribute nothing.
func (s *Store) SumClosedMinutes(taskID int64) (int, error) {
	var sum int
	err := s.q.QueryRow(`
		SELECT COALESCE(SUM(duration_minutes), 0) FROM time_entries
		WHERE task_id = ? AND end_ts IS NOT NULL
	`, taskID).Scan(&sum)
	return sum, err
}

// CountEntriesForTask returns how many entries reference a task.
func (s *Store) CountEntriesForTask(taskID int64) (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM time_entries WHERE task_id = ?", taskID).Scan(&count)
	return count, err
}
