package db

import (
	"database/sql"
	"time"

	"github.com/jmhart/pulse/internal/models"
)

// taskColumns is the column list every task scan uses.
const taskColumns = `id, user_id, title, description, category, priority, status,
	estimated_minutes, logged_minutes, completion_pct, reported_minutes,
	deadline, created_at, updated_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	var reported sql.NullInt64
	var deadline, completedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category,
		&t.Priority, &t.Status, &t.EstimatedMinutes, &t.LoggedMinutes,
		&t.CompletionPct, &reported, &deadline, &t.CreatedAt, &t.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}
	if reported.Valid {
		v := int(reported.Int64)
		t.ReportedMinutes = &v
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	return t, nil
}

// CreateTask creates a new task with the caller-settable fields of t.
// Derived fields start at zero.
func (s *Store) CreateTask(t models.Task) (*models.Task, error) {
	result, err := s.q.Exec(`
		INSERT INTO tasks (user_id, title, description, category, priority, status, estimated_minutes, deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.UserID, t.Title, t.Description, t.Category, t.Priority, t.Status,
		t.EstimatedMinutes, nullableTime(t.Deadline))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := s.setTaskTags(id, t.Tags); err != nil {
		return nil, err
	}

	return s.GetTask(id)
}

// GetTask retrieves a task by ID with its tags and subtasks
func (s *Store) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(s.q.QueryRow(`
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	if t.Tags, err = s.taskTags(id); err != nil {
		return nil, err
	}
	if t.Subtasks, err = s.ListSubtasks(id); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns all tasks for a user, ordered by priority (desc) then
// created_at (desc)
func (s *Store) ListTasks(userID string) ([]models.Task, error) {
	return s.ListTasksFiltered(userID, "", nil, true)
}

// ListTasksFiltered returns tasks filtered by search query and/or category.
// Completed tasks are excluded unless includeCompleted is set.
func (s *Store) ListTasksFiltered(userID, search string, category *models.Category, includeCompleted bool) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	if category != nil {
		query += " AND category = ?"
		args = append(args, *category)
	}

	if !includeCompleted {
		query += " AND status != ?"
		args = append(args, models.StatusCompleted)
	}

	query += `
		ORDER BY CASE priority
			WHEN 'critical' THEN 3
			WHEN 'high' THEN 2
			WHEN 'medium' THEN 1
			ELSE 0
		END DESC, created_at DESC`

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Load tags for each task
	for i := range tasks {
		tags, err := s.taskTags(tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Tags = tags
	}

	return tasks, nil
}

// UpdateTask updates the caller-settable fields of a task. Derived fields
// and completion state are written by their own operations.
func (s *Store) UpdateTask(t *models.Task) error {
	_, err := s.q.Exec(`
		UPDATE tasks SET title = ?, description = ?, category = ?, priority = ?,
			status = ?, estimated_minutes = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Title, t.Description, t.Category, t.Priority, t.Status,
		t.EstimatedMinutes, nullableTime(t.Deadline), t.ID)
	if err != nil {
		return err
	}
	return s.setTaskTags(t.ID, t.Tags)
}

// SetTaskDerived writes the recomputed aggregate fields for a task.
func (s *Store) SetTaskDerived(id int64, loggedMinutes, completionPct int) error {
	_, err := s.q.Exec(`
		UPDATE tasks SET logged_minutes = ?, completion_pct = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, loggedMinutes, completionPct, id)
	return err
}

// SetTaskStatus updates only the task status.
func (s *Store) SetTaskStatus(id int64, status models.Status) error {
	_, err := s.q.Exec(`
		UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	return err
}

// MarkTaskCompleted records completion. reportedMinutes is stored only when
// the user-supplied total disagrees with the summed entry total.
func (s *Store) MarkTaskCompleted(id int64, completedAt time.Time, completionPct int, reportedMinutes *int) error {
	var reported sql.NullInt64
	if reportedMinutes != nil {
		reported = sql.NullInt64{Int64: int64(*reportedMinutes), Valid: true}
	}
	_, err := s.q.Exec(`
		UPDATE tasks SET status = ?, completed_at = ?, completion_pct = ?,
			reported_minutes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.StatusCompleted, completedAt.UTC(), completionPct, reported, id)
	return err
}

// DeleteTask deletes a task. Subtasks and tags cascade; time entries do not,
// the caller decides that policy first.
func (s *Store) DeleteTask(id int64) error {
	_, err := s.q.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

// taskTags returns all tags for a task
func (s *Store) taskTags(taskID int64) ([]string, error) {
	rows, err := s.q.Query(`
		SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// setTaskTags replaces the tag set for a task
func (s *Store) setTaskTags(taskID int64, tags []string) error {
	if _, err := s.q.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := s.q.Exec(`
			INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)
		`, taskID, tag); err != nil {
			return err
		}
	}
	return nil
}

// AddSubtask adds a subtask to a task
func (s *Store) AddSubtask(taskID int64, title string) (*models.Subtask, error) {
	result, err := s.q.Exec(`
		INSERT INTO subtasks (task_id, title) VALUES (?, ?)
	`, taskID, title)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	st := &models.Subtask{}
	err = s.q.QueryRow(`
		SELECT id, task_id, title, done, created_at FROM subtasks WHERE id = ?
	`, id).Scan(&st.ID, &st.TaskID, &st.Title, &st.Done, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SetSubtaskDone marks a subtask done or not done. Returns false if the
// subtask does not exist.
func (s *Store) SetSubtaskDone(id int64, done bool) (bool, error) {
	result, err := s.q.Exec("UPDATE subtasks SET done = ? WHERE id = ?", done, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// GetSubtask retrieves a subtask by ID
func (s *Store) GetSubtask(id int64) (*models.Subtask, error) {
	st := &models.Subtask{}
	err := s.q.QueryRow(`
		SELECT id, task_id, title, done, created_at FROM subtasks WHERE id = ?
	`, id).Scan(&st.ID, &st.TaskID, &st.Title, &st.Done, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListSubtasks returns all subtasks for a task in creation order
func (s *Store) ListSubtasks(taskID int64) ([]models.Subtask, error) {
	rows, err := s.q.Query(`
		SELECT id, task_id, title, done, created_at
		FROM subtasks WHERE task_id = ? ORDER BY id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var st models.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Done, &st.CreatedAt); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

// SubtaskCounts returns the done and total subtask counts for a task.
func (s *Store) SubtaskCounts(taskID int64) (done, total int, err error) {
	err = s.q.QueryRow(`
		SELECT COALESCE(SUM(done), 0), COUNT(*) FROM subtasks WHERE task_id = ?
	`, taskID).Scan(&done, &total)
	return done, total, err
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
