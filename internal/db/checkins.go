package db

import (
	"database/sql"
	"encoding/json"

	"github.com/jmhart/pulse/internal/models"
)

const checkinColumns = `id, user_id, date, priorities, energy, mood, stress,
	focus_areas, motivation, created_at, updated_at`

func scanCheckIn(row interface{ Scan(...any) error }) (*models.DailyCheckIn, error) {
	c := &models.DailyCheckIn{}
	var priorities, focusAreas string
	var energy, mood, stress sql.NullInt64
	err := row.Scan(&c.ID, &c.UserID, &c.Date, &priorities, &energy, &mood,
		&stress, &focusAreas, &c.Motivation, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(priorities), &c.Priorities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(focusAreas), &c.FocusAreas); err != nil {
		return nil, err
	}
	c.Energy = nullableInt(energy)
	c.Mood = nullableInt(mood)
	c.Stress = nullableInt(stress)
	return c, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// UpsertCheckIn writes a full check-in row, replacing any existing row for
// the same user and date.
func (s *Store) UpsertCheckIn(c models.DailyCheckIn) (*models.DailyCheckIn, error) {
	priorities, err := json.Marshal(emptyIfNil(c.Priorities))
	if err != nil {
		return nil, err
	}
	focusAreas, err := json.Marshal(emptyIfNil(c.FocusAreas))
	if err != nil {
		return nil, err
	}

	_, err = s.q.Exec(`
		INSERT INTO checkins (user_id, date, priorities, energy, mood, stress, focus_areas, motivation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			priorities = excluded.priorities,
			energy = excluded.energy,
			mood = excluded.mood,
			stress = excluded.stress,
			focus_areas = excluded.focus_areas,
			motivation = excluded.motivation,
			updated_at = CURRENT_TIMESTAMP
	`, c.UserID, c.Date, string(priorities), nullableIntArg(c.Energy),
		nullableIntArg(c.Mood), nullableIntArg(c.Stress), string(focusAreas),
		c.Motivation)
	if err != nil {
		return nil, err
	}

	return s.GetCheckIn(c.UserID, c.Date)
}

// GetCheckIn returns the check-in for a user and date, or nil if none exists.
func (s *Store) GetCheckIn(userID, date string) (*models.DailyCheckIn, error) {
	c, err := scanCheckIn(s.q.QueryRow(`
		SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? AND date = ?
	`, userID, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCheckInsInRange returns check-ins with from <= date < to, oldest first.
// Dates are YYYY-MM-DD strings, which order lexicographically.
func (s *Store) ListCheckInsInRange(userID, from, to string) ([]models.DailyCheckIn, error) {
	rows, err := s.q.Query(`
		SELECT `+checkinColumns+` FROM checkins
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []models.DailyCheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, *c)
	}
	return checkins, rows.Err()
}

func nullableIntArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
