package tracker

import (
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// CheckInPatch holds the fields of a daily check-in. Nil fields keep
// whatever an earlier save for the same date recorded.
type CheckInPatch struct {
	Priorities *[]string
	Energy     *int
	Mood       *int
	Stress     *int
	FocusAreas *[]string
	Motivation *string
}

// UpsertCheckIn creates or overwrites the user's check-in for a calendar
// date (YYYY-MM-DD). One row exists per user per date.
func (svc *Service) UpsertCheckIn(userID, date string, patch CheckInPatch) (*models.DailyCheckIn, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	for _, level := range []*int{patch.Energy, patch.Mood, patch.Stress} {
		if level != nil && (*level < 1 || *level > 5) {
			return nil, ErrInvalidLevel
		}
	}

	var checkin *models.DailyCheckIn
	err := svc.db.InTx(func(s *db.Store) error {
		merged := models.DailyCheckIn{UserID: userID, Date: date}
		if existing, err := s.GetCheckIn(userID, date); err != nil {
			return err
		} else if existing != nil {
			merged = *existing
		}

		if patch.Priorities != nil {
			merged.Priorities = *patch.Priorities
		}
		if patch.Energy != nil {
			merged.Energy = patch.Energy
		}
		if patch.Mood != nil {
			merged.Mood = patch.Mood
		}
		if patch.Stress != nil {
			merged.Stress = patch.Stress
		}
		if patch.FocusAreas != nil {
			merged.FocusAreas = *patch.FocusAreas
		}
		if patch.Motivation != nil {
			merged.Motivation = *patch.Motivation
		}

		var err error
		checkin, err = s.UpsertCheckIn(merged)
		return err
	})
	if err != nil {
		return nil, err
	}
	return checkin, nil
}

// GetCheckIn returns the user's check-in for a date, or nil if none exists.
func (svc *Service) GetCheckIn(userID, date string) (*models.DailyCheckIn, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	var checkin *models.DailyCheckIn
	err := readWithRetry(func() error {
		var err error
		checkin, err = svc.db.Store().GetCheckIn(userID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return checkin, nil
}
