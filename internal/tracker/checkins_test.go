package tracker

import (
	"errors"
	"reflect"
	"testing"
)

func TestUpsertCheckIn(t *testing.T) {
	svc, _ := newTestService(t)

	priorities := []string{"ship report", "gym"}
	checkin, err := svc.UpsertCheckIn(testUser, "2025-03-10", CheckInPatch{
		Priorities: &priorities,
		Energy:     intPtr(4),
	})
	if err != nil {
		t.Fatalf("failed to save check-in: %v", err)
	}
	if !reflect.DeepEqual(checkin.Priorities, priorities) {
		t.Errorf("expected priorities %v, got %v", priorities, checkin.Priorities)
	}
	if checkin.Energy == nil || *checkin.Energy != 4 {
		t.Errorf("expected energy 4, got %v", checkin.Energy)
	}
	if checkin.Mood != nil {
		t.Errorf("mood should be unset until first save, got %v", *checkin.Mood)
	}
}

// Saving again for the same date updates the existing row and keeps fields
// the second save did not mention.
func TestUpsertCheckInMergesSameDate(t *testing.T) {
	svc, _ := newTestService(t)

	priorities := []string{"ship report"}
	if _, err := svc.UpsertCheckIn(testUser, "2025-03-10", CheckInPatch{
		Priorities: &priorities,
		Energy:     intPtr(4),
	}); err != nil {
		t.Fatalf("failed to save check-in: %v", err)
	}

	motivation := "deadline tomorrow"
	checkin, err := svc.UpsertCheckIn(testUser, "2025-03-10", CheckInPatch{
		Mood:       intPtr(3),
		Motivation: &motivation,
	})
	if err != nil {
		t.Fatalf("failed to update check-in: %v", err)
	}

	if checkin.Energy == nil || *checkin.Energy != 4 {
		t.Errorf("energy from the first save was lost: %v", checkin.Energy)
	}
	if checkin.Mood == nil || *checkin.Mood != 3 {
		t.Errorf("expected mood 3, got %v", checkin.Mood)
	}
	if !reflect.DeepEqual(checkin.Priorities, priorities) {
		t.Errorf("priorities from the first save were lost: %v", checkin.Priorities)
	}

	// Still exactly one row for the date.
	got, err := svc.GetCheckIn(testUser, "2025-03-10")
	if err != nil {
		t.Fatalf("failed to get check-in: %v", err)
	}
	if got.ID != checkin.ID {
		t.Errorf("expected the same row, got ids %d and %d", got.ID, checkin.ID)
	}
}

func TestUpsertCheckInValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.UpsertCheckIn(testUser, "03/10/2025", CheckInPatch{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.UpsertCheckIn(testUser, "2025-03-10", CheckInPatch{Stress: intPtr(6)}); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
	if _, err := svc.UpsertCheckIn(testUser, "2025-03-10", CheckInPatch{Energy: intPtr(0)}); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestGetCheckInMissing(t *testing.T) {
	svc, _ := newTestService(t)

	checkin, err := svc.GetCheckIn(testUser, "2025-03-10")
	if err != nil {
		t.Fatalf("failed to get check-in: %v", err)
	}
	if checkin != nil {
		t.Fatalf("expected nil for a date with no check-in, got %+v", checkin)
	}
}
