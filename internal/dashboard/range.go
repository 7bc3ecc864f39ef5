package dashboard

import (
	"errors"
	"time"
)

// Range names a reporting window.
type Range string

const (
	// RangeToday covers the current calendar day.
	RangeToday Range = "today"
	// RangeThisWeek covers the trailing 7 calendar days including today.
	RangeThisWeek Range = "week"
	// RangeThisMonth covers the current calendar month.
	RangeThisMonth Range = "month"
)

// ErrUnknownRange indicates an unrecognized range name.
var ErrUnknownRange = errors.New("unknown range")

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	days := 0
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Windows resolves a named range against now into the current window and
// its comparison window. Comparison windows never overlap the current one:
// today compares to the prior calendar day, the week to the preceding 7
// days, the month to the preceding calendar month.
func Windows(rng Range, now time.Time) (current, previous Window, err error) {
	day := startOfDay(now)
	switch rng {
	case RangeToday:
		current = Window{Start: day, End: day.AddDate(0, 0, 1)}
		previous = Window{Start: day.AddDate(0, 0, -1), End: day}
	case RangeThisWeek:
		start := day.AddDate(0, 0, -6)
		current = Window{Start: start, End: day.AddDate(0, 0, 1)}
		previous = Window{Start: start.AddDate(0, 0, -7), End: start}
	case RangeThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		current = Window{Start: first, End: first.AddDate(0, 1, 0)}
		previous = Window{Start: first.AddDate(0, -1, 0), End: first}
	default:
		return Window{}, Window{}, ErrUnknownRange
	}
	return current, previous, nil
}

// CustomWindows builds an explicit [start, end) window and a comparison
// window of the same length immediately before it.
func CustomWindows(start, end time.Time) (current, previous Window) {
	current = Window{Start: start, End: end}
	previous = Window{Start: start.Add(-end.Sub(start)), End: start}
	return current, previous
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
