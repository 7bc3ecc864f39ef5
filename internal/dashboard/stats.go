// Package dashboard builds read-only productivity reports over tasks, time
// entries and daily check-ins. Every output is recomputable from the stored
// rows; no new source-of-truth state lives here.
package dashboard

import (
	"sort"
	"time"

	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/models"
)

// Stats summarizes a window.
type Stats struct {
	TotalMinutes   int
	EntryCount     int
	TasksCompleted int
	ActiveDays     int
	AvgFocus       float64
	CheckInCount   int
}

// CategorySlice is one category's share of tracked time.
type CategorySlice struct {
	Category models.Category
	Minutes  int
	Percent  float64
}

// DayPoint is one day of the productivity trend.
type DayPoint struct {
	Date           string
	Minutes        int
	Entries        int
	TasksCompleted int
}

// CategoryDelta compares a category across the current and previous window.
type CategoryDelta struct {
	Category        models.Category
	CurrentMinutes  int
	PreviousMinutes int
	DeltaMinutes    int
}

// CategoryDetail is one row of the sorted detailed breakdown.
type CategoryDetail struct {
	Category models.Category
	Minutes  int
	Percent  float64
	Entries  int
	Tasks    int
	AvgFocus float64
}

// FocusPoint is one day of the focus trend, pairing entry focus scores with
// the day's check-in levels when one exists.
type FocusPoint struct {
	Date     string
	AvgFocus float64
	Energy   *int
	Mood     *int
	Stress   *int
}

// Report is the full dashboard projection for one window.
type Report struct {
	Window             Window
	Previous           Window
	Stats              Stats
	TimeAllocation     []CategorySlice
	ProductivityTrend  []DayPoint
	CategoryComparison []CategoryDelta
	DetailedBreakdown  []CategoryDetail
	FocusTrends        []FocusPoint
}

// Build assembles the report for a named range. The reads are idempotent
// and retried once on a transient busy error.
func Build(database *db.DB, userID string, rng Range, now time.Time) (*Report, error) {
	current, previous, err := Windows(rng, now)
	if err != nil {
		return nil, err
	}
	return BuildWindow(database, userID, current, previous, now.Location())
}

// BuildWindow assembles the report for an explicit window pair.
func BuildWindow(database *db.DB, userID string, current, previous Window, loc *time.Location) (*Report, error) {
	report, err := buildWindow(database, userID, current, previous, loc)
	if err != nil && db.IsBusy(err) {
		time.Sleep(50 * time.Millisecond)
		report, err = buildWindow(database, userID, current, previous, loc)
	}
	return report, err
}

func buildWindow(database *db.DB, userID string, current, previous Window, loc *time.Location) (*Report, error) {
	s := database.Store()

	entries, err := s.ListEntriesInRange(userID, current.Start, current.End)
	if err != nil {
		return nil, err
	}
	prevEntries, err := s.ListEntriesInRange(userID, previous.Start, previous.End)
	if err != nil {
		return nil, err
	}
	tasks, err := s.ListTasks(userID)
	if err != nil {
		return nil, err
	}
	checkins, err := s.ListCheckInsInRange(userID,
		dateKey(current.Start, loc), dateKey(current.End, loc))
	if err != nil {
		return nil, err
	}

	taskByID := make(map[int64]models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	report := &Report{Window: current, Previous: previous}
	report.Stats = buildStats(entries, tasks, checkins, current, loc)
	report.TimeAllocation = allocation(entries, taskByID)
	report.ProductivityTrend = trend(entries, tasks, current, loc)
	report.CategoryComparison = comparison(
		allocation(entries, taskByID), allocation(prevEntries, taskByID))
	report.DetailedBreakdown = breakdown(entries, taskByID)
	report.FocusTrends = focusTrends(entries, checkins, loc)
	return report, nil
}

// closed filters out the running entry; "logged" time is never an estimate.
func closed(entries []models.TimeEntry) []models.TimeEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if !e.Running() {
			out = append(out, e)
		}
	}
	return out
}

func buildStats(entries []models.TimeEntry, tasks []models.Task, checkins []models.DailyCheckIn, w Window, loc *time.Location) Stats {
	st := Stats{CheckInCount: len(checkins)}

	days := map[string]bool{}
	focusSum, focusN := 0, 0
	for _, e := range closed(entries) {
		st.TotalMinutes += e.DurationMinutes
		st.EntryCount++
		days[dateKey(e.Start, loc)] = true
		if e.FocusScore != nil {
			focusSum += *e.FocusScore
			focusN++
		}
	}
	st.ActiveDays = len(days)
	if focusN > 0 {
		st.AvgFocus = float64(focusSum) / float64(focusN)
	}

	for _, t := range tasks {
		if t.CompletedAt != nil && w.Contains(*t.CompletedAt) {
			st.TasksCompleted++
		}
	}
	return st
}

func minutesByCategory(entries []models.TimeEntry, taskByID map[int64]models.Task) map[models.Category]int {
	minutes := map[models.Category]int{}
	for _, e := range closed(entries) {
		cat := models.CategoryOther
		if t, ok := taskByID[e.TaskID]; ok {
			cat = t.Category
		}
		minutes[cat] += e.DurationMinutes
	}
	return minutes
}

func allocation(entries []models.TimeEntry, taskByID map[int64]models.Task) []CategorySlice {
	minutes := minutesByCategory(entries, taskByID)
	total := 0
	for _, m := range minutes {
		total += m
	}

	var slices []CategorySlice
	for cat, m := range minutes {
		slice := CategorySlice{Category: cat, Minutes: m}
		if total > 0 {
			slice.Percent = float64(m) / float64(total) * 100
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Minutes != slices[j].Minutes {
			return slices[i].Minutes > slices[j].Minutes
		}
		return slices[i].Category < slices[j].Category
	})
	return slices
}

func trend(entries []models.TimeEntry, tasks []models.Task, w Window, loc *time.Location) []DayPoint {
	byDay := map[string]*DayPoint{}
	var points []DayPoint
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		points = append(points, DayPoint{Date: dateKey(d, loc)})
	}
	for i := range points {
		byDay[points[i].Date] = &points[i]
	}

	for _, e := range closed(entries) {
		if p, ok := byDay[dateKey(e.Start, loc)]; ok {
			p.Minutes += e.DurationMinutes
			p.Entries++
		}
	}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if p, ok := byDay[dateKey(*t.CompletedAt, loc)]; ok && w.Contains(*t.CompletedAt) {
			p.TasksCompleted++
		}
	}
	return points
}

func comparison(current, previous []CategorySlice) []CategoryDelta {
	prevMinutes := map[models.Category]int{}
	for _, s := range previous {
		prevMinutes[s.Category] = s.Minutes
	}

	seen := map[models.Category]bool{}
	var deltas []CategoryDelta
	for _, s := range current {
		seen[s.Category] = true
		deltas = append(deltas, CategoryDelta{
			Category:        s.Category,
			CurrentMinutes:  s.Minutes,
			PreviousMinutes: prevMinutes[s.Category],
			DeltaMinutes:    s.Minutes - prevMinutes[s.Category],
		})
	}
	for _, s := range previous {
		if !seen[s.Category] {
			deltas = append(deltas, CategoryDelta{
				Category:        s.Category,
				PreviousMinutes: s.Minutes,
				DeltaMinutes:    -s.Minutes,
			})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].CurrentMinutes != deltas[j].CurrentMinutes {
			return deltas[i].CurrentMinutes > deltas[j].CurrentMinutes
		}
		return deltas[i].Category < deltas[j].Category
	})
	return deltas
}

func breakdown(entries []models.TimeEntry, taskByID map[int64]models.Task) []CategoryDetail {
	type agg struct {
		minutes, entries int
		focusSum, focusN int
		tasks            map[int64]bool
	}
	byCat := map[models.Category]*agg{}
	total := 0
	for _, e := range closed(entries) {
		cat := models.CategoryOther
		if t, ok := taskByID[e.TaskID]; ok {
			cat = t.Category
		}
		a := byCat[cat]
		if a == nil {
			a = &agg{tasks: map[int64]bool{}}
			byCat[cat] = a
		}
		a.minutes += e.DurationMinutes
		a.entries++
		a.tasks[e.TaskID] = true
		if e.FocusScore != nil {
			a.focusSum += *e.FocusScore
			a.focusN++
		}
		total += e.DurationMinutes
	}

	var details []CategoryDetail
	for cat, a := range byCat {
		d := CategoryDetail{
			Category: cat,
			Minutes:  a.minutes,
			Entries:  a.entries,
			Tasks:    len(a.tasks),
		}
		if total > 0 {
			d.Percent = float64(a.minutes) / float64(total) * 100
		}
		if a.focusN > 0 {
			d.AvgFocus = float64(a.focusSum) / float64(a.focusN)
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Minutes != details[j].Minutes {
			return details[i].Minutes > details[j].Minutes
		}
		return details[i].Category < details[j].Category
	})
	return details
}

func focusTrends(entries []models.TimeEntry, checkins []models.DailyCheckIn, loc *time.Location) []FocusPoint {
	type focusAgg struct{ sum, n int }
	byDay := map[string]*focusAgg{}
	for _, e := range closed(entries) {
		if e.FocusScore == nil {
			continue
		}
		key := dateKey(e.Start, loc)
		a := byDay[key]
		if a == nil {
			a = &focusAgg{}
			byDay[key] = a
		}
		a.sum += *e.FocusScore
		a.n++
	}

	checkinByDate := map[string]models.DailyCheckIn{}
	for _, c := range checkins {
		checkinByDate[c.Date] = c
	}

	dates := map[string]bool{}
	for d := range byDay {
		dates[d] = true
	}
	for d := range checkinByDate {
		dates[d] = true
	}

	var points []FocusPoint
	for date := range dates {
		p := FocusPoint{Date: date}
		if a, ok := byDay[date]; ok {
			p.AvgFocus = float64(a.sum) / float64(a.n)
		}
		if c, ok := checkinByDate[date]; ok {
			p.Energy = c.Energy
			p.Mood = c.Mood
			p.Stress = c.Stress
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}
