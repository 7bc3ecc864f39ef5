package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmhart/pulse/internal/config"
	"github.com/jmhart/pulse/internal/dashboard"
	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/tracker"
	"github.com/jmhart/pulse/internal/ui/styles"
)

// refreshInterval is how often the dashboard reloads its projection.
const refreshInterval = 30 * time.Second

type keyMap struct {
	Range   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Range: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Dashboard is the live terminal dashboard: the active timer plus the
// aggregated report for the selected range, refreshed on a timer.
type Dashboard struct {
	db     *db.DB
	svc    *tracker.Service
	cfg    *config.Config
	styles *styles.Styles
	keys   keyMap

	rng    dashboard.Range
	report *dashboard.Report
	active *sessionView
	err    error

	width  int
	height int
}

type sessionView struct {
	taskTitle string
	start     time.Time
}

// NewDashboard creates the dashboard view.
func NewDashboard(database *db.DB, svc *tracker.Service, cfg *config.Config) *Dashboard {
	return &Dashboard{
		db:     database,
		svc:    svc,
		cfg:    cfg,
		styles: styles.NewStyles(),
		keys:   defaultKeyMap(),
		rng:    dashboard.RangeToday,
	}
}

type tickMsg time.Time

type reportMsg struct {
	report *dashboard.Report
	active *sessionView
	err    error
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.load, tickCmd())
}

func (d *Dashboard) load() tea.Msg {
	report, err := dashboard.Build(d.db, d.cfg.User, d.rng, time.Now())
	if err != nil {
		return reportMsg{err: err}
	}

	var active *sessionView
	entry, err := d.svc.ActiveEntry(d.cfg.User)
	if err != nil {
		return reportMsg{err: err}
	}
	if entry != nil {
		view := &sessionView{start: entry.Start}
		if task, err := d.svc.GetTask(d.cfg.User, entry.TaskID); err == nil {
			view.taskTitle = task.Title
		}
		active = view
	}

	return reportMsg{report: report, active: active}
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Quit):
			return d, tea.Quit
		case key.Matches(msg, d.keys.Refresh):
			return d, d.load
		case key.Matches(msg, d.keys.Range):
			d.rng = nextRange(d.rng)
			return d, d.load
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
	case tickMsg:
		return d, tea.Batch(d.load, tickCmd())
	case reportMsg:
		d.report = msg.report
		d.active = msg.active
		d.err = msg.err
	}
	return d, nil
}

func nextRange(rng dashboard.Range) dashboard.Range {
	switch rng {
	case dashboard.RangeToday:
		return dashboard.RangeThisWeek
	case dashboard.RangeThisWeek:
		return dashboard.RangeThisMonth
	default:
		return dashboard.RangeToday
	}
}

func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Loading..."
	}
	if d.err != nil {
		return d.styles.Idle.Render(fmt.Sprintf("error: %v", d.err))
	}
	if d.report == nil {
		return d.styles.Dim.Render("Loading...")
	}

	s := d.styles
	width := styles.ContentWidth(d.width)
	var b strings.Builder

	b.WriteString(s.Title.Render(fmt.Sprintf("pulse — %s", rangeLabel(d.rng))))
	b.WriteString("\n\n")

	// Timer box
	if d.active != nil {
		elapsed := time.Since(d.active.start).Round(time.Minute)
		b.WriteString(s.Box.Width(width - 2).Render(
			s.Running.Render("● tracking ") +
				s.Value.Render(d.active.taskTitle) +
				s.Dim.Render(fmt.Sprintf("  %s", formatMinutes(int(elapsed/time.Minute)))),
		))
	} else {
		b.WriteString(s.Box.Width(width - 2).Render(s.Idle.Render("○ no timer running")))
	}
	b.WriteString("\n")

	// Stats line
	st := d.report.Stats
	goal := ""
	if d.rng == dashboard.RangeToday && d.cfg.DailyGoalMinutes > 0 {
		goal = fmt.Sprintf(" / %s goal", formatMinutes(d.cfg.DailyGoalMinutes))
	}
	b.WriteString(s.Header.Render("Totals"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s%s   %s %d   %s %d   %s %.1f\n\n",
		s.Label.Render("tracked"), s.Value.Render(formatMinutes(st.TotalMinutes)), s.Dim.Render(goal),
		s.Label.Render("entries"), st.EntryCount,
		s.Label.Render("completed"), st.TasksCompleted,
		s.Label.Render("avg focus"), st.AvgFocus,
	))

	// Allocation bars
	if len(d.report.TimeAllocation) > 0 {
		b.WriteString(s.Header.Render("Time allocation"))
		b.WriteString("\n")
		for _, slice := range d.report.TimeAllocation {
			b.WriteString(allocationBar(s, string(slice.Category), slice.Minutes, slice.Percent, width))
		}
		b.WriteString("\n")
	}

	// Trend sparkline-ish rows
	b.WriteString(s.Header.Render("Trend"))
	b.WriteString("\n")
	for _, p := range d.report.ProductivityTrend {
		b.WriteString(fmt.Sprintf("%s %s\n",
			s.Dim.Render(p.Date),
			s.BarFill.Render(strings.Repeat("▇", barCells(p.Minutes, 40)))))
	}

	b.WriteString("\n")
	b.WriteString(s.Dim.Render("tab: switch range • r: refresh • q: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func rangeLabel(rng dashboard.Range) string {
	switch rng {
	case dashboard.RangeThisWeek:
		return "This Week"
	case dashboard.RangeThisMonth:
		return "This Month"
	default:
		return "Today"
	}
}

func allocationBar(s *styles.Styles, label string, minutes int, percent float64, width int) string {
	cells := barCells(int(percent), 4)
	return fmt.Sprintf("%-10s %s %s\n",
		s.Label.Render(label),
		s.BarFill.Render(strings.Repeat("█", cells))+s.Bar.Render(strings.Repeat("░", 25-cells)),
		s.Value.Render(formatMinutes(minutes)))
}

// barCells scales a value into bar cells, at most 25.
func barCells(value, perCell int) int {
	cells := value / perCell
	if cells > 25 {
		cells = 25
	}
	if value > 0 && cells == 0 {
		cells = 1
	}
	return cells
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
