package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border: lipgloss.Color("#3b4261"),
}

// Current holds the active theme
var Current = TokyoNight

// Styles bundles the prebuilt lipgloss styles the views use
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Running lipgloss.Style
	Idle    lipgloss.Style
	Warn    lipgloss.Style
	Box     lipgloss.Style
	Bar     lipgloss.Style
	BarFill lipgloss.Style
}

// NewStyles builds the style set from the current theme
func NewStyles() *Styles {
	t := Current
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Value:   lipgloss.NewStyle().Foreground(t.Foreground).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Idle:    lipgloss.NewStyle().Foreground(t.Error),
		Warn:    lipgloss.NewStyle().Foreground(t.Warning),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2).
			MarginBottom(1),
		Bar:     lipgloss.NewStyle().Foreground(t.ForegroundDim),
		BarFill: lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}
