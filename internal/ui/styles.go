package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// levelColors follow the usual terminal logger palette.
var levelColors = map[tracing.Level]lipgloss.Color{
	tracing.LevelTrace: lipgloss.Color("99"),  // Violet
	tracing.LevelDebug: lipgloss.Color("39"),  // Blue
	tracing.LevelInfo:  lipgloss.Color("78"),  // Green
	tracing.LevelWarn:  lipgloss.Color("214"), // Orange
	tracing.LevelError: lipgloss.Color("196"), // Red
}

// LevelStyle returns the badge style for l.
func LevelStyle(l tracing.Level) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(levelColors[l])
}

// TimeStyle for the timestamp column.
var TimeStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// TargetStyle for the target column.
var TargetStyle = lipgloss.NewStyle().
	Foreground(colorPrimary)

// MessageStyle for the message and its fields.
var MessageStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// NoticeStyle for non-error status messages.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// PanelHeader style for panel titles.
var PanelHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// SelectedPattern style for the highlighted target pattern.
var SelectedPattern = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// TargetPanel style for the target pattern editor.
var TargetPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), true, false, false, false).
	BorderForeground(colorMuted)

// DebugPanel style for the buffer stats overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the stats overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
