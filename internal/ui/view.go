package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

// Column widths, in grapheme clusters.
const (
	timeWidth   = 12 // 15:04:05.000
	levelWidth  = 5
	targetWidth = 24
	minBody     = 10
)

const timeLayout = "15:04:05.000"

// RenderEvents renders events as one line each, padded with blank lines
// to height. Lines never exceed width.
func RenderEvents(events []tracing.Event, width, height int) string {
	lines := make([]string, 0, height)
	for _, e := range events {
		if len(lines) == height {
			break
		}
		lines = append(lines, renderEventLine(e, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderEventLine lays out time, level, target, then the message followed
// by " key=value" for every other field.
func renderEventLine(e tracing.Event, width int) string {
	body := width - timeWidth - levelWidth - targetWidth - 3
	if body < minBody {
		body = minBody
	}

	return TimeStyle.Render(e.Time.Format(timeLayout)) + " " +
		LevelStyle(e.Level).Render(padGraphemes(e.Level.String(), levelWidth)) + " " +
		TargetStyle.Render(padGraphemes(e.Target, targetWidth)) + " " +
		MessageStyle.Render(truncateGraphemes(eventBody(e), body))
}

func eventBody(e tracing.Event) string {
	var b strings.Builder
	b.WriteString(e.Message())
	for _, f := range e.Fields {
		if f.Key == tracing.MessageKey {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	// Multi-line values would break the one-row-per-event layout.
	return strings.ReplaceAll(b.String(), "\n", " ")
}

// RenderStatusBar renders the bottom status bar with counts and key hints.
func RenderStatusBar(shown, total int, evicted uint64, toggles LevelToggles, follow bool, width int) string {
	// Left side: counts and active filters
	position := fmt.Sprintf(" %d/%d ", shown, total)
	if evicted > 0 {
		position += fmt.Sprintf("evicted:%d ", evicted)
	}
	position += "levels:" + toggles.String() + " "
	if !follow {
		position += "[paused] "
	}

	// Right side: key hints
	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":scroll"),
		StatusBarKey.Render("G") + StatusBarText.Render(":tail"),
		StatusBarKey.Render("1-5") + StatusBarText.Render(":levels"),
		StatusBarKey.Render("t") + StatusBarText.Render(":targets"),
		StatusBarKey.Render("c") + StatusBarText.Render(":clear"),
		StatusBarKey.Render("?") + StatusBarText.Render(":stats"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	// Calculate padding to fill width
	leftWidth := lipgloss.Width(position)
	rightWidth := lipgloss.Width(keyHints)
	padding := width - StatusBar.GetHorizontalPadding() - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := position + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}

// renderTargetPanel renders the pattern list and input line of the target
// editor.
func renderTargetPanel(patterns []string, selected int, input string) string {
	lines := []string{PanelHeader.Render("Excluded targets") +
		StatusBarText.Render("  enter:add  up/down:select  ctrl+d:delete  esc:done")}
	if len(patterns) == 0 {
		lines = append(lines, StatusBarText.Render("  (none)"))
	}
	for i, p := range patterns {
		if i == selected {
			lines = append(lines, SelectedPattern.Render("> "+p))
		} else {
			lines = append(lines, "  "+p)
		}
	}
	lines = append(lines, input)
	return TargetPanel.Render(strings.Join(lines, "\n"))
}
