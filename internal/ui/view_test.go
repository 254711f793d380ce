package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

func TestTruncateGraphemes(t *testing.T) {
	family := "👨‍👩‍👧"
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 2, "ab"},
		{"abc", 0, ""},
		{"héllo wörld", 7, "héll..."},
		{strings.Repeat(family, 5), 4, family + "..."},
	}
	for _, tt := range tests {
		if got := truncateGraphemes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateGraphemes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestPadGraphemes(t *testing.T) {
	if got := padGraphemes("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
	if got := padGraphemes("abcdefgh", 6); got != "abc..." {
		t.Errorf("pad truncate = %q", got)
	}
	if got := uniseg.GraphemeClusterCount(padGraphemes("👍🏽", 3)); got != 3 {
		t.Errorf("padded cluster count = %d", got)
	}
}

func TestRenderEventLine(t *testing.T) {
	e := tracing.Event{
		Time:   time.Date(2024, 1, 1, 13, 4, 5, 6_000_000, time.Local),
		Level:  tracing.LevelWarn,
		Target: "db::pool",
		Fields: tracing.Fields{
			{Key: "conn", Value: "7"},
			{Key: tracing.MessageKey, Value: "slow query"},
			{Key: "sql", Value: "SELECT 1\nFROM t"},
		},
	}

	line := renderEventLine(e, 120)

	for _, want := range []string{"13:04:05.006", "WARN", "db::pool", "slow query conn=7 sql=SELECT 1 FROM t"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %q", want, line)
		}
	}
	if strings.Contains(line, "\n") {
		t.Error("line must not contain newlines")
	}
	if w := lipgloss.Width(line); w > 120 {
		t.Errorf("line width %d exceeds 120", w)
	}
}

func TestRenderEventLineWithoutMessage(t *testing.T) {
	e := tracing.Event{Level: tracing.LevelInfo, Fields: tracing.Fields{{Key: "k", Value: "v"}}}
	if line := renderEventLine(e, 100); !strings.HasSuffix(line, "k=v") {
		t.Errorf("line = %q", line)
	}
}

func TestRenderEventsPadsToHeight(t *testing.T) {
	out := RenderEvents([]tracing.Event{{Level: tracing.LevelInfo}}, 80, 5)
	if got := strings.Count(out, "\n") + 1; got != 5 {
		t.Errorf("rendered %d lines, want 5", got)
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(3, 10, 4, NewLevelToggles(tracing.LevelInfo), false, 160)

	for _, want := range []string{"3/10", "evicted:4", "levels:--IWE", "[paused]", ":quit"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %q", want, bar)
		}
	}
}

func TestLevelToggles(t *testing.T) {
	toggles := NewLevelToggles(tracing.LevelInfo)

	if !toggles.Shows(tracing.LevelError) || !toggles.Shows(tracing.LevelInfo) || toggles.Shows(tracing.LevelDebug) {
		t.Errorf("unexpected initial toggles %s", toggles)
	}
	if toggles.Shows(tracing.LevelOff) {
		t.Error("OFF is never a displayed level")
	}
	if got := toggles.MaxLevel(); got != tracing.LevelInfo {
		t.Errorf("MaxLevel = %v", got)
	}

	if !toggles.Toggle(tracing.LevelTrace) {
		t.Error("Toggle should report the new state")
	}
	if got := toggles.MaxLevel(); got != tracing.LevelTrace {
		t.Errorf("MaxLevel = %v after showing TRACE", got)
	}

	if toggles.Toggle(tracing.LevelOff) {
		t.Error("OFF cannot be toggled")
	}

	for _, l := range []tracing.Level{tracing.LevelTrace, tracing.LevelInfo, tracing.LevelWarn, tracing.LevelError} {
		toggles.Toggle(l)
	}
	if got := toggles.MaxLevel(); got != tracing.LevelOff {
		t.Errorf("MaxLevel = %v with everything hidden", got)
	}
	if got := toggles.String(); got != "-----" {
		t.Errorf("String = %q", got)
	}
}
