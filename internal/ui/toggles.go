package ui

import "github.com/abelbrown/tracewatch/internal/tracing"

// LevelToggles records which levels the viewer displays.
type LevelToggles struct {
	shown [tracing.LevelTrace + 1]bool
}

// NewLevelToggles shows every level the threshold lets through.
func NewLevelToggles(threshold tracing.Level) LevelToggles {
	var t LevelToggles
	for _, l := range tracing.Levels {
		t.shown[l] = l <= threshold
	}
	return t
}

// Shows reports whether events at l are displayed.
func (t LevelToggles) Shows(l tracing.Level) bool {
	return l != tracing.LevelOff && int(l) < len(t.shown) && t.shown[l]
}

// Toggle flips l and returns the new state.
func (t *LevelToggles) Toggle(l tracing.Level) bool {
	if l == tracing.LevelOff || int(l) >= len(t.shown) {
		return false
	}
	t.shown[l] = !t.shown[l]
	return t.shown[l]
}

// MaxLevel returns the most verbose displayed level, or LevelOff when
// nothing is displayed. The collector never needs to keep anything more
// verbose than this.
func (t LevelToggles) MaxLevel() tracing.Level {
	most := tracing.LevelOff
	for _, l := range tracing.Levels {
		if t.shown[l] && l > most {
			most = l
		}
	}
	return most
}

// String renders one letter per level, TRACE first, with "-" for hidden
// levels.
func (t LevelToggles) String() string {
	b := make([]byte, 0, len(tracing.Levels))
	for _, l := range tracing.Levels {
		if t.shown[l] {
			b = append(b, l.String()[0])
		} else {
			b = append(b, '-')
		}
	}
	return string(b)
}
