package tracing

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// Level is an event severity, or a filter threshold when LevelOff is allowed.
// Lower values are more severe: ERROR < WARN < INFO < DEBUG < TRACE.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Levels lists every event level from most to least verbose.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

var levelNames = [...]string{
	LevelOff:   "OFF",
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// ParseLevel accepts level names in any case; "none" is an alias for OFF
// and "warning" for WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OFF", "NONE":
		return LevelOff, nil
	case "ERROR":
		return LevelError, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "INFO":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	case "TRACE":
		return LevelTrace, nil
	}
	return LevelOff, fmt.Errorf("unknown level %q", s)
}

// FromSlog maps a slog level onto the five event levels. Anything below
// slog.LevelDebug is TRACE.
func FromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelDebug:
		return LevelTrace
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// LevelFilter is a shared maximum-verbosity threshold. Reads are a single
// atomic load so it can be consulted on every callback.
type LevelFilter struct {
	v atomic.Uint32
}

// NewLevelFilter returns a filter with threshold l.
func NewLevelFilter(l Level) *LevelFilter {
	f := &LevelFilter{}
	f.v.Store(uint32(clampLevel(l)))
	return f
}

// Level returns the current threshold.
func (f *LevelFilter) Level() Level {
	return Level(f.v.Load())
}

// IsEnabled reports whether events at level l pass the threshold.
// OFF disables everything, TRACE enables everything.
func (f *LevelFilter) IsEnabled(l Level) bool {
	return l != LevelOff && l <= Level(f.v.Load())
}

// Set stores a new threshold and reports whether it differs from the
// previous one.
func (f *LevelFilter) Set(l Level) bool {
	l = clampLevel(l)
	return Level(f.v.Swap(uint32(l))) != l
}

func clampLevel(l Level) Level {
	if l > LevelTrace {
		return LevelTrace
	}
	return l
}
