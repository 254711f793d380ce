package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestHelpersNilSafe(t *testing.T) {
	Logger = nil
	Info("dropped")
	Debug("dropped")
	Warn("dropped")
	Error("dropped")
	if WithPrefix("ui") == nil {
		t.Fatal("WithPrefix returned nil before Init")
	}
	WithPrefix("ui").Info("dropped")
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Logger = nil })

	Info("level changed", "from", "INFO", "to", "TRACE")
	WithPrefix("targets").Warn("bad pattern", "pattern", "[x")

	out := buf.String()
	for _, want := range []string{"level changed", "from=INFO", "to=TRACE", "targets", "pattern=[x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC))
	if got != "tracewatch-2025-01-02.log" {
		t.Errorf("FileName = %q", got)
	}
}
