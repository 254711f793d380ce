package bridge

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

// UnknownTarget is used when a record carries neither a fixed target nor a
// caller PC.
const UnknownTarget = "unknown"

// LevelTrace is the slog level for TRACE events. Any level below
// slog.LevelDebug maps to TRACE.
const LevelTrace = slog.LevelDebug - 4

// Handler is a slog.Handler that feeds a collector. Enabled consults the
// collector's level filter, so disabled records are never formatted.
//
// Field order inside one record: message, attrs from WithAttrs, then the
// record's own attrs. When a key repeats, the first occurrence wins.
type Handler struct {
	c      *tracing.Collector
	target string
	attrs  []tracing.Field
	prefix string // open groups joined with "."
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler returns a handler whose target is derived from each record's
// caller package.
func NewHandler(c *tracing.Collector) *Handler {
	return &Handler{c: c}
}

// WithTarget returns a handler that stamps every event with target.
func (h *Handler) WithTarget(target string) *Handler {
	h2 := h.clone()
	h2.target = target
	return h2
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return h.c.Enabled(tracing.FromSlog(l))
}

// Handle implements slog.Handler. It never returns an error.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := tracing.FromSlog(r.Level)
	if !h.c.Enabled(level) {
		return nil
	}

	fields := make([]tracing.Field, 0, 1+len(h.attrs)+r.NumAttrs())
	if r.Message != "" {
		fields = append(fields, tracing.Field{Key: tracing.MessageKey, Value: r.Message})
	}
	fields = append(fields, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)
		return true
	})

	h.c.OnEvent(level, h.targetOf(r), Scope(ctx), fields)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	h2.attrs = appendAttrs(slices.Clip(h.attrs), h.prefix, attrs)
	return h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	return &h2
}

func (h *Handler) targetOf(r slog.Record) string {
	if h.target != "" {
		return h.target
	}
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if pkg := packagePath(frame.Function); pkg != "" {
			return pkg
		}
	}
	return UnknownTarget
}

// packagePath strips the symbol from a fully qualified function name:
// "github.com/a/b/pkg.(*T).Method" becomes "github.com/a/b/pkg".
func packagePath(function string) string {
	if function == "" {
		return ""
	}
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}

func appendAttrs(dst []tracing.Field, prefix string, attrs []slog.Attr) []tracing.Field {
	for _, a := range attrs {
		dst = appendAttr(dst, prefix, a)
	}
	return dst
}

// appendAttr renders a into dst following the slog handler rules: empty
// attrs are dropped, empty groups are dropped, and groups with an empty key
// are inlined.
func appendAttr(dst []tracing.Field, prefix string, a slog.Attr) []tracing.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return dst
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		return appendAttrs(dst, prefix, group)
	}

	return append(dst, tracing.Field{Key: prefix + a.Key, Value: formatValue(a.Value)})
}

func formatValue(v slog.Value) string {
	if v.Kind() == slog.KindTime {
		return v.Time().Format(time.RFC3339Nano)
	}
	return v.String()
}
