// Package bridge connects log/slog and context-scoped spans to a
// tracing.Collector.
//
// Spans live in context.Context: Tracer.Start returns a child context whose
// scope chain includes the new span, and a Handler reads that chain when a
// record is logged with the context (logger.InfoContext and friends).
package bridge

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/abelbrown/tracewatch/internal/tracing"
)

// scopeKeyType is a private type for context keys to avoid collisions.
type scopeKeyType struct{}

var scopeKey scopeKeyType

// Span ids are unique per process so several tracers can share a collector.
var lastSpanID atomic.Uint64

// Scope returns the span chain carried by ctx, outermost first.
// Returns nil if ctx carries no span.
func Scope(ctx context.Context) []tracing.SpanID {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(scopeKey).([]tracing.SpanID)
	return scope
}

// Tracer opens spans whose fields are tracked by a collector.
type Tracer struct {
	c *tracing.Collector
}

// NewTracer returns a tracer reporting to c.
func NewTracer(c *tracing.Collector) *Tracer {
	return &Tracer{c: c}
}

// Start opens a span nested inside any span already carried by ctx.
// attrs become the span's initial fields; groups flatten to dotted keys.
//
// Spans are tracked regardless of the level threshold, so events logged
// after the threshold is relaxed still see their whole scope.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...slog.Attr) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	id := tracing.SpanID(lastSpanID.Add(1))
	t.c.OnSpanCreated(id, appendAttrs(nil, "", attrs))

	parent := Scope(ctx)
	scope := make([]tracing.SpanID, len(parent)+1)
	copy(scope, parent)
	scope[len(parent)] = id

	span := &Span{id: id, name: name, c: t.c}
	return context.WithValue(ctx, scopeKey, scope), span
}

// Span is an open span. Safe for concurrent use by multiple goroutines.
type Span struct {
	id    tracing.SpanID
	name  string
	c     *tracing.Collector
	ended atomic.Bool
}

// ID returns the span's identifier.
func (s *Span) ID() tracing.SpanID { return s.id }

// Name returns the name given to Start.
func (s *Span) Name() string { return s.name }

// Record sets span fields, overwriting earlier values for the same keys.
// No-op after End.
func (s *Span) Record(attrs ...slog.Attr) {
	if s.ended.Load() {
		return
	}
	s.c.OnSpanFieldsRecorded(s.id, appendAttrs(nil, "", attrs))
}

// End closes the span and releases its fields.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Span) End() {
	if s.ended.CompareAndSwap(false, true) {
		s.c.OnSpanClosed(s.id)
	}
}
