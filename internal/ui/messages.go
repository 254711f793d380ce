// Package ui provides the Bubble Tea log viewer for tracewatch.
package ui

import "github.com/abelbrown/tracewatch/internal/tracing"

// RefreshTick triggers a poll of the collector.
type RefreshTick struct{}

// EventsLoaded carries a snapshot of the collector's buffer.
type EventsLoaded struct {
	Events  []tracing.Event
	Evicted uint64
}
