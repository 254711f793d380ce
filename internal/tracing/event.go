// Package tracing collects events emitted inside nested spans and keeps the
// most recent ones in memory for live inspection.
//
// Producers (any number of goroutines) report span lifecycle and events
// through the Collector's On* methods. A single consumer, usually a UI redraw
// loop, polls Collector.Events and applies the target and level filters
// before display. Nothing in this package starts goroutines or blocks on I/O.
package tracing

import (
	"slices"
	"strings"
	"time"
)

// MessageKey is the field that carries an event's human-readable message.
const MessageKey = "message"

// Field is a single rendered key/value pair.
type Field struct {
	Key   string
	Value string
}

// Fields is a key-sorted list of unique fields.
type Fields []Field

// Get returns the value stored under key.
func (fs Fields) Get(key string) (string, bool) {
	i, ok := slices.BinarySearchFunc(fs, key, func(f Field, k string) int {
		return strings.Compare(f.Key, k)
	})
	if !ok {
		return "", false
	}
	return fs[i].Value, true
}

// Event is a collected record. Immutable once pushed into a RingBuffer.
type Event struct {
	Time   time.Time
	Level  Level
	Target string // emitting module or component path
	Fields Fields
}

// Message returns the "message" field, or "" when the event has none.
func (e Event) Message() string {
	v, _ := e.Fields.Get(MessageKey)
	return v
}
