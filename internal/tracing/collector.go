package tracing

import (
	"github.com/zoobzio/clockz"
)

// Collector wires the span store, level filter, target filter and event
// buffer together. Safe for concurrent use by multiple goroutines; share it
// by pointer, every holder sees the same buffer and threshold.
type Collector struct {
	events   *RingBuffer
	spans    *spanStore
	level    *LevelFilter
	targets  *TargetFilter
	clock    clockz.Clock
	interest func(Level)

	maxEvents int
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxEvents sets the buffer capacity. Values <= 0 select
// DefaultMaxEvents.
func WithMaxEvents(n int) Option {
	return func(c *Collector) { c.maxEvents = n }
}

// WithLevel sets the initial threshold. The default is INFO.
func WithLevel(l Level) Option {
	return func(c *Collector) { c.level = NewLevelFilter(l) }
}

// WithLevelFilter makes the collector use a filter shared with other
// holders instead of its own.
func WithLevelFilter(f *LevelFilter) Option {
	return func(c *Collector) {
		if f != nil {
			c.level = f
		}
	}
}

// WithClock sets the clock used to timestamp events.
// Enables clock injection for deterministic testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *Collector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithInterestHook registers fn to run after every threshold change made
// through SetLevel. Hosts that cache per-callsite enablement must drop
// those caches here, or callsites disabled under the old threshold stay
// silent after it is relaxed.
func WithInterestHook(fn func(Level)) Option {
	return func(c *Collector) { c.interest = fn }
}

// NewCollector creates a collector. Defaults: 10,000 events, INFO
// threshold, real clock, no interest hook.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		spans:   newSpanStore(),
		level:   NewLevelFilter(LevelInfo),
		targets: NewTargetFilter(),
		clock:   clockz.RealClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.events = NewRingBuffer(c.maxEvents)
	c.maxEvents = c.events.Cap()
	return c
}

// Producer side. None of these return errors: logging must never fail the
// instrumented code.

// Enabled reports whether an event at level l would be collected. Hosts
// should check it before rendering fields.
func (c *Collector) Enabled(l Level) bool {
	return c.level.IsEnabled(l)
}

// OnSpanCreated starts tracking span id with its creation-time fields.
func (c *Collector) OnSpanCreated(id SpanID, fields []Field) {
	c.spans.create(id, fields)
}

// OnSpanFieldsRecorded updates the fields of span id. Unknown spans are
// ignored.
func (c *Collector) OnSpanFieldsRecorded(id SpanID, fields []Field) {
	c.spans.update(id, fields)
}

// OnSpanClosed forgets span id. Unknown spans are ignored.
func (c *Collector) OnSpanClosed(id SpanID) {
	c.spans.remove(id)
}

// OnEvent collects an event emitted inside scope (outermost span first).
// Disabled levels return before any aggregation or allocation.
func (c *Collector) OnEvent(level Level, target string, scope []SpanID, fields []Field) {
	if !c.level.IsEnabled(level) {
		return
	}
	c.events.Push(Event{
		Time:   c.clock.Now().Local(),
		Level:  level,
		Target: target,
		Fields: c.spans.aggregate(scope, fields),
	})
}

// Consumer side.

// Events returns a snapshot of the buffered events, oldest first.
func (c *Collector) Events() []Event {
	return c.events.Snapshot()
}

// Buffer exposes the event buffer for read-side helpers such as Last and
// Stats.
func (c *Collector) Buffer() *RingBuffer {
	return c.events
}

// Clear drops all buffered events.
func (c *Collector) Clear() {
	c.events.Clear()
}

// MaxEvents returns the buffer capacity.
func (c *Collector) MaxEvents() int {
	return c.maxEvents
}

// Evicted returns how many events were dropped for capacity.
func (c *Collector) Evicted() uint64 {
	return c.events.Evicted()
}

// Level returns the current threshold.
func (c *Collector) Level() Level {
	return c.level.Level()
}

// LevelFilter returns the shared threshold, for hosts that gate callbacks
// themselves.
func (c *Collector) LevelFilter() *LevelFilter {
	return c.level
}

// SetLevel changes the threshold and runs the interest hook if it actually
// changed. Reports whether it changed.
func (c *Collector) SetLevel(l Level) bool {
	if !c.level.Set(l) {
		return false
	}
	if c.interest != nil {
		c.interest(c.level.Level())
	}
	return true
}

// AddTargetPattern appends a glob to the target filter.
func (c *Collector) AddTargetPattern(pattern string) error {
	return c.targets.Add(pattern)
}

// RemoveTargetPattern removes the pattern at index i and returns it.
func (c *Collector) RemoveTargetPattern(i int) (string, error) {
	return c.targets.Remove(i)
}

// TargetPatterns returns the patterns in insertion order.
func (c *Collector) TargetPatterns() []string {
	return c.targets.Patterns()
}

// MatchesTarget reports whether target matches any pattern.
func (c *Collector) MatchesTarget(target string) bool {
	return c.targets.Matches(target)
}
