package tracing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

func TestNewCollectorDefaults(t *testing.T) {
	c := NewCollector()

	assert.Equal(t, DefaultMaxEvents, c.MaxEvents())
	assert.Equal(t, LevelInfo, c.Level())
	assert.Empty(t, c.Events())
	assert.Empty(t, c.TargetPatterns())
}

func TestCollectorOptions(t *testing.T) {
	c := NewCollector(WithMaxEvents(3), WithLevel(LevelTrace))

	assert.Equal(t, 3, c.MaxEvents())
	assert.Equal(t, LevelTrace, c.Level())

	c = NewCollector(WithMaxEvents(-1), WithClock(nil), WithLevelFilter(nil))
	assert.Equal(t, DefaultMaxEvents, c.MaxEvents())
	assert.Equal(t, LevelInfo, c.Level())
}

func TestOnEventCollectsWithScope(t *testing.T) {
	clock := clockz.NewFakeClockAt(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	c := NewCollector(WithClock(clock))

	c.OnSpanCreated(1, fields("x", "1", "y", "2"))
	c.OnSpanCreated(2, fields("y", "3", "z", "4"))
	c.OnEvent(LevelWarn, "mod::a", []SpanID{1, 2}, fields("message", "hello", "z", "5", "w", "6"))

	events := c.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "mod::a", e.Target)
	assert.Equal(t, LevelWarn, e.Level)
	assert.Equal(t, "hello", e.Message())
	assert.True(t, e.Time.Equal(clock.Now()))
	assert.Equal(t, time.Local, e.Time.Location())
	assert.Equal(t, Fields{
		{Key: "message", Value: "hello"},
		{Key: "w", Value: "6"},
		{Key: "x", Value: "1"},
		{Key: "y", Value: "3"},
		{Key: "z", Value: "5"},
	}, e.Fields)
}

func TestOnEventRespectsLevel(t *testing.T) {
	c := NewCollector(WithLevel(LevelWarn))

	c.OnEvent(LevelInfo, "t", nil, fields("message", "dropped"))
	c.OnEvent(LevelDebug, "t", nil, nil)
	c.OnEvent(LevelError, "t", nil, fields("message", "kept"))
	c.OnEvent(LevelOff, "t", nil, nil)

	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].Message())
	assert.True(t, c.Enabled(LevelWarn))
	assert.False(t, c.Enabled(LevelInfo))
}

func TestOnEventLevelOffCollectsNothing(t *testing.T) {
	c := NewCollector(WithLevel(LevelOff))
	for _, l := range Levels {
		c.OnEvent(l, "t", nil, nil)
	}
	assert.Empty(t, c.Events())
}

func TestDisabledEventDoesNotAllocate(t *testing.T) {
	c := NewCollector(WithLevel(LevelError))
	c.OnSpanCreated(1, fields("a", "b"))
	scope := []SpanID{1}
	own := fields("message", "m")

	allocs := testing.AllocsPerRun(100, func() {
		c.OnEvent(LevelDebug, "t", scope, own)
	})
	assert.Zero(t, allocs)
}

func TestSpanLifecycle(t *testing.T) {
	c := NewCollector()

	c.OnSpanCreated(7, fields("req", "r1"))
	c.OnSpanFieldsRecorded(7, fields("status", "200"))
	c.OnSpanFieldsRecorded(8, fields("ignored", "yes"))
	c.OnEvent(LevelInfo, "http", []SpanID{7}, nil)

	c.OnSpanClosed(7)
	c.OnSpanClosed(7)
	c.OnEvent(LevelInfo, "http", []SpanID{7}, nil)

	events := c.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Fields{{Key: "req", Value: "r1"}, {Key: "status", Value: "200"}}, events[0].Fields)
	assert.Empty(t, events[1].Fields)
	assert.Equal(t, 0, c.spans.len())
}

func TestSetLevelInvokesInterestHookOnChange(t *testing.T) {
	var calls []Level
	c := NewCollector(WithInterestHook(func(l Level) { calls = append(calls, l) }))

	assert.False(t, c.SetLevel(LevelInfo))
	assert.True(t, c.SetLevel(LevelTrace))
	assert.False(t, c.SetLevel(LevelTrace))
	assert.False(t, c.SetLevel(LevelTrace))
	assert.True(t, c.SetLevel(LevelError))

	assert.Equal(t, []Level{LevelTrace, LevelError}, calls)
}

func TestSetLevelRelaxesFiltering(t *testing.T) {
	c := NewCollector(WithLevel(LevelInfo))

	c.OnEvent(LevelDebug, "t", nil, nil)
	require.Empty(t, c.Events())

	c.SetLevel(LevelDebug)
	c.OnEvent(LevelDebug, "t", nil, nil)
	assert.Len(t, c.Events(), 1)
}

func TestSharedLevelFilter(t *testing.T) {
	shared := NewLevelFilter(LevelWarn)
	a := NewCollector(WithLevelFilter(shared))
	b := NewCollector(WithLevelFilter(shared))

	a.SetLevel(LevelTrace)

	assert.Equal(t, LevelTrace, b.Level())
	assert.Same(t, a.LevelFilter(), b.LevelFilter())
}

func TestCollectorEviction(t *testing.T) {
	c := NewCollector(WithMaxEvents(3))
	for i := 0; i < 5; i++ {
		c.OnEvent(LevelInfo, "t", nil, fields("n", fmt.Sprint(i)))
	}

	events := c.Events()
	require.Len(t, events, 3)
	for i, e := range events {
		v, _ := e.Fields.Get("n")
		assert.Equal(t, fmt.Sprint(i+2), v)
	}
	assert.Equal(t, uint64(2), c.Evicted())
}

func TestClearTwice(t *testing.T) {
	c := NewCollector()
	c.OnEvent(LevelInfo, "t", nil, nil)

	c.Clear()
	assert.Empty(t, c.Events())
	c.Clear()
	assert.Empty(t, c.Events())
	assert.Equal(t, 0, c.Buffer().Len())
}

func TestCollectorTargetPatterns(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.AddTargetPattern("mod::a"))
	require.NoError(t, c.AddTargetPattern("mod::b*"))
	assert.ErrorIs(t, c.AddTargetPattern("mod::[x"), ErrPatternSyntax)

	assert.Equal(t, []string{"mod::a", "mod::b*"}, c.TargetPatterns())
	assert.True(t, c.MatchesTarget("mod::bcd"))
	assert.False(t, c.MatchesTarget("mod::c"))

	removed, err := c.RemoveTargetPattern(1)
	require.NoError(t, err)
	assert.Equal(t, "mod::b*", removed)
	assert.False(t, c.MatchesTarget("mod::bcd"))
}

func TestConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 250
	c := NewCollector(WithMaxEvents(producers*perProducer), WithLevel(LevelTrace))

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			span := SpanID(p + 1)
			c.OnSpanCreated(span, fields("producer", fmt.Sprint(p)))
			defer c.OnSpanClosed(span)
			for i := 0; i < perProducer; i++ {
				c.OnSpanFieldsRecorded(span, fields("last", fmt.Sprint(i)))
				c.OnEvent(LevelInfo, "load", []SpanID{span}, fields("seq", fmt.Sprint(i)))
			}
		}(p)
	}

	// A reader polling concurrently must never see a partial event.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			for _, e := range c.Events() {
				if _, ok := e.Fields.Get("producer"); !ok {
					t.Error("event without producer field")
					return
				}
			}
		}
	}()

	wg.Wait()
	<-done

	events := c.Events()
	require.Len(t, events, producers*perProducer)

	seen := make(map[string]int, len(events))
	for _, e := range events {
		p, _ := e.Fields.Get("producer")
		s, _ := e.Fields.Get("seq")
		seen[p+"/"+s]++
	}
	assert.Len(t, seen, producers*perProducer)
	for key, n := range seen {
		assert.Equal(t, 1, n, "event %s appeared %d times", key, n)
	}
}
