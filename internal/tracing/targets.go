package tracing

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gobwas/glob"
)

// TargetFilter is an ordered list of glob patterns matched against event
// targets. The compiled set is rebuilt lazily on the first Matches call after
// a mutation.
//
// Patterns are compiled without separators: `*` matches any run of
// characters, including "::", "/" and ".".
type TargetFilter struct {
	mu       sync.Mutex // serializes mutations and rebuilds
	patterns []string
	compiled atomic.Pointer[globSet] // nil means stale
	rebuilds atomic.Uint64
}

type globSet []glob.Glob

func (s globSet) match(target string) bool {
	for _, g := range s {
		if g.Match(target) {
			return true
		}
	}
	return false
}

// NewTargetFilter returns an empty filter.
func NewTargetFilter() *TargetFilter {
	return &TargetFilter{}
}

// Add appends pattern. Malformed glob text is rejected with a *PatternError
// and leaves the filter unchanged.
func (f *TargetFilter) Add(pattern string) error {
	if _, err := glob.Compile(pattern); err != nil {
		return &PatternError{Pattern: pattern, Err: err}
	}

	f.mu.Lock()
	f.patterns = append(f.patterns, pattern)
	f.compiled.Store(nil)
	f.mu.Unlock()
	return nil
}

// Remove deletes the pattern at index i and returns it.
func (f *TargetFilter) Remove(i int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.patterns) {
		return "", fmt.Errorf("remove pattern %d of %d: %w", i, len(f.patterns), ErrPatternIndex)
	}
	removed := f.patterns[i]
	f.patterns = slices.Delete(f.patterns, i, i+1)
	f.compiled.Store(nil)
	return removed, nil
}

// Patterns returns a copy of the patterns in insertion order.
func (f *TargetFilter) Patterns() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.patterns)
}

// Len returns the number of patterns.
func (f *TargetFilter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patterns)
}

// Matches reports whether target matches at least one pattern. An empty
// filter matches nothing; whether that means "show everything" is up to
// the caller.
func (f *TargetFilter) Matches(target string) bool {
	set := f.compiled.Load()
	if set == nil {
		set = f.rebuild()
	}
	return set.match(target)
}

// rebuild compiles the current patterns. Concurrent callers wait on the
// mutex and reuse the first caller's result.
func (f *TargetFilter) rebuild() *globSet {
	f.mu.Lock()
	defer f.mu.Unlock()

	if set := f.compiled.Load(); set != nil {
		return set
	}

	set := make(globSet, 0, len(f.patterns))
	for _, p := range f.patterns {
		g, err := glob.Compile(p)
		if err != nil {
			// Unreachable: Add compiled every pattern already.
			panic(fmt.Sprintf("tracing: validated target pattern %q no longer compiles: %v", p, err))
		}
		set = append(set, g)
	}
	f.compiled.Store(&set)
	f.rebuilds.Add(1)
	return &set
}
