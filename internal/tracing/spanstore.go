package tracing

import (
	"slices"
	"strings"
	"sync"
)

// SpanID is the host framework's opaque span identifier.
type SpanID uint64

// spanStore maps live spans to their rendered fields.
// Hold times are bounded by the number of fields touched, never by the
// number of spans.
type spanStore struct {
	mu    sync.RWMutex
	spans map[SpanID]map[string]string
}

func newSpanStore() *spanStore {
	return &spanStore{spans: make(map[SpanID]map[string]string)}
}

// create seeds the store for id, replacing any leftover store under the
// same id.
func (s *spanStore) create(id SpanID, fields []Field) {
	m := make(map[string]string, len(fields))
	record(m, fields)

	s.mu.Lock()
	s.spans[id] = m
	s.mu.Unlock()
}

// update overwrites existing keys with values from fields. Unknown ids are
// ignored: late records for spans outside this collector are expected.
func (s *spanStore) update(id SpanID, fields []Field) {
	if len(fields) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.spans[id]
	if !ok {
		return
	}
	record(m, fields)
}

func (s *spanStore) remove(id SpanID) {
	s.mu.Lock()
	delete(s.spans, id)
	s.mu.Unlock()
}

func (s *spanStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spans)
}

// aggregate merges the stores along scope (outermost first) and overlays
// own. Inner spans shadow outer ones, event fields shadow all spans.
func (s *spanStore) aggregate(scope []SpanID, own []Field) Fields {
	merged := make(map[string]string, len(own))
	if len(scope) > 0 {
		s.mu.RLock()
		for _, id := range scope {
			for k, v := range s.spans[id] {
				merged[k] = v
			}
		}
		s.mu.RUnlock()
	}
	record(merged, own)

	out := make(Fields, 0, len(merged))
	for k, v := range merged {
		out = append(out, Field{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Field) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// record applies one visitor pass over fields. A key repeated inside the
// same pass keeps its first value; values from an earlier pass are
// overwritten.
func record(dst map[string]string, fields []Field) {
	if len(fields) <= 8 {
		for i, f := range fields {
			if seenBefore(fields[:i], f.Key) {
				continue
			}
			dst[f.Key] = f.Value
		}
		return
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Key]; dup {
			continue
		}
		seen[f.Key] = struct{}{}
		dst[f.Key] = f.Value
	}
}

func seenBefore(fields []Field, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
