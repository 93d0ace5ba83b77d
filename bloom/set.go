package bloom

import (
	"sync"

	"github.com/fwojciec/fontdl"
)

var _ fontdl.SeenSet = (*Set)(nil)

// Set is an exact set of row IDs. A Bloom filter answers most lookups for
// unseen IDs; filter hits are confirmed against the recorded IDs, so Test
// never reports an ID that was not added, whatever the number of IDs.
// It is safe for concurrent use by multiple goroutines.
type Set struct {
	mu     sync.Mutex
	filter *Filter
	ids    map[string]struct{}
}

// NewSet creates a new Set sized for n expected IDs.
func NewSet(n uint) *Set {
	return &Set{
		filter: NewFilter(n, DefaultFalsePositiveRate),
		ids:    make(map[string]struct{}),
	}
}

// Add records a row ID.
func (s *Set) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Add(id)
	s.ids[id] = struct{}{}
}

// Test reports whether the ID was recorded.
func (s *Set) Test(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filter.Test(id) {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of recorded IDs.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
