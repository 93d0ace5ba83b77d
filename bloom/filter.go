// Package bloom provides row deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/fontdl"
)

// DefaultCapacity is the number of row IDs a run is expected to see.
const DefaultCapacity = 100_000

// DefaultFalsePositiveRate keeps the chance of wrongly skipping a row
// negligible at DefaultCapacity.
const DefaultFalsePositiveRate = 1e-7

var _ fontdl.SeenSet = (*Filter)(nil)

// Filter remembers which row IDs have been processed.
// It is safe for concurrent use by multiple goroutines.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected IDs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a row ID.
func (f *Filter) Add(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(id)
}

// Test returns true if the ID might have been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(id)
}

// EstimatedCount returns the approximate number of IDs in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
