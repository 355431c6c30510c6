// Package bloom provides URL deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used when a filter is built from known URLs.
const DefaultFalsePositiveRate = 0.001

// Filter wraps a Bloom filter for URL deduplication. It is safe for
// concurrent use.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewFilterFromURLs creates a filter holding urls, sized for them plus
// headroom for extra items added later.
func NewFilterFromURLs(urls []string, extra uint) *Filter {
	n := uint(len(urls)) + extra
	if n == 0 {
		n = 1
	}
	f := NewFilter(n, DefaultFalsePositiveRate)
	for _, u := range urls {
		f.f.AddString(u)
	}
	return f
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
