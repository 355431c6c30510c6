package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/readlater/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("reports added URLs only", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		assert.False(t, f.Test("https://news.example.com/story"))

		f.Add("https://news.example.com/story")

		assert.True(t, f.Test("https://news.example.com/story"))
		assert.False(t, f.Test("https://news.example.com/other-story"))
	})

	t.Run("estimates how many URLs it holds", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		assert.Equal(t, uint(0), f.EstimatedCount())

		for _, u := range []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"} {
			f.Add(u)
			f.Add(u)
		}

		count := f.EstimatedCount()
		assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
	})

	t.Run("keeps false positives near the configured rate", func(t *testing.T) {
		t.Parallel()

		const n = 10000
		f := bloom.NewFilter(n, 0.01)
		for i := range n {
			f.Add(fmt.Sprintf("https://example.com/saved/%d", i))
		}

		falsePositives := 0
		for i := range n {
			if f.Test(fmt.Sprintf("https://example.com/new/%d", i)) {
				falsePositives++
			}
		}

		rate := float64(falsePositives) / n
		assert.Less(t, rate, 0.02, "false positive rate %f exceeds 2%%", rate)
	})
}

func TestNewFilterFromURLs(t *testing.T) {
	t.Parallel()

	t.Run("holds the given URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilterFromURLs([]string{"https://a.example/1", "https://a.example/2"}, 10)

		assert.True(t, f.Test("https://a.example/1"))
		assert.True(t, f.Test("https://a.example/2"))
		assert.False(t, f.Test("https://a.example/3"))
	})

	t.Run("accepts an empty list", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilterFromURLs(nil, 0)
		f.Add("https://a.example/1")

		assert.True(t, f.Test("https://a.example/1"))
	})
}

func TestFilter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				u := fmt.Sprintf("https://example.com/%d/%d", i, j)
				f.Add(u)
				assert.True(t, f.Test(u))
			}
		}()
	}
	wg.Wait()
}
