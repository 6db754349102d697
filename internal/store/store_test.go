package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findt/internal/domain"
)

func entry(p string) domain.Entry {
	return domain.NewEntry(p, 0, time.Time{})
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	s := New()
	s.Append(entry("b"), entry("a"))
	s.Append(entry("c"))

	require.Equal(t, 3, s.Len())
	got := s.Slice(0, s.Len())
	assert.Equal(t, []domain.Entry{entry("b"), entry("a"), entry("c")}, got)
}

func TestAppendAcrossChunks(t *testing.T) {
	s := New()
	var batch []domain.Entry
	for i := 0; i < chunkSize*2+7; i++ {
		batch = append(batch, entry(fmt.Sprintf("f%d", i)))
	}
	s.Append(batch[:10]...)
	s.Append(batch[10:]...)

	require.Equal(t, len(batch), s.Len())
	for _, i := range []int{0, chunkSize - 1, chunkSize, 2 * chunkSize, len(batch) - 1} {
		assert.Equal(t, batch[i].Path, s.At(i).Path)
	}
}

func TestDuplicatePathsAreDistinct(t *testing.T) {
	s := New()
	s.Append(entry("same"), entry("same"))
	assert.Equal(t, 2, s.Len())
}

func TestSliceClampsBounds(t *testing.T) {
	s := New()
	s.Append(entry("a"), entry("b"))

	assert.Len(t, s.Slice(-5, 100), 2)
	assert.Empty(t, s.Slice(2, 10))
	assert.Empty(t, s.Slice(1, 0))
}

func TestSnapshotIsFixed(t *testing.T) {
	s := New()
	s.Append(entry("a"))
	snap := s.Snapshot()
	s.Append(entry("b"))

	assert.Equal(t, 1, snap.Len())
	count := 0
	snap.Range(0, 100, func(int, domain.Entry) bool { count++; return true })
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, s.Len())
}

func TestRangeStopsEarly(t *testing.T) {
	s := New()
	s.Append(entry("a"), entry("b"), entry("c"))

	var seen []string
	s.Range(0, 3, func(_ int, e domain.Entry) bool {
		seen = append(seen, e.Path)
		return e.Path != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestConcurrentReadersObserveMonotonicGrowth(t *testing.T) {
	s := New()
	const total = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i += 10 {
			batch := make([]domain.Entry, 0, 10)
			for j := i; j < i+10; j++ {
				batch = append(batch, entry(fmt.Sprintf("%d", j)))
			}
			s.Append(batch...)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for last < total {
				n := s.Len()
				if n < last {
					t.Errorf("length went backwards: %d < %d", n, last)
					return
				}
				s.Range(last, n, func(i int, e domain.Entry) bool {
					if e.Path != fmt.Sprintf("%d", i) {
						t.Errorf("entry %d has path %q", i, e.Path)
					}
					return true
				})
				last = n
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, total, s.Len())
}
