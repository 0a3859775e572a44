package ttl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_NoLossBelowCapacity(t *testing.T) {
	s := NewSampler(4, 64, Avg[float64])
	for i := 1; i <= 10; i++ {
		s.Yield(float64(i))
	}

	sample, ok := s.Capture(0)
	require.True(t, ok)
	assert.Equal(t, uint64(10), sample.Count)
	assert.Equal(t, 5.5, sample.Value) // avg of 1..10
}

func TestSampler_RestartAfterCapture(t *testing.T) {
	s := NewSampler(4, 64, Avg[float64])
	s.Yield(1)
	s.Yield(2)

	_, ok := s.Capture(0)
	require.True(t, ok)

	_, ok = s.Capture(0)
	assert.False(t, ok, "second capture with no intervening Yield must be empty")
}

func TestSampler_EmptyCaptureReturnsFalse(t *testing.T) {
	s := NewSampler(4, 64, Avg[float64])
	_, ok := s.Capture(0)
	assert.False(t, ok)
}

func TestSampler_ConcurrentYieldAllObserved(t *testing.T) {
	// Goroutines that share a P reuse one producerHandle and so one shard;
	// each shard holds every value so no distribution can overflow.
	s := NewSampler(8, 2048, Avg[float64])
	const goroutines = 16
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				s.Yield(1)
			}
		}()
	}
	wg.Wait()

	sample, ok := s.Capture(0)
	require.True(t, ok)
	assert.Equal(t, uint64(goroutines*perGoroutine), sample.Count)
}
