package ttl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShard_DrainBelowCapacity(t *testing.T) {
	sh := newShard[float64](8)
	for _, v := range []float64{1, 2, 3} {
		sh.append(v)
	}

	var dst []float64
	dst, n := sh.drain(dst)

	assert.Equal(t, uint64(3), n)
	assert.Equal(t, []float64{1, 2, 3}, dst)
}

func TestShard_DrainEmpty(t *testing.T) {
	sh := newShard[float64](8)
	var dst []float64
	dst, n := sh.drain(dst)

	assert.Equal(t, uint64(0), n)
	assert.Empty(t, dst)
}

func TestShard_DrainOverflowKeepsLastCapacityInOrder(t *testing.T) {
	sh := newShard[float64](4)
	for i := 1; i <= 6; i++ {
		sh.append(float64(i))
	}

	var dst []float64
	dst, n := sh.drain(dst)

	assert.Equal(t, uint64(4), n)
	assert.Equal(t, []float64{3, 4, 5, 6}, dst)
}

func TestShard_FlipIsolatesProducerFromCollector(t *testing.T) {
	sh := newShard[float64](4)
	sh.append(1)
	sh.append(2)

	prev := sh.flip()
	sh.append(3) // lands on the newly-current slot, not prev

	dst, n := prev.drainInto(nil, 4)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, []float64{1, 2}, dst)

	dst2, n2 := sh.drain(nil)
	assert.Equal(t, uint64(1), n2)
	assert.Equal(t, []float64{3}, dst2)
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 512: 512, 513: 1024}
	for in, want := range cases {
		assert.Equal(t, want, nextPowerOfTwo(in), "nextPowerOfTwo(%d)", in)
	}
}
