package ttl

import "sync/atomic"

// Numeric is the set of sample value types a Sampler/Strategy may operate
// over. The reference Counter instantiates float64.
type Numeric interface {
	~int64 | ~float64
}

// slot is one fixed-capacity, power-of-two-sized array of samples plus the
// monotone write cursor producers fetch-add into. The zero value is not
// usable; construct with newSlot.
type slot[T Numeric] struct {
	values     []T
	writeIndex atomic.Uint64
}

func newSlot[T Numeric](capacity int) *slot[T] {
	return &slot[T]{values: make([]T, capacity)}
}

// append stores v at the next logical position, wrapping silently once the
// slot fills. Never blocks, never allocates.
func (s *slot[T]) append(capacityMask uint64, v T) {
	idx := s.writeIndex.Add(1) - 1
	s.values[idx&capacityMask] = v
}

// drainInto exchanges the write cursor back to zero and appends the
// retained window onto dst in insertion order, returning the extended
// slice and the number of samples retained (capped at capacity on
// overflow). It must only be called by the collector, and only once the
// slot is no longer producer-visible (i.e. after a flip).
func (s *slot[T]) drainInto(dst []T, capacity int) ([]T, uint64) {
	observed := s.writeIndex.Swap(0)
	if observed == 0 {
		return dst, 0
	}
	cap64 := uint64(capacity)
	if observed <= cap64 {
		return append(dst, s.values[:observed]...), observed
	}
	// Overflow: capacity is a power of two, so (observed - capacity) and
	// observed land on the same slot, which makes that slot the oldest
	// survivor of the retained window and everything before it (in
	// physical order) the newest. Keep the last `capacity` entries in
	// insertion order: oldest-first starting at that slot, wrapping.
	start := observed & (cap64 - 1)
	dst = append(dst, s.values[start:]...)
	dst = append(dst, s.values[:start]...)
	return dst, cap64
}

// shard is a single producer lane: two slots and an atomically-swapped
// pointer selecting which one is currently producer-visible.
type shard[T Numeric] struct {
	first, second slot[T]
	current       atomic.Pointer[slot[T]]
	capacityMask  uint64
	capacity      int
}

func newShard[T Numeric](capacity int) *shard[T] {
	sh := &shard[T]{
		first:        *newSlot[T](capacity),
		second:       *newSlot[T](capacity),
		capacityMask: uint64(capacity - 1),
		capacity:     capacity,
	}
	sh.current.Store(&sh.first)
	return sh
}

func (sh *shard[T]) append(v T) {
	sh.current.Load().append(sh.capacityMask, v)
}

// flip atomically swaps the producer-visible slot and returns the
// previously-current one, now exclusively owned by the caller.
func (sh *shard[T]) flip() *slot[T] {
	for {
		prev := sh.current.Load()
		next := &sh.second
		if prev == &sh.second {
			next = &sh.first
		}
		if sh.current.CompareAndSwap(prev, next) {
			return prev
		}
	}
}

// drain flips the shard and appends its drained window onto dst.
func (sh *shard[T]) drain(dst []T) ([]T, uint64) {
	prev := sh.flip()
	return prev.drainInto(dst, sh.capacity)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
