package memory

import (
	"sync"
	"unsafe"
)

// ArenaAllocator adapts an Arena to the Allocator interface. Individual
// deallocations only update tracking bookkeeping; memory is reclaimed in
// bulk by Reset. The tracked bookkeeping is mutex-guarded, but the arena's
// bump pointer itself is not synchronized.
type ArenaAllocator struct {
	arena     *Arena
	alignment int
	track     bool

	mu    sync.Mutex
	live  map[unsafe.Pointer]int64
	stats AllocationStats
}

// NewArenaAllocator creates an allocator over a fresh arena of
// capacity bytes with the given base alignment.
func NewArenaAllocator(capacity int64, baseAlignment int, cfg AllocatorConfig) *ArenaAllocator {
	a := &ArenaAllocator{
		arena:     NewArena(capacity, baseAlignment),
		alignment: normalizeAlignment(cfg.Alignment),
		track:     cfg.TrackAllocations,
	}
	if a.track {
		a.live = make(map[unsafe.Pointer]int64)
	}
	return a
}

// Arena returns the wrapped arena.
func (a *ArenaAllocator) Arena() *Arena {
	return a.arena
}

// Allocate bump-allocates size bytes at the default alignment.
func (a *ArenaAllocator) Allocate(size int64) []byte {
	if size <= 0 {
		return nil
	}
	return a.AllocateAligned(size, a.alignment)
}

// AllocateAligned bump-allocates size bytes at the requested alignment.
func (a *ArenaAllocator) AllocateAligned(size int64, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	if alignment == 0 {
		alignment = a.alignment
	}
	alignment = normalizeAlignment(alignment)

	buf := a.arena.Allocate(size, alignment)
	if buf == nil {
		return nil
	}

	if a.track {
		a.mu.Lock()
		a.live[bufPointer(buf)] = size
		a.stats.Allocations++
		a.stats.BytesAllocated += size
		a.stats.LiveAllocations++
		a.stats.LiveBytes += size
		if a.stats.LiveBytes > a.stats.PeakLiveBytes {
			a.stats.PeakLiveBytes = a.stats.LiveBytes
		}
		a.mu.Unlock()
	}
	return buf
}

// Deallocate is a bookkeeping-only no-op; arena memory is released
// en masse by Reset.
func (a *ArenaAllocator) Deallocate(buf []byte) {
	if len(buf) == 0 || !a.track {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p := bufPointer(buf)
	if size, ok := a.live[p]; ok {
		delete(a.live, p)
		a.stats.Frees++
		a.stats.BytesFreed += size
		if a.stats.LiveAllocations > 0 {
			a.stats.LiveAllocations--
		}
		if a.stats.LiveBytes >= size {
			a.stats.LiveBytes -= size
		} else {
			a.stats.LiveBytes = 0
		}
		return
	}
	a.stats.Frees++
}

// Reallocate is unsupported: the arena cannot recover the original
// allocation for in-place growth.
func (a *ArenaAllocator) Reallocate(buf []byte, newSize int64) []byte {
	return nil
}

// Alignment returns the default alignment.
func (a *ArenaAllocator) Alignment() int {
	return a.alignment
}

// Owns reports whether p came from this allocator: the live map when
// tracking, the arena's address range otherwise.
func (a *ArenaAllocator) Owns(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	if a.track {
		a.mu.Lock()
		defer a.mu.Unlock()
		_, ok := a.live[p]
		return ok
	}
	return a.arena.Owns(p)
}

// Reset rewinds the arena and clears the live set. Cumulative counters are
// kept; use ResetStats to zero them.
func (a *ArenaAllocator) Reset() {
	a.arena.Reset()
	if !a.track {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live = make(map[unsafe.Pointer]int64)
	a.stats.LiveAllocations = 0
	a.stats.LiveBytes = 0
}

// TrackingEnabled reports whether tracking is on.
func (a *ArenaAllocator) TrackingEnabled() bool {
	return a.track
}

// Stats returns a snapshot of the tracking counters.
func (a *ArenaAllocator) Stats() AllocationStats {
	if !a.track {
		return AllocationStats{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// ResetStats zeroes the tracking counters.
func (a *ArenaAllocator) ResetStats() {
	if !a.track {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats = AllocationStats{}
}
