// Package memory provides the allocation layer for the Spindle inference
// runtime: a bump arena, pluggable allocator backends with optional
// tracking, and guarded raw buffers.
package memory

import "unsafe"

// defaultAlignment is used when callers pass alignment 0. It matches the
// strictest natural alignment of the element types the runtime stores.
const defaultAlignment = 16

// pointerSize is the minimum base alignment an arena accepts.
const pointerSize = int(unsafe.Sizeof(uintptr(0)))

func isPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

func alignUp(value, alignment uintptr) uintptr {
	return (value + alignment - 1) &^ (alignment - 1)
}

func normalizeAlignment(alignment int) int {
	if alignment == 0 {
		return defaultAlignment
	}
	if !isPowerOfTwo(alignment) || alignment < pointerSize {
		return defaultAlignment
	}
	return alignment
}

// ArenaStats counts allocations within one arena cycle (between resets).
type ArenaStats struct {
	Allocations   int64
	PeakUsedBytes int64
}

// Arena is a fast bump allocator over a single pre-allocated buffer.
//
// Allocations are linear and individual frees are not supported; Reset
// reuses the whole arena. An Arena is not safe for concurrent use: keep one
// per goroutine or serialize externally.
type Arena struct {
	backing []byte // over-allocated so base can be address-aligned
	base    []byte // aligned window of len == capacity
	used    int64
	align   int
	stats   ArenaStats
}

// NewArena creates an arena with a pre-allocated buffer of capacity bytes.
// baseAlignment controls the alignment of the backing buffer's start and is
// normalized to a power of two no smaller than the pointer size. A zero
// capacity yields an empty but valid arena.
func NewArena(capacity int64, baseAlignment int) *Arena {
	a := &Arena{align: normalizeAlignment(baseAlignment)}
	if capacity <= 0 {
		return a
	}

	a.backing = make([]byte, capacity+int64(a.align))
	addr := uintptr(unsafe.Pointer(&a.backing[0]))
	offset := int64(alignUp(addr, uintptr(a.align)) - addr)
	a.base = a.backing[offset : offset+capacity : offset+capacity]
	return a
}

// Allocate bump-allocates size bytes aligned to alignment and returns the
// allocation as a slice into the arena, or nil on exhaustion or invalid
// alignment. Alignment 0 selects the default; non-power-of-two alignments
// fail. A failed allocation leaves the arena unchanged.
func (a *Arena) Allocate(size int64, alignment int) []byte {
	if a.base == nil || size < 0 {
		return nil
	}
	if alignment == 0 {
		alignment = defaultAlignment
	}
	if !isPowerOfTwo(alignment) {
		return nil
	}

	baseAddr := uintptr(unsafe.Pointer(&a.base[0]))
	alignedAddr := alignUp(baseAddr+uintptr(a.used), uintptr(alignment))
	alignedOffset := int64(alignedAddr - baseAddr)

	capacity := int64(len(a.base))
	if alignedOffset > capacity {
		return nil
	}
	if size > capacity-alignedOffset {
		return nil
	}

	a.used = alignedOffset + size
	a.stats.Allocations++
	if a.used > a.stats.PeakUsedBytes {
		a.stats.PeakUsedBytes = a.used
	}
	return a.base[alignedOffset:a.used:a.used]
}

// Reset rewinds the bump pointer and clears per-cycle stats without
// releasing the backing memory.
func (a *Arena) Reset() {
	a.used = 0
	a.stats = ArenaStats{}
}

// Capacity returns the arena's total byte capacity.
func (a *Arena) Capacity() int64 {
	return int64(len(a.base))
}

// Used returns the bytes consumed since the last reset.
func (a *Arena) Used() int64 {
	return a.used
}

// Remaining returns the bytes still available.
func (a *Arena) Remaining() int64 {
	return int64(len(a.base)) - a.used
}

// Stats returns the per-cycle allocation counters.
func (a *Arena) Stats() ArenaStats {
	return a.stats
}

// Owns reports whether p lies within the arena's backing buffer. It does
// not indicate that p refers to a live allocation.
func (a *Arena) Owns(p unsafe.Pointer) bool {
	if a.base == nil || p == nil {
		return false
	}
	baseAddr := uintptr(unsafe.Pointer(&a.base[0]))
	addr := uintptr(p)
	return addr >= baseAddr && addr < baseAddr+uintptr(len(a.base))
}
