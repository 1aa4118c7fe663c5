package memory

import (
	"sync"
	"unsafe"
)

// SystemAllocator serves allocations from the Go heap with explicit
// address alignment. With tracking enabled it maintains a mutex-guarded
// pointer-to-size map, making the tracked backend safe for concurrent
// allocate/deallocate calls.
type SystemAllocator struct {
	alignment int
	track     bool

	mu    sync.Mutex
	live  map[unsafe.Pointer]int64
	stats AllocationStats
}

// NewSystemAllocator creates a system allocator with the given config.
func NewSystemAllocator(cfg AllocatorConfig) *SystemAllocator {
	s := &SystemAllocator{
		alignment: normalizeAlignment(cfg.Alignment),
		track:     cfg.TrackAllocations,
	}
	if s.track {
		s.live = make(map[unsafe.Pointer]int64)
	}
	return s
}

// Allocate returns size bytes at the default alignment, or nil when
// size <= 0.
func (s *SystemAllocator) Allocate(size int64) []byte {
	if size <= 0 {
		return nil
	}
	return s.AllocateAligned(size, s.alignment)
}

// AllocateAligned returns size bytes at the requested alignment.
func (s *SystemAllocator) AllocateAligned(size int64, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	if alignment == 0 {
		alignment = s.alignment
	}
	alignment = normalizeAlignment(alignment)

	buf := allocAligned(size, alignment)

	if s.track {
		s.mu.Lock()
		s.live[bufPointer(buf)] = size
		s.stats.Allocations++
		s.stats.BytesAllocated += size
		s.stats.LiveAllocations++
		s.stats.LiveBytes += size
		if s.stats.LiveBytes > s.stats.PeakLiveBytes {
			s.stats.PeakLiveBytes = s.stats.LiveBytes
		}
		s.mu.Unlock()
	}
	return buf
}

// Deallocate releases buf. The Go heap reclaims the memory once
// unreferenced; tracking bookkeeping is updated here.
func (s *SystemAllocator) Deallocate(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if !s.track {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := bufPointer(buf)
	if size, ok := s.live[p]; ok {
		delete(s.live, p)
		s.stats.Frees++
		s.stats.BytesFreed += size
		if s.stats.LiveAllocations > 0 {
			s.stats.LiveAllocations--
		}
		if s.stats.LiveBytes >= size {
			s.stats.LiveBytes -= size
		} else {
			s.stats.LiveBytes = 0
		}
		return
	}
	// Unknown pointer: count the free without byte accounting.
	s.stats.Frees++
}

// Reallocate resizes buf, preserving min(len(buf), newSize) bytes.
// A newSize <= 0 deallocates and returns nil.
func (s *SystemAllocator) Reallocate(buf []byte, newSize int64) []byte {
	if newSize <= 0 {
		s.Deallocate(buf)
		return nil
	}

	newBuf := s.Allocate(newSize)
	if newBuf == nil {
		return nil
	}
	copy(newBuf, buf)
	s.Deallocate(buf)
	return newBuf
}

// Alignment returns the default alignment.
func (s *SystemAllocator) Alignment() int {
	return s.alignment
}

// Owns reports whether p is a live allocation. Without tracking there is no
// record of past allocations, so any non-nil pointer is accepted.
func (s *SystemAllocator) Owns(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	if !s.track {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[p]
	return ok
}

// TrackingEnabled reports whether tracking is on.
func (s *SystemAllocator) TrackingEnabled() bool {
	return s.track
}

// Stats returns a snapshot of the tracking counters.
func (s *SystemAllocator) Stats() AllocationStats {
	if !s.track {
		return AllocationStats{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes the tracking counters. The live map is kept so that
// outstanding allocations still deallocate cleanly.
func (s *SystemAllocator) ResetStats() {
	if !s.track {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = AllocationStats{}
}
