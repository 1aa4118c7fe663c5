package memory

import "unsafe"

// AllocationStats are cumulative and live counters maintained by tracking
// allocators.
type AllocationStats struct {
	Allocations     int64
	Frees           int64
	BytesAllocated  int64
	BytesFreed      int64
	LiveAllocations int64
	LiveBytes       int64
	PeakLiveBytes   int64
}

// AllocatorConfig configures an allocator backend. The zero value selects
// the default alignment with tracking disabled.
//
// Tracking guards a pointer-to-size map with a mutex; it is an order of
// magnitude slower than the untracked path and is meant for debugging.
type AllocatorConfig struct {
	Alignment        int
	TrackAllocations bool
}

// Allocator is the pluggable allocation boundary used by tensors and
// buffers. Failed allocations are reported as nil slices rather than
// errors; callers translate to errors at the construction boundary.
type Allocator interface {
	// Allocate returns a slice of size bytes at the backend's default
	// alignment, or nil on failure. Sizes <= 0 fail.
	Allocate(size int64) []byte

	// AllocateAligned returns a slice of size bytes at the requested
	// alignment (0 selects the backend default), or nil on failure.
	AllocateAligned(size int64, alignment int) []byte

	// Deallocate releases a slice previously returned by this allocator.
	// Passing nil is a no-op.
	Deallocate(buf []byte)

	// Reallocate resizes buf, preserving min(len(buf), newSize) bytes.
	// Backends that cannot reallocate return nil.
	Reallocate(buf []byte, newSize int64) []byte

	// Alignment returns the backend's default alignment in bytes.
	Alignment() int

	// Owns reports whether p was (or could have been) allocated by this
	// backend. Without tracking this may be a conservative approximation.
	Owns(p unsafe.Pointer) bool

	// TrackingEnabled reports whether allocation tracking is on.
	TrackingEnabled() bool

	// Stats returns tracking counters; zero when tracking is disabled.
	Stats() AllocationStats

	// ResetStats zeroes the tracking counters.
	ResetStats()
}

func bufPointer(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

// allocAligned returns a fresh slice of size bytes whose first element is
// address-aligned to alignment.
func allocAligned(size int64, alignment int) []byte {
	raw := make([]byte, size+int64(alignment))
	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := int64(alignUp(addr, uintptr(alignment)) - addr)
	return raw[offset : offset+size : offset+size]
}
