package memory

import (
	"encoding/binary"
	"fmt"
)

// canaryValue is the marker written before and after a guarded buffer's
// user region.
const canaryValue uint32 = 0xDEADBEEF

// canarySize is the byte width of one canary marker.
const canarySize = 4

// Buffer is a raw memory region with ownership semantics and optional
// canary guards that detect out-of-bounds writes adjacent to the user
// region.
type Buffer struct {
	base      []byte // full allocation, including canaries
	data      []byte // user-visible region
	size      int64
	alignment int
	owns      bool
	useCanary bool
	alloc     Allocator // allocator used at construction, nil for heap
}

// NewBuffer allocates a buffer of size bytes. When alloc is nil the Go
// heap serves the allocation. With useCanary, 4-byte markers bracket the
// user region.
func NewBuffer(size int64, alignment int, alloc Allocator, useCanary bool) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Allocate(size, alignment, alloc, useCanary); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBufferFromBytes wraps externally managed memory. The buffer does not
// take ownership unless owned is set.
func NewBufferFromBytes(data []byte, alignment int, owned bool) *Buffer {
	return &Buffer{
		base:      data,
		data:      data,
		size:      int64(len(data)),
		alignment: alignment,
		owns:      owned,
	}
}

// Allocate (re)allocates the buffer, releasing any currently owned memory
// first. The total allocation is size plus two canary words when guarding
// is requested.
func (b *Buffer) Allocate(size int64, alignment int, alloc Allocator, useCanary bool) error {
	if b.owns {
		b.Deallocate()
	}
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if alignment != 0 && !isPowerOfTwo(alignment) {
		return fmt.Errorf("%w: %d", ErrBadAlignment, alignment)
	}
	alignment = normalizeAlignment(alignment)

	total := size
	if useCanary {
		total += 2 * canarySize
	}

	var base []byte
	if alloc != nil {
		base = alloc.Allocate(total)
	} else {
		base = allocAligned(total, alignment)
	}
	if base == nil {
		return fmt.Errorf("%w: %d bytes", ErrOutOfMemory, total)
	}

	b.base = base
	b.size = size
	b.alignment = alignment
	b.owns = true
	b.useCanary = useCanary
	b.alloc = alloc

	if useCanary {
		binary.LittleEndian.PutUint32(base[:canarySize], canaryValue)
		b.data = base[canarySize : canarySize+size : canarySize+size]
		binary.LittleEndian.PutUint32(base[canarySize+size:], canaryValue)
	} else {
		b.data = base
	}
	return nil
}

// Deallocate releases the buffer if it owns its memory. Canary markers are
// wiped before release so stale guards cannot validate.
func (b *Buffer) Deallocate() {
	if b.base == nil || !b.owns {
		b.base = nil
		b.data = nil
		b.size = 0
		return
	}

	if b.useCanary {
		binary.LittleEndian.PutUint32(b.base[:canarySize], 0)
		binary.LittleEndian.PutUint32(b.base[canarySize+b.size:], 0)
	}
	if b.alloc != nil {
		b.alloc.Deallocate(b.base)
	}

	b.base = nil
	b.data = nil
	b.size = 0
	b.owns = false
	b.alloc = nil
}

// Resize reallocates the buffer to newSize bytes, preserving the common
// prefix of the user region and re-establishing canary guards. Only owned
// buffers resize; backends that cannot reallocate surface
// ErrReallocUnsupported.
func (b *Buffer) Resize(newSize int64) error {
	if newSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, newSize)
	}
	if b.base == nil || !b.owns {
		return fmt.Errorf("%w: buffer does not own its memory", ErrReallocUnsupported)
	}
	if newSize == b.size {
		return nil
	}

	total := newSize
	if b.useCanary {
		total += 2 * canarySize
	}

	var base []byte
	if b.alloc != nil {
		base = b.alloc.Reallocate(b.base, total)
		if base == nil {
			return fmt.Errorf("%w: %d bytes", ErrReallocUnsupported, total)
		}
	} else {
		base = allocAligned(total, b.alignment)
		copy(base, b.base)
	}

	b.base = base
	b.size = newSize
	if b.useCanary {
		binary.LittleEndian.PutUint32(base[:canarySize], canaryValue)
		b.data = base[canarySize : canarySize+newSize : canarySize+newSize]
		binary.LittleEndian.PutUint32(base[canarySize+newSize:], canaryValue)
	} else {
		b.data = base
	}
	return nil
}

// Data returns the user-visible region.
func (b *Buffer) Data() []byte {
	return b.data
}

// Size returns the user-visible size in bytes.
func (b *Buffer) Size() int64 {
	return b.size
}

// Alignment returns the alignment requested at allocation.
func (b *Buffer) Alignment() int {
	return b.alignment
}

// OwnsData reports whether the buffer releases its memory on Deallocate.
func (b *Buffer) OwnsData() bool {
	return b.owns
}

// HasCanary reports whether guard markers bracket the user region.
func (b *Buffer) HasCanary() bool {
	return b.useCanary
}

// ValidateCanary reports whether both guard markers are intact. Buffers
// without guards always validate.
func (b *Buffer) ValidateCanary() bool {
	if !b.useCanary || b.base == nil || b.size == 0 {
		return true
	}
	prefix := binary.LittleEndian.Uint32(b.base[:canarySize])
	suffix := binary.LittleEndian.Uint32(b.base[canarySize+b.size:])
	return prefix == canaryValue && suffix == canaryValue
}

// Clone deep-copies the buffer into a fresh heap allocation with the same
// guard configuration.
func (b *Buffer) Clone() (*Buffer, error) {
	if b.data == nil || b.size == 0 {
		return &Buffer{}, nil
	}
	clone, err := NewBuffer(b.size, b.alignment, nil, b.useCanary)
	if err != nil {
		return nil, err
	}
	copy(clone.data, b.data)
	return clone, nil
}
