package memory

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemAllocatorBasic(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{})

	buf := alloc.Allocate(64)
	require.NotNil(t, buf)
	assert.Len(t, buf, 64)

	assert.Nil(t, alloc.Allocate(0))
	assert.Nil(t, alloc.Allocate(-1))
}

func TestSystemAllocatorAlignment(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{Alignment: 32})
	assert.Equal(t, 32, alloc.Alignment())

	for _, alignment := range []int{16, 32, 64, 256} {
		buf := alloc.AllocateAligned(100, alignment)
		require.NotNil(t, buf, "alignment %d", alignment)
		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Zero(t, addr%uintptr(alignment), "alignment %d", alignment)
	}
}

func TestSystemAllocatorTrackingBalance(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{TrackAllocations: true})
	require.True(t, alloc.TrackingEnabled())

	bufs := make([][]byte, 0, 10)
	for i := 0; i < 10; i++ {
		bufs = append(bufs, alloc.Allocate(128))
	}

	stats := alloc.Stats()
	assert.EqualValues(t, 10, stats.Allocations)
	assert.EqualValues(t, 10, stats.LiveAllocations)
	assert.EqualValues(t, 1280, stats.LiveBytes)
	assert.EqualValues(t, 1280, stats.PeakLiveBytes)

	for _, buf := range bufs {
		alloc.Deallocate(buf)
	}

	stats = alloc.Stats()
	assert.EqualValues(t, 10, stats.Frees)
	assert.EqualValues(t, 0, stats.LiveAllocations)
	assert.EqualValues(t, 0, stats.LiveBytes)
	assert.Equal(t, stats.BytesAllocated, stats.BytesFreed)
	assert.EqualValues(t, 1280, stats.PeakLiveBytes, "peak survives frees")
}

func TestSystemAllocatorOwns(t *testing.T) {
	tracked := NewSystemAllocator(AllocatorConfig{TrackAllocations: true})
	buf := tracked.Allocate(64)
	require.NotNil(t, buf)
	assert.True(t, tracked.Owns(unsafe.Pointer(&buf[0])))

	other := make([]byte, 64)
	assert.False(t, tracked.Owns(unsafe.Pointer(&other[0])))

	tracked.Deallocate(buf)
	assert.False(t, tracked.Owns(unsafe.Pointer(&buf[0])), "freed pointers are no longer owned")

	// Without tracking there is no record to consult.
	untracked := NewSystemAllocator(AllocatorConfig{})
	assert.True(t, untracked.Owns(unsafe.Pointer(&other[0])))
	assert.False(t, untracked.Owns(nil))
}

func TestSystemAllocatorReallocate(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{TrackAllocations: true})

	buf := alloc.Allocate(4)
	copy(buf, []byte{1, 2, 3, 4})

	grown := alloc.Reallocate(buf, 8)
	require.NotNil(t, grown)
	assert.Len(t, grown, 8)
	assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])

	shrunk := alloc.Reallocate(grown, 2)
	require.NotNil(t, shrunk)
	assert.Equal(t, []byte{1, 2}, shrunk)

	assert.Nil(t, alloc.Reallocate(shrunk, 0))
	assert.EqualValues(t, 0, alloc.Stats().LiveAllocations)
}

func TestSystemAllocatorConcurrentTracking(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{TrackAllocations: true})

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				buf := alloc.Allocate(32)
				alloc.Deallocate(buf)
			}
		}()
	}
	wg.Wait()

	stats := alloc.Stats()
	assert.EqualValues(t, goroutines*perGoroutine, stats.Allocations)
	assert.EqualValues(t, goroutines*perGoroutine, stats.Frees)
	assert.EqualValues(t, 0, stats.LiveAllocations)
	assert.EqualValues(t, 0, stats.LiveBytes)
}

func TestSystemAllocatorResetStats(t *testing.T) {
	alloc := NewSystemAllocator(AllocatorConfig{TrackAllocations: true})

	buf := alloc.Allocate(64)
	alloc.ResetStats()
	assert.Equal(t, AllocationStats{}, alloc.Stats())

	// Outstanding allocations still deallocate cleanly after a stats reset.
	alloc.Deallocate(buf)
	assert.EqualValues(t, 1, alloc.Stats().Frees)
	assert.EqualValues(t, 64, alloc.Stats().BytesFreed)
}

func TestArenaAllocatorLifecycle(t *testing.T) {
	alloc := NewArenaAllocator(1024, 64, AllocatorConfig{TrackAllocations: true})

	buf := alloc.Allocate(100)
	require.NotNil(t, buf)
	assert.True(t, alloc.Owns(unsafe.Pointer(&buf[0])))
	assert.EqualValues(t, 1, alloc.Stats().LiveAllocations)

	// Deallocate is bookkeeping only; the arena space is not reclaimed.
	usedBefore := alloc.Arena().Used()
	alloc.Deallocate(buf)
	assert.Equal(t, usedBefore, alloc.Arena().Used())
	assert.EqualValues(t, 0, alloc.Stats().LiveAllocations)
	assert.EqualValues(t, 1, alloc.Stats().Frees)
}

func TestArenaAllocatorReset(t *testing.T) {
	alloc := NewArenaAllocator(512, 16, AllocatorConfig{TrackAllocations: true})

	first := alloc.Allocate(64)
	require.NotNil(t, first)
	p := unsafe.Pointer(&first[0])

	alloc.Reset()
	assert.EqualValues(t, 0, alloc.Arena().Used())
	assert.False(t, alloc.Owns(p), "reset invalidates the live set")

	stats := alloc.Stats()
	assert.EqualValues(t, 1, stats.Allocations, "cumulative counters survive reset")
	assert.EqualValues(t, 0, stats.LiveAllocations)
	assert.EqualValues(t, 0, stats.LiveBytes)
}

func TestArenaAllocatorExhaustion(t *testing.T) {
	alloc := NewArenaAllocator(128, 16, AllocatorConfig{})

	require.NotNil(t, alloc.Allocate(100))
	assert.Nil(t, alloc.Allocate(100))

	alloc.Reset()
	assert.NotNil(t, alloc.Allocate(100))
}

func TestArenaAllocatorReallocateUnsupported(t *testing.T) {
	alloc := NewArenaAllocator(256, 16, AllocatorConfig{})

	buf := alloc.Allocate(32)
	require.NotNil(t, buf)
	assert.Nil(t, alloc.Reallocate(buf, 64))
}

func TestArenaAllocatorUntrackedOwns(t *testing.T) {
	alloc := NewArenaAllocator(256, 16, AllocatorConfig{})

	buf := alloc.Allocate(32)
	require.NotNil(t, buf)
	assert.True(t, alloc.Owns(unsafe.Pointer(&buf[0])), "falls back to the arena address range")

	outside := make([]byte, 32)
	assert.False(t, alloc.Owns(unsafe.Pointer(&outside[0])))
}
