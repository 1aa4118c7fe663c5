// Copyright 2026 Spindle ML Runtime. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package memory provides the public allocation API of the Spindle
// inference runtime: a bump arena for transient per-inference memory,
// pluggable allocator backends with optional tracking, and guarded raw
// buffers.
//
// Example:
//
//	alloc := memory.NewArenaAllocator(1<<20, 64, memory.AllocatorConfig{})
//	buf := alloc.Allocate(4096)
//	// ... run one inference ...
//	alloc.Reset() // reclaim everything at once
package memory

import (
	"github.com/spindle-ml/spindle/internal/memory"
)

// Arena is a bump allocator over a single pre-allocated buffer.
type Arena = memory.Arena

// ArenaStats counts allocations within one arena cycle.
type ArenaStats = memory.ArenaStats

// Allocator is the pluggable allocation boundary used by tensors and
// buffers.
type Allocator = memory.Allocator

// AllocatorConfig configures an allocator backend.
type AllocatorConfig = memory.AllocatorConfig

// AllocationStats are the counters maintained by tracking allocators.
type AllocationStats = memory.AllocationStats

// SystemAllocator serves allocations from the Go heap.
type SystemAllocator = memory.SystemAllocator

// ArenaAllocator adapts an Arena to the Allocator interface.
type ArenaAllocator = memory.ArenaAllocator

// Buffer is a raw memory region with ownership semantics and optional
// canary guards.
type Buffer = memory.Buffer

// Constructors.
var (
	NewArena           = memory.NewArena
	NewSystemAllocator = memory.NewSystemAllocator
	NewArenaAllocator  = memory.NewArenaAllocator
	NewBuffer          = memory.NewBuffer
	NewBufferFromBytes = memory.NewBufferFromBytes
)

// Sentinel errors.
var (
	ErrBadAlignment       = memory.ErrBadAlignment
	ErrInvalidSize        = memory.ErrInvalidSize
	ErrOutOfMemory        = memory.ErrOutOfMemory
	ErrReallocUnsupported = memory.ErrReallocUnsupported
)
