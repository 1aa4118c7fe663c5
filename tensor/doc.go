// Copyright 2026 Spindle ML Runtime. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API of the Spindle inference
// runtime.
//
// # Overview
//
// Tensors are strided, typed views over raw byte buffers:
//   - Shape: dimension arithmetic (squeeze, broadcast, strides)
//   - DataType: element types with promotion and cast rules
//   - Tensor: shape + dtype metadata over owned or borrowed memory
//   - Quantization: symmetric int8 and asymmetric uint8 parameters
//
// # Basic Usage
//
//	import (
//	    "github.com/spindle-ml/spindle/memory"
//	    "github.com/spindle-ml/spindle/tensor"
//	)
//
//	func main() {
//	    alloc := memory.NewSystemAllocator(memory.AllocatorConfig{})
//	    t, err := tensor.NewAllocated(tensor.Shape{2, 3}, tensor.Float32, alloc)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer t.Release()
//
//	    data := t.AsFloat32()
//	    data[0] = 1.5
//	}
//
// # Views
//
// Slice, Reshape and Transpose return non-owning views sharing the parent's
// storage. Views of non-contiguous layouts keep the parent's strides:
//
//	view, _ := t.Slice([]tensor.Range{{0, 2}, {1, 3}})
//	view.IsContiguous() // false
//
// Copies are always explicit; assigning a Tensor copies the handle, not the
// data.
//
// # Quantization
//
// Int8 quantization is symmetric (zero point 0, range [-127, 127]); Uint8
// is asymmetric with a zero point in [0, 255]. Per-channel parameters carry
// scale and zero-point vectors along a designated axis.
package tensor
