// Copyright 2026 Spindle ML Runtime. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/spindle-ml/spindle/internal/tensor"
)

// Type aliases for the public API.

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Unknown DataType = tensor.Unknown
	Float32 DataType = tensor.Float32
	Float16 DataType = tensor.Float16
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
	Uint32  DataType = tensor.Uint32
	Uint64  DataType = tensor.Uint64
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3-D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a strided, typed view over a byte buffer.
type Tensor = tensor.Tensor

// Range selects [Start, End) along one axis when slicing.
type Range = tensor.Range

// QuantParams holds per-tensor scale and zero point.
type QuantParams = tensor.QuantParams

// QuantizationParams describes per-tensor or per-channel quantization.
type QuantizationParams = tensor.QuantizationParams

// Constructors.
var (
	New          = tensor.New
	NewAllocated = tensor.NewAllocated
	NewFromBytes = tensor.NewFromBytes
	NewQuantized = tensor.NewQuantized
)

// Shape and dtype helpers.
var (
	Broadcast            = tensor.Broadcast
	CanReshape           = tensor.CanReshape
	CanCast              = tensor.CanCast
	Promote              = tensor.Promote
	AlignmentRequirement = tensor.AlignmentRequirement
)

// Tensor predicates.
var (
	ShapesMatch = tensor.ShapesMatch
	IsScalar    = tensor.IsScalar
	IsVector    = tensor.IsVector
	IsMatrix    = tensor.IsMatrix
)

// Quantization.
var (
	DefaultQuantParams              = tensor.DefaultQuantParams
	NewQuantizationParams           = tensor.NewQuantizationParams
	QuantizeSymmetricInt8           = tensor.QuantizeSymmetricInt8
	QuantizeAsymmetricUint8         = tensor.QuantizeAsymmetricUint8
	DequantizeSymmetricInt8         = tensor.DequantizeSymmetricInt8
	DequantizeAsymmetricUint8       = tensor.DequantizeAsymmetricUint8
	CalculateSymmetricQuantParams   = tensor.CalculateSymmetricQuantParams
	CalculateAsymmetricQuantParams  = tensor.CalculateAsymmetricQuantParams
	CalculatePerChannelQuantParams  = tensor.CalculatePerChannelQuantParams
	QuantizeBufferSymmetricInt8     = tensor.QuantizeBufferSymmetricInt8
	QuantizeBufferAsymmetricUint8   = tensor.QuantizeBufferAsymmetricUint8
	DequantizeBufferSymmetricInt8   = tensor.DequantizeBufferSymmetricInt8
	DequantizeBufferAsymmetricUint8 = tensor.DequantizeBufferAsymmetricUint8
)

// Sentinel errors.
var (
	ErrInvalidDims        = tensor.ErrInvalidDims
	ErrInvalidAxis        = tensor.ErrInvalidAxis
	ErrSqueezeNonUnitAxis = tensor.ErrSqueezeNonUnitAxis
	ErrIncompatibleShapes = tensor.ErrIncompatibleShapes
	ErrShapeMismatch      = tensor.ErrShapeMismatch
	ErrInvalidSliceRange  = tensor.ErrInvalidSliceRange
	ErrInvalidPermutation = tensor.ErrInvalidPermutation
	ErrNotContiguous      = tensor.ErrNotContiguous
	ErrNonPositiveScale   = tensor.ErrNonPositiveScale
	ErrInvalidQuantRange  = tensor.ErrInvalidQuantRange
	ErrUnknownDType       = tensor.ErrUnknownDType
)
