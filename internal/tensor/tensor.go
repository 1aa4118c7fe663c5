package tensor

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/x448/float16"

	"github.com/spindle-ml/spindle/internal/memory"
)

// Range selects [Start, End) along one axis. Negative indices are resolved
// by adding the axis size.
type Range struct {
	Start int64
	End   int64
}

// Tensor is a multi-dimensional array: shape and dtype metadata, byte
// strides, and a data region that may be owned, borrowed, or absent.
//
// Views created by Slice, Reshape and Transpose share the parent's storage
// and never own it. ShallowClone gives the same non-owning sharing for
// whole tensors; deep copies are always explicit.
type Tensor struct {
	shape   Shape
	dtype   DataType
	data    []byte // nil when metadata-only
	owns    bool
	strides []int64 // bytes per axis
	quant   QuantParams
	alloc   memory.Allocator // set when construction allocated, for Release
}

// New creates a metadata-only tensor with no backing data.
func New(shape Shape, dtype DataType) *Tensor {
	t := &Tensor{shape: shape.Clone(), dtype: dtype, quant: DefaultQuantParams()}
	t.ComputeStrides()
	return t
}

// NewAllocated creates a tensor whose data is served by alloc. The tensor
// owns the allocation and releases it through the same allocator.
func NewAllocated(shape Shape, dtype DataType, alloc memory.Allocator) (*Tensor, error) {
	t := New(shape, dtype)
	if alloc == nil || t.NumElements() == 0 {
		return t, nil
	}
	data := alloc.Allocate(t.ByteSize())
	if data == nil {
		return nil, fmt.Errorf("%w: %d bytes for %s", memory.ErrOutOfMemory, t.ByteSize(), t)
	}
	t.data = data
	t.owns = true
	t.alloc = alloc
	return t, nil
}

// NewFromBytes wraps existing memory. The caller manages the data's
// lifetime unless owns is set.
func NewFromBytes(shape Shape, dtype DataType, data []byte, owns bool) *Tensor {
	t := New(shape, dtype)
	t.data = data
	t.owns = owns
	return t
}

// NewQuantized wraps existing memory with per-tensor quantization
// parameters attached.
func NewQuantized(shape Shape, dtype DataType, data []byte, params QuantParams, owns bool) *Tensor {
	t := NewFromBytes(shape, dtype, data, owns)
	t.quant = params
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return t.shape.Rank()
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int64 {
	return t.shape.Dim(i)
}

// DType returns the element type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// ElementSize returns the byte size of one element.
func (t *Tensor) ElementSize() int64 {
	return int64(t.dtype.Size())
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int64 {
	return t.shape.NumElements()
}

// ByteSize returns NumElements times the element size.
func (t *Tensor) ByteSize() int64 {
	return t.NumElements() * t.ElementSize()
}

// IsEmpty reports whether the tensor holds zero elements.
func (t *Tensor) IsEmpty() bool {
	return t.NumElements() == 0
}

// Data returns the raw byte region starting at this tensor's first
// element. For views the region extends to the end of the parent storage.
func (t *Tensor) Data() []byte {
	return t.data
}

// SetData replaces the data region, releasing currently owned memory
// first. The tensor takes ownership when owns is set.
func (t *Tensor) SetData(data []byte, owns bool) {
	if t.owns && t.data != nil {
		t.Release()
	}
	t.data = data
	t.owns = owns
}

// OwnsData reports whether the tensor releases its data.
func (t *Tensor) OwnsData() bool {
	return t.owns
}

// Strides returns per-axis strides in bytes.
func (t *Tensor) Strides() []int64 {
	return t.strides
}

// Stride returns the byte stride of the given axis, or 0 when out of
// range.
func (t *Tensor) Stride(axis int) int64 {
	if axis < 0 || axis >= len(t.strides) {
		return 0
	}
	return t.strides[axis]
}

// ComputeStrides resets the strides to the row-major layout implied by the
// shape and element size.
func (t *Tensor) ComputeStrides() {
	if t.Rank() == 0 {
		t.strides = nil
		return
	}
	t.strides = make([]int64, t.Rank())
	stride := t.ElementSize()
	for i := t.Rank() - 1; i >= 0; i-- {
		t.strides[i] = stride
		stride *= t.shape[i]
	}
}

// IsContiguous reports whether the strides match the row-major layout.
// Rank-0 and zero-size tensors are contiguous.
func (t *Tensor) IsContiguous() bool {
	if t.Rank() == 0 || t.NumElements() == 0 {
		return true
	}
	expected := t.ElementSize()
	for i := t.Rank() - 1; i >= 0; i-- {
		if t.Stride(i) != expected {
			return false
		}
		expected *= t.shape[i]
	}
	return true
}

// IsQuantized reports whether the element type is quantized.
func (t *Tensor) IsQuantized() bool {
	return t.dtype.IsQuantized()
}

// QuantParams returns the per-tensor quantization parameters.
func (t *Tensor) QuantParams() QuantParams {
	return t.quant
}

// SetQuantParams replaces the quantization parameters.
func (t *Tensor) SetQuantParams(params QuantParams) {
	t.quant = params
}

// Slice creates a non-owning view selecting ranges[i] along axis i. The
// view keeps the parent's strides, so it is generally non-contiguous.
func (t *Tensor) Slice(ranges []Range) (*Tensor, error) {
	if len(ranges) != t.Rank() {
		return nil, fmt.Errorf("%w: %d ranges for rank %d", ErrInvalidSliceRange, len(ranges), t.Rank())
	}

	newDims := make(Shape, 0, t.Rank())
	offset := int64(0)
	for i, r := range ranges {
		dimSize := t.Dim(i)
		start, end := r.Start, r.End
		if start < 0 {
			start += dimSize
		}
		if end < 0 {
			end += dimSize
		}
		if start < 0 || start > dimSize || end < 0 || end > dimSize || start > end {
			return nil, fmt.Errorf("%w: axis %d range [%d, %d) of %d", ErrInvalidSliceRange, i, r.Start, r.End, dimSize)
		}
		newDims = append(newDims, end-start)
		offset += start * t.Stride(i)
	}

	view := &Tensor{
		shape:   newDims,
		dtype:   t.dtype,
		data:    t.data[offset:],
		strides: append([]int64(nil), t.strides...),
		quant:   t.quant,
	}
	return view, nil
}

// Reshape creates a non-owning view with a new shape. The tensor must be
// contiguous and the element counts must match; the view's strides are
// recomputed for the new shape.
func (t *Tensor) Reshape(newShape Shape) (*Tensor, error) {
	if newShape.NumElements() != t.NumElements() {
		return nil, fmt.Errorf("%w: %d vs %d elements", ErrShapeMismatch, t.NumElements(), newShape.NumElements())
	}
	if !t.IsContiguous() {
		return nil, fmt.Errorf("%w: reshape requires contiguous layout", ErrNotContiguous)
	}

	view := &Tensor{shape: newShape.Clone(), dtype: t.dtype, data: t.data, quant: t.quant}
	view.ComputeStrides()
	return view, nil
}

// Transpose creates a non-owning view with dimensions permuted by axes,
// which must be a permutation of [0, rank).
func (t *Tensor) Transpose(axes []int) (*Tensor, error) {
	if len(axes) != t.Rank() {
		return nil, fmt.Errorf("%w: %d axes for rank %d", ErrInvalidPermutation, len(axes), t.Rank())
	}
	seen := make([]bool, t.Rank())
	for _, axis := range axes {
		if axis < 0 || axis >= t.Rank() || seen[axis] {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPermutation, axes)
		}
		seen[axis] = true
	}

	newDims := make(Shape, 0, t.Rank())
	newStrides := make([]int64, 0, t.Rank())
	for _, axis := range axes {
		newDims = append(newDims, t.Dim(axis))
		newStrides = append(newStrides, t.Stride(axis))
	}

	return &Tensor{
		shape:   newDims,
		dtype:   t.dtype,
		data:    t.data,
		strides: newStrides,
		quant:   t.quant,
	}, nil
}

// ShallowClone returns a non-owning handle sharing this tensor's storage.
func (t *Tensor) ShallowClone() *Tensor {
	return &Tensor{
		shape:   t.shape.Clone(),
		dtype:   t.dtype,
		data:    t.data,
		strides: append([]int64(nil), t.strides...),
		quant:   t.quant,
	}
}

// Release deallocates owned data through the allocator used at
// construction and leaves the tensor empty. Releasing a non-owning tensor
// only drops the data reference.
func (t *Tensor) Release() {
	if t.owns && t.data != nil && t.alloc != nil {
		t.alloc.Deallocate(t.data)
	}
	t.data = nil
	t.owns = false
	t.alloc = nil
}

// Validate checks tensor consistency: non-empty tensors need data, the
// dtype must be known, strides must cover every axis, and quantized
// tensors need a positive scale.
func (t *Tensor) Validate() error {
	if t.IsEmpty() {
		return nil
	}
	if t.data == nil {
		return fmt.Errorf("%w: tensor with %d elements has no data", ErrInvalidDims, t.NumElements())
	}
	if t.dtype == Unknown {
		return ErrUnknownDType
	}
	if len(t.strides) != t.Rank() {
		return fmt.Errorf("%w: %d strides for rank %d", ErrInvalidDims, len(t.strides), t.Rank())
	}
	if t.IsQuantized() && t.quant.Scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrNonPositiveScale, t.quant.Scale)
	}
	return nil
}

// String returns a one-line description of the tensor's metadata.
func (t *Tensor) String() string {
	var sb strings.Builder
	sb.WriteString("Tensor(shape=[")
	for i, dim := range t.shape {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", dim)
	}
	fmt.Fprintf(&sb, "], dtype=%s, elements=%d, bytes=%d, contiguous=%t, owns_data=%t",
		t.dtype, t.NumElements(), t.ByteSize(), t.IsContiguous(), t.owns)
	if t.IsQuantized() {
		fmt.Fprintf(&sb, ", scale=%v, zp=%d", t.quant.Scale, t.quant.ZeroPoint)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t *Tensor) checkAccess(want DataType) {
	if t.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", t.dtype, want))
	}
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	t.checkAccess(Float32)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (t *Tensor) AsFloat16() []float16.Float16 {
	t.checkAccess(Float16)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt8 interprets the data as []int8.
// Panics if the tensor's dtype is not Int8.
func (t *Tensor) AsInt8() []int8 {
	t.checkAccess(Int8)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int8)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt16 interprets the data as []int16.
// Panics if the tensor's dtype is not Int16.
func (t *Tensor) AsInt16() []int16 {
	t.checkAccess(Int16)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int16)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	t.checkAccess(Int32)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (t *Tensor) AsInt64() []int64 {
	t.checkAccess(Int64)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (t *Tensor) AsUint8() []uint8 {
	t.checkAccess(Uint8)
	return t.data[:t.NumElements()]
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (t *Tensor) AsBool() []bool {
	t.checkAccess(Bool)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*bool)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// ShapesMatch reports whether two tensors have the same shape and dtype.
func ShapesMatch(a, b *Tensor) bool {
	return a.shape.Equal(b.shape) && a.dtype == b.dtype
}

// IsScalar reports whether the tensor holds exactly one element.
func IsScalar(t *Tensor) bool {
	return t.NumElements() == 1
}

// IsVector reports whether the tensor is 1-D.
func IsVector(t *Tensor) bool {
	return t.Rank() == 1
}

// IsMatrix reports whether the tensor is 2-D.
func IsMatrix(t *Tensor) bool {
	return t.Rank() == 2
}
