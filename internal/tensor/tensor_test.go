package tensor

import (
	"errors"
	"strings"
	"testing"

	"github.com/x448/float16"

	"github.com/spindle-ml/spindle/internal/memory"
)

func newInt32Tensor(t *testing.T, shape Shape, values []int32) *Tensor {
	t.Helper()
	tensor := New(shape, Int32)
	data := make([]byte, tensor.ByteSize())
	tensor.SetData(data, true)
	copy(tensor.AsInt32(), values)
	return tensor
}

func TestNewMetadataOnly(t *testing.T) {
	tensor := New(Shape{2, 3, 4}, Float32)

	if tensor.Data() != nil {
		t.Error("metadata-only tensor should have no data")
	}
	if tensor.NumElements() != 24 {
		t.Errorf("NumElements() = %d, want 24", tensor.NumElements())
	}
	if tensor.ByteSize() != 96 {
		t.Errorf("ByteSize() = %d, want 96", tensor.ByteSize())
	}

	wantStrides := []int64{48, 16, 4}
	for i, want := range wantStrides {
		if got := tensor.Stride(i); got != want {
			t.Errorf("Stride(%d) = %d, want %d", i, got, want)
		}
	}
	if !tensor.IsContiguous() {
		t.Error("freshly constructed tensor should be contiguous")
	}
}

func TestNewAllocated(t *testing.T) {
	alloc := memory.NewSystemAllocator(memory.AllocatorConfig{TrackAllocations: true})

	tensor, err := NewAllocated(Shape{4, 4}, Float32, alloc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tensor.OwnsData() {
		t.Error("allocated tensor should own its data")
	}
	if int64(len(tensor.Data())) != tensor.ByteSize() {
		t.Errorf("data length = %d, want %d", len(tensor.Data()), tensor.ByteSize())
	}
	if live := alloc.Stats().LiveAllocations; live != 1 {
		t.Errorf("live allocations = %d, want 1", live)
	}

	tensor.Release()
	if tensor.Data() != nil || tensor.OwnsData() {
		t.Error("release should drop data and ownership")
	}
	if live := alloc.Stats().LiveAllocations; live != 0 {
		t.Errorf("live allocations after release = %d, want 0", live)
	}

	// Release is idempotent.
	tensor.Release()
	if frees := alloc.Stats().Frees; frees != 1 {
		t.Errorf("frees after double release = %d, want 1", frees)
	}
}

func TestNewFromBytes(t *testing.T) {
	data := make([]byte, 24)
	tensor := NewFromBytes(Shape{2, 3}, Int32, data, false)

	if tensor.OwnsData() {
		t.Error("borrowed data should not be owned")
	}
	if err := tensor.Validate(); err != nil {
		t.Errorf("valid tensor rejected: %v", err)
	}
}

func TestSliceView(t *testing.T) {
	// 1  2  3
	// 4  5  6
	parent := newInt32Tensor(t, Shape{2, 3}, []int32{1, 2, 3, 4, 5, 6})

	view, err := parent.Slice([]Range{{0, 2}, {1, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !view.Shape().Equal(Shape{2, 2}) {
		t.Errorf("view shape = %v, want [2 2]", view.Shape())
	}
	if view.OwnsData() {
		t.Error("views must not own data")
	}
	if view.Stride(0) != 12 || view.Stride(1) != 4 {
		t.Errorf("view strides = [%d %d], want [12 4]", view.Stride(0), view.Stride(1))
	}
	if view.IsContiguous() {
		t.Error("column slice should be non-contiguous")
	}

	// The view starts one int32 into the parent's data.
	elems := view.AsInt32()
	if elems[0] != 2 {
		t.Errorf("view[0,0] = %d, want 2", elems[0])
	}

	// Writes through the view land in the parent.
	elems[0] = 42
	if parent.AsInt32()[1] != 42 {
		t.Errorf("parent[0,1] = %d, want 42 after view write", parent.AsInt32()[1])
	}
}

func TestSliceNegativeIndices(t *testing.T) {
	parent := newInt32Tensor(t, Shape{4}, []int32{10, 20, 30, 40})

	view, err := parent.Slice([]Range{{-3, -1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Shape().Equal(Shape{2}) {
		t.Errorf("view shape = %v, want [2]", view.Shape())
	}
	if got := view.AsInt32()[0]; got != 20 {
		t.Errorf("view[0] = %d, want 20", got)
	}
}

func TestSliceDegenerate(t *testing.T) {
	parent := newInt32Tensor(t, Shape{4}, []int32{1, 2, 3, 4})

	view, err := parent.Slice([]Range{{2, 2}})
	if err != nil {
		t.Fatalf("degenerate range should be accepted: %v", err)
	}
	if view.NumElements() != 0 {
		t.Errorf("degenerate view has %d elements, want 0", view.NumElements())
	}
}

func TestSliceErrors(t *testing.T) {
	parent := newInt32Tensor(t, Shape{2, 3}, make([]int32, 6))

	tests := []struct {
		name   string
		ranges []Range
	}{
		{"wrong rank", []Range{{0, 1}}},
		{"start past end", []Range{{2, 1}, {0, 3}}},
		{"end out of bounds", []Range{{0, 2}, {0, 4}}},
		{"negative resolves out of bounds", []Range{{-5, 2}, {0, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parent.Slice(tt.ranges); !errors.Is(err, ErrInvalidSliceRange) {
				t.Errorf("Slice(%v) error = %v, want ErrInvalidSliceRange", tt.ranges, err)
			}
		})
	}
}

func TestReshapeView(t *testing.T) {
	parent := newInt32Tensor(t, Shape{2, 3}, []int32{1, 2, 3, 4, 5, 6})

	view, err := parent.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Shape().Equal(Shape{3, 2}) {
		t.Errorf("view shape = %v, want [3 2]", view.Shape())
	}
	if !view.IsContiguous() {
		t.Error("reshape of a contiguous tensor should be contiguous")
	}
	if view.AsInt32()[3] != parent.AsInt32()[3] {
		t.Error("reshape must share storage")
	}

	if _, err := parent.Reshape(Shape{5}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("element count mismatch error = %v, want ErrShapeMismatch", err)
	}

	transposed, err := parent.Transpose([]int{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := transposed.Reshape(Shape{6}); !errors.Is(err, ErrNotContiguous) {
		t.Errorf("reshape of transposed view error = %v, want ErrNotContiguous", err)
	}
}

func TestTransposeView(t *testing.T) {
	parent := newInt32Tensor(t, Shape{2, 3}, []int32{1, 2, 3, 4, 5, 6})

	view, err := parent.Transpose([]int{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Shape().Equal(Shape{3, 2}) {
		t.Errorf("view shape = %v, want [3 2]", view.Shape())
	}
	if view.Stride(0) != 4 || view.Stride(1) != 12 {
		t.Errorf("view strides = [%d %d], want [4 12]", view.Stride(0), view.Stride(1))
	}
	if view.IsContiguous() {
		t.Error("transpose of a matrix should be non-contiguous")
	}

	if _, err := parent.Transpose([]int{0, 0}); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("repeated axis error = %v, want ErrInvalidPermutation", err)
	}
	if _, err := parent.Transpose([]int{0}); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("short permutation error = %v, want ErrInvalidPermutation", err)
	}
	if _, err := parent.Transpose([]int{0, 2}); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("out-of-range axis error = %v, want ErrInvalidPermutation", err)
	}
}

func TestShallowClone(t *testing.T) {
	parent := newInt32Tensor(t, Shape{2, 2}, []int32{1, 2, 3, 4})

	clone := parent.ShallowClone()
	if clone.OwnsData() {
		t.Error("shallow clone must not own data")
	}
	clone.AsInt32()[0] = 99
	if parent.AsInt32()[0] != 99 {
		t.Error("shallow clone must share storage")
	}

	// Metadata is independent.
	clone.Shape()[0] = 7
	if parent.Dim(0) != 2 {
		t.Error("clone shape mutation leaked into parent")
	}
}

func TestAsFloat16(t *testing.T) {
	tensor := New(Shape{2}, Float16)
	tensor.SetData(make([]byte, tensor.ByteSize()), true)

	elems := tensor.AsFloat16()
	elems[0] = float16.Fromfloat32(1.5)
	elems[1] = float16.Fromfloat32(-0.25)

	if got := elems[0].Float32(); got != 1.5 {
		t.Errorf("elems[0] = %v, want 1.5", got)
	}
	if got := elems[1].Float32(); got != -0.25 {
		t.Errorf("elems[1] = %v, want -0.25", got)
	}
}

func TestAccessorDTypeMismatchPanics(t *testing.T) {
	tensor := newInt32Tensor(t, Shape{2}, []int32{1, 2})

	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on an int32 tensor should panic")
		}
	}()
	tensor.AsFloat32()
}

func TestValidate(t *testing.T) {
	noData := New(Shape{2, 2}, Float32)
	if err := noData.Validate(); err == nil {
		t.Error("non-empty tensor without data should fail validation")
	}

	quantized := NewQuantized(Shape{2}, Int8, make([]byte, 2), QuantParams{Scale: 0}, false)
	if err := quantized.Validate(); !errors.Is(err, ErrNonPositiveScale) {
		t.Errorf("quantized tensor with zero scale error = %v, want ErrNonPositiveScale", err)
	}

	quantized.SetQuantParams(QuantParams{Scale: 0.1, ZeroPoint: 0})
	if err := quantized.Validate(); err != nil {
		t.Errorf("valid quantized tensor rejected: %v", err)
	}
}

func TestString(t *testing.T) {
	tensor := newInt32Tensor(t, Shape{2, 3}, make([]int32, 6))
	s := tensor.String()
	for _, want := range []string{"shape=[2,3]", "dtype=int32", "elements=6", "contiguous=true"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestPredicates(t *testing.T) {
	scalar := New(Shape{}, Float32)
	vector := New(Shape{3}, Float32)
	matrix := New(Shape{2, 3}, Float32)

	if !IsScalar(scalar) || IsScalar(matrix) {
		t.Error("IsScalar misclassified")
	}
	if !IsVector(vector) || IsVector(matrix) {
		t.Error("IsVector misclassified")
	}
	if !IsMatrix(matrix) || IsMatrix(vector) {
		t.Error("IsMatrix misclassified")
	}
	if !ShapesMatch(matrix, New(Shape{2, 3}, Float32)) {
		t.Error("matching tensors reported as mismatched")
	}
	if ShapesMatch(matrix, New(Shape{2, 3}, Int32)) {
		t.Error("dtype mismatch should fail ShapesMatch")
	}
}
