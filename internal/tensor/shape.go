package tensor

import "fmt"

// Shape represents the dimensions of a tensor. The zero-length shape is a
// scalar with one element.
type Shape []int64

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements. A scalar has 1 element.
func (s Shape) NumElements() int64 {
	n := int64(1)
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Dim returns the size of dimension i.
func (s Shape) Dim(i int) int64 {
	return s[i]
}

// Validate checks that every dimension is positive. The empty (scalar)
// shape is valid.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: dimension %d is %d", ErrInvalidDims, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Squeeze removes dimensions of size 1. If axis is -1, all unit dimensions
// are removed. Otherwise only the given axis is removed; negative axes are
// resolved by adding the rank. Squeezing a non-unit axis is an error.
func (s Shape) Squeeze(axis int) (Shape, error) {
	if axis == -1 {
		result := make(Shape, 0, len(s))
		for _, dim := range s {
			if dim != 1 {
				result = append(result, dim)
			}
		}
		return result, nil
	}

	if axis < 0 {
		axis += len(s)
	}
	if axis < 0 || axis >= len(s) {
		return nil, fmt.Errorf("%w: squeeze axis %d for rank %d", ErrInvalidAxis, axis, len(s))
	}
	if s[axis] != 1 {
		return nil, fmt.Errorf("%w: axis %d has size %d", ErrSqueezeNonUnitAxis, axis, s[axis])
	}

	result := make(Shape, 0, len(s)-1)
	result = append(result, s[:axis]...)
	result = append(result, s[axis+1:]...)
	return result, nil
}

// Unsqueeze inserts a dimension of size 1 at the given axis. Negative axes
// are resolved by adding rank+1, so the valid range is [-(rank+1), rank].
func (s Shape) Unsqueeze(axis int) (Shape, error) {
	if axis < 0 {
		axis += len(s) + 1
	}
	if axis < 0 || axis > len(s) {
		return nil, fmt.Errorf("%w: unsqueeze axis %d for rank %d", ErrInvalidAxis, axis, len(s))
	}

	result := make(Shape, 0, len(s)+1)
	result = append(result, s[:axis]...)
	result = append(result, 1)
	result = append(result, s[axis:]...)
	return result, nil
}

// CanReshape reports whether two shapes are compatible for reshape, i.e.
// they hold the same number of elements.
func CanReshape(from, to Shape) bool {
	return from.NumElements() == to.NumElements()
}

// Broadcast computes the result shape of broadcasting a against b.
//
// Dimensions are compared right-aligned; each pair must be equal or one of
// them must be 1. Missing leading dimensions are treated as 1.
func Broadcast(a, b Shape) (Shape, error) {
	rank := len(a)
	if len(b) > rank {
		rank = len(b)
	}

	result := make(Shape, rank)
	for i := 0; i < rank; i++ {
		dimA := int64(1)
		if idx := len(a) - rank + i; idx >= 0 {
			dimA = a[idx]
		}
		dimB := int64(1)
		if idx := len(b) - rank + i; idx >= 0 {
			dimB = b[idx]
		}

		if dimA != dimB && dimA != 1 && dimB != 1 {
			return nil, fmt.Errorf("%w: %v vs %v (axis %d: %d vs %d)",
				ErrIncompatibleShapes, a, b, i, dimA, dimB)
		}
		if dimA > dimB {
			result[i] = dimA
		} else {
			result[i] = dimB
		}
	}
	return result, nil
}

// BroadcastWith computes the broadcast of s against other.
func (s Shape) BroadcastWith(other Shape) (Shape, error) {
	return Broadcast(s, other)
}

// Strides calculates row-major element strides for the shape.
// For [2, 3, 4] the strides are [12, 4, 1].
func (s Shape) Strides() []int64 {
	if len(s) == 0 {
		return nil
	}
	strides := make([]int64, len(s))
	stride := int64(1)
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// Flatten returns the 1-D shape holding the same number of elements.
func (s Shape) Flatten() Shape {
	return Shape{s.NumElements()}
}

// Flatten2D returns the [batch, -1] shape used before fully connected
// layers. The element count must be divisible by batch.
func (s Shape) Flatten2D(batch int64) (Shape, error) {
	elements := s.NumElements()
	if batch <= 0 || elements%batch != 0 {
		return nil, fmt.Errorf("%w: cannot flatten %d elements into batches of %d",
			ErrInvalidDims, elements, batch)
	}
	return Shape{batch, elements / batch}, nil
}
