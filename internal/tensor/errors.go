package tensor

import "errors"

// Common errors.
var (
	ErrInvalidDims        = errors.New("shape has invalid dimensions")
	ErrInvalidAxis        = errors.New("axis out of range")
	ErrSqueezeNonUnitAxis = errors.New("can only squeeze axes of size 1")
	ErrIncompatibleShapes = errors.New("shapes cannot be broadcast together")
	ErrShapeMismatch      = errors.New("element counts do not match")
	ErrInvalidSliceRange  = errors.New("invalid slice range")
	ErrInvalidPermutation = errors.New("axes are not a permutation")
	ErrNotContiguous      = errors.New("tensor is not contiguous")
	ErrNonPositiveScale   = errors.New("quantization scale must be positive")
	ErrInvalidQuantRange  = errors.New("invalid quantization range")
	ErrUnknownDType       = errors.New("unknown data type")
)
