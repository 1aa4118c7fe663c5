package memory

import "errors"

// Common errors.
var (
	ErrBadAlignment       = errors.New("alignment must be a power of two")
	ErrInvalidSize        = errors.New("size must be positive")
	ErrOutOfMemory        = errors.New("allocation failed")
	ErrReallocUnsupported = errors.New("reallocation not supported by this backend")
)
