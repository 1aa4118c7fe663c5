// Package tensor provides the core tensor types for the Spindle inference runtime:
// element data types, shapes, quantization parameters, and strided tensor views.
package tensor

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types. The numeric values are part of the runtime's
// stable encoding and must not be reordered.
const (
	Unknown DataType = iota
	Float32
	Float16
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Bool
)

// Size returns the byte size of one element, or 0 for Unknown.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32, Uint32:
		return 4
	case Float16, Int16, Uint16:
		return 2
	case Int64, Uint64:
		return 8
	case Int8, Uint8, Bool:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the known element types.
func (dt DataType) Valid() bool {
	return dt > Unknown && dt <= Bool
}

// IsFloating reports whether dt is a floating-point type.
func (dt DataType) IsFloating() bool {
	return dt == Float16 || dt == Float32
}

// IsInteger reports whether dt is an integer type (signed or unsigned).
func (dt DataType) IsInteger() bool {
	switch dt {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether dt is a signed integer type.
func (dt DataType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether dt is an unsigned integer type. Bool counts as
// unsigned, matching its one-byte 0/1 representation.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case Uint8, Uint16, Uint32, Uint64, Bool:
		return true
	default:
		return false
	}
}

// IsBool reports whether dt is the boolean type.
func (dt DataType) IsBool() bool {
	return dt == Bool
}

// IsQuantized reports whether dt is a quantized element type (Int8 or Uint8).
func (dt DataType) IsQuantized() bool {
	return dt == Int8 || dt == Uint8
}

// CanCast reports whether an element of type from can be converted to type to.
// Identity, float<->float, int<->int and float<->int conversions are allowed,
// and Bool converts to and from any known type.
func CanCast(from, to DataType) bool {
	if from == to {
		return true
	}
	if from.IsFloating() && to.IsFloating() {
		return true
	}
	if from.IsInteger() && to.IsInteger() {
		return true
	}
	if from.IsFloating() && to.IsInteger() {
		return true
	}
	if from.IsInteger() && to.IsFloating() {
		return true
	}
	if from == Bool {
		return to != Unknown
	}
	if to == Bool {
		return from != Unknown
	}
	return false
}

// dtypePrecedence orders types for promotion. Higher wins.
func dtypePrecedence(dt DataType) int {
	switch dt {
	case Float32:
		return 110
	case Float16:
		return 100
	case Int64:
		return 90
	case Uint64:
		return 85
	case Int32:
		return 80
	case Uint32:
		return 75
	case Int16:
		return 70
	case Uint16:
		return 65
	case Int8:
		return 60
	case Uint8:
		return 55
	case Bool:
		return 10
	default:
		return 0
	}
}

// Promote returns the common type two operands should be converted to.
// Promotion with Unknown yields Unknown.
func Promote(a, b DataType) DataType {
	if a == b {
		return a
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	if dtypePrecedence(a) > dtypePrecedence(b) {
		return a
	}
	return b
}

// AlignmentRequirement returns the preferred buffer alignment in bytes for
// elements of type dt. Wide elements get 32-byte alignment for vectorized
// kernels; everything else gets 16.
func AlignmentRequirement(dt DataType) int {
	if dt.Size() >= 4 {
		return 32
	}
	return 16
}
