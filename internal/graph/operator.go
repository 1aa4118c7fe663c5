package graph

import (
	"fmt"

	"github.com/spindle-ml/spindle/internal/tensor"
)

// Operator is the capability set implemented by concrete operations.
// Implementations embed Base for the wiring and override Validate, Execute
// and Clone.
//
// Execute preconditions: every input value carries a bound tensor whose
// shape and dtype match the value's declared metadata. The operator owns
// the lifetime of any tensor it binds to its outputs; the usual pattern is
// an operator-owned buffer wrapped by a view tensor, re-sized per call.
type Operator interface {
	// Type returns the operator's type tag, e.g. "MatMul".
	Type() string

	// Inputs returns the input values in positional order.
	Inputs() []*Value

	// Outputs returns the output values in positional order.
	Outputs() []*Value

	// SetInputs replaces the input list.
	SetInputs(inputs []*Value)

	// SetOutputs replaces the output list.
	SetOutputs(outputs []*Value)

	// AddInput appends an input.
	AddInput(v *Value)

	// AddOutput appends an output.
	AddOutput(v *Value)

	// Attributes returns the operator's attribute map, never nil.
	Attributes() *AttributeMap

	// SetAttributes replaces the attribute map.
	SetAttributes(attrs *AttributeMap)

	// Validate checks the operator's structural requirements.
	Validate() error

	// Execute runs the operation, reading input tensors through the input
	// values and binding result tensors to the output values.
	Execute() error

	// Clone returns a deep copy with the same type tag and attributes.
	// Value references are not cloned; the copy starts unwired.
	Clone() Operator

	// EstimateMemoryBytes returns the operator's expected transient memory
	// use, for planning. 0 means no estimate.
	EstimateMemoryBytes() int64
}

// Base provides the operator wiring: type tag, I/O lists and attributes.
// The default Validate requires a non-empty type tag and non-nil I/O
// references; the default EstimateMemoryBytes reports no estimate.
type Base struct {
	opType  string
	inputs  []*Value
	outputs []*Value
	attrs   *AttributeMap
}

// NewBase creates the embedded wiring for an operator of the given type.
func NewBase(opType string) Base {
	return Base{opType: opType, attrs: NewAttributeMap()}
}

// Type returns the operator's type tag.
func (b *Base) Type() string {
	return b.opType
}

// Inputs returns the input values.
func (b *Base) Inputs() []*Value {
	return b.inputs
}

// Outputs returns the output values.
func (b *Base) Outputs() []*Value {
	return b.outputs
}

// SetInputs replaces the input list.
func (b *Base) SetInputs(inputs []*Value) {
	b.inputs = inputs
}

// SetOutputs replaces the output list.
func (b *Base) SetOutputs(outputs []*Value) {
	b.outputs = outputs
}

// AddInput appends an input.
func (b *Base) AddInput(v *Value) {
	b.inputs = append(b.inputs, v)
}

// AddOutput appends an output.
func (b *Base) AddOutput(v *Value) {
	b.outputs = append(b.outputs, v)
}

// Attributes returns the attribute map, allocating it on first use.
func (b *Base) Attributes() *AttributeMap {
	if b.attrs == nil {
		b.attrs = NewAttributeMap()
	}
	return b.attrs
}

// SetAttributes replaces the attribute map.
func (b *Base) SetAttributes(attrs *AttributeMap) {
	b.attrs = attrs
}

// Validate checks the structural requirements common to all operators: a
// non-empty type tag and no nil input or output references.
func (b *Base) Validate() error {
	if b.opType == "" {
		return ErrEmptyOpType
	}
	for i, in := range b.inputs {
		if in == nil {
			return fmt.Errorf("%w: %s input %d", ErrNilValue, b.opType, i)
		}
	}
	for i, out := range b.outputs {
		if out == nil {
			return fmt.Errorf("%w: %s output %d", ErrNilValue, b.opType, i)
		}
	}
	return nil
}

// EstimateMemoryBytes reports no estimate.
func (b *Base) EstimateMemoryBytes() int64 {
	return 0
}

// CloneBase copies the wiring for use by concrete Clone implementations.
// Attributes are deep-copied; value references are dropped so the clone
// starts unwired.
func (b *Base) CloneBase() Base {
	clone := Base{opType: b.opType}
	if b.attrs != nil {
		clone.attrs = b.attrs.Clone()
	} else {
		clone.attrs = NewAttributeMap()
	}
	return clone
}

// CheckInputsBound verifies the Execute precondition that every input
// value has a bound tensor matching its declared metadata. Concrete
// operators call it at the top of Execute.
func CheckInputsBound(op Operator) error {
	for i, in := range op.Inputs() {
		if in == nil {
			return fmt.Errorf("%w: %s input %d", ErrNilValue, op.Type(), i)
		}
		t := in.Tensor()
		if t == nil {
			return fmt.Errorf("%w: %s input %q", ErrUnboundTensor, op.Type(), in.Name())
		}
		if !t.Shape().Equal(in.Shape()) || t.DType() != in.DType() {
			return fmt.Errorf("%w: %s input %q declared %v/%s, bound %v/%s",
				tensor.ErrShapeMismatch, op.Type(), in.Name(), in.Shape(), in.DType(), t.Shape(), t.DType())
		}
	}
	return nil
}
