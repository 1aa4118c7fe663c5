package graph

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/emirpasic/gods/v2/sets/linkedhashset"

	"github.com/spindle-ml/spindle/internal/tensor"
)

// nextValueID is the process-wide id counter shared by values and nodes.
var nextValueID atomic.Uint64

func allocateID() uint64 {
	return nextValueID.Add(1)
}

// Value is a typed edge in the dataflow graph: shape and dtype metadata,
// a producing node, an ordered set of consuming nodes, and a transient
// non-owning tensor binding used during execution.
type Value struct {
	id    uint64
	name  string
	shape tensor.Shape
	dtype tensor.DataType
	quant *tensor.QuantizationParams

	producer  *Node
	consumers *linkedhashset.Set[*Node]

	bound *tensor.Tensor // non-owning, set during execution
}

// NewValue creates a detached value with the given metadata. Values are
// normally created through Graph.CreateValue, which also records ownership.
func NewValue(name string, shape tensor.Shape, dtype tensor.DataType) *Value {
	return &Value{
		id:        allocateID(),
		name:      name,
		shape:     shape.Clone(),
		dtype:     dtype,
		consumers: linkedhashset.New[*Node](),
	}
}

// ID returns the value's unique id.
func (v *Value) ID() uint64 {
	return v.id
}

// Name returns the value's name.
func (v *Value) Name() string {
	return v.name
}

// SetName renames the value.
func (v *Value) SetName(name string) {
	v.name = name
}

// Shape returns the declared shape.
func (v *Value) Shape() tensor.Shape {
	return v.shape
}

// SetShape replaces the declared shape.
func (v *Value) SetShape(shape tensor.Shape) {
	v.shape = shape.Clone()
}

// DType returns the declared element type.
func (v *Value) DType() tensor.DataType {
	return v.dtype
}

// SetDType replaces the declared element type.
func (v *Value) SetDType(dtype tensor.DataType) {
	v.dtype = dtype
}

// NumElements returns the element count implied by the declared shape.
func (v *Value) NumElements() int64 {
	return v.shape.NumElements()
}

// ByteSize returns the byte size implied by the declared metadata, or 0
// when the dtype is unknown.
func (v *Value) ByteSize() int64 {
	return v.NumElements() * int64(v.dtype.Size())
}

// QuantParams returns the quantization parameters, or nil for
// non-quantized values.
func (v *Value) QuantParams() *tensor.QuantizationParams {
	return v.quant
}

// SetQuantParams attaches quantization parameters.
func (v *Value) SetQuantParams(params *tensor.QuantizationParams) {
	v.quant = params
}

// IsQuantized reports whether quantization parameters are attached.
func (v *Value) IsQuantized() bool {
	return v.quant != nil
}

// Producer returns the node producing this value, or nil.
func (v *Value) Producer() *Node {
	return v.producer
}

// SetProducer overwrites the producer link. Callers maintain the inverse
// link on the previous producer.
func (v *Value) SetProducer(n *Node) {
	v.producer = n
}

// Consumers returns the consuming nodes in insertion order.
func (v *Value) Consumers() []*Node {
	return v.consumers.Values()
}

// NumConsumers returns the number of distinct consumers.
func (v *Value) NumConsumers() int {
	return v.consumers.Size()
}

// AddConsumer records n as a consumer. Insertion is idempotent and
// preserves first-insertion order.
func (v *Value) AddConsumer(n *Node) {
	if n == nil {
		return
	}
	v.consumers.Add(n)
}

// RemoveConsumer removes n from the consumer set.
func (v *Value) RemoveConsumer(n *Node) {
	v.consumers.Remove(n)
}

// HasConsumer reports whether n consumes this value.
func (v *Value) HasConsumer(n *Node) bool {
	return v.consumers.Contains(n)
}

// Tensor returns the bound tensor, or nil outside execution.
func (v *Value) Tensor() *tensor.Tensor {
	return v.bound
}

// SetTensor binds t to the value without taking ownership.
func (v *Value) SetTensor(t *tensor.Tensor) {
	v.bound = t
}

// ClearTensor drops the tensor binding.
func (v *Value) ClearTensor() {
	v.bound = nil
}

// HasTensor reports whether a tensor is currently bound.
func (v *Value) HasTensor() bool {
	return v.bound != nil
}

// DebugString renders the value's metadata and edge summary.
func (v *Value) DebugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Value(id=%d, name=%q, shape=%v, dtype=%s", v.id, v.name, v.shape, v.dtype)
	if v.IsQuantized() {
		sb.WriteString(", quantized")
	}
	if v.producer != nil {
		fmt.Fprintf(&sb, ", producer=%s", v.producer.Name())
	}
	fmt.Fprintf(&sb, ", consumers=%d", v.consumers.Size())
	if v.bound != nil {
		sb.WriteString(", bound")
	}
	sb.WriteByte(')')
	return sb.String()
}
