package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindle-ml/spindle/internal/tensor"
)

func TestValueIDsMonotonic(t *testing.T) {
	a := NewValue("a", tensor.Shape{2}, tensor.Float32)
	b := NewValue("b", tensor.Shape{2}, tensor.Float32)
	assert.Greater(t, b.ID(), a.ID())
}

func TestValueMetadata(t *testing.T) {
	v := NewValue("act", tensor.Shape{2, 3}, tensor.Float32)

	assert.Equal(t, "act", v.Name())
	assert.EqualValues(t, 6, v.NumElements())
	assert.EqualValues(t, 24, v.ByteSize())
	assert.False(t, v.IsQuantized())

	params := tensor.NewQuantizationParams(0.1, 3)
	v.SetQuantParams(&params)
	assert.True(t, v.IsQuantized())
	assert.Equal(t, float32(0.1), v.QuantParams().Scale)
}

func TestValueConsumerSetIdempotent(t *testing.T) {
	g := New()
	v := g.CreateValue("v", tensor.Shape{2}, tensor.Float32)
	n1 := g.AddNode(nil, "n1")
	n2 := g.AddNode(nil, "n2")

	v.AddConsumer(n1)
	v.AddConsumer(n2)
	v.AddConsumer(n1) // duplicate

	require.Equal(t, 2, v.NumConsumers())
	assert.Equal(t, []*Node{n1, n2}, v.Consumers(), "insertion order preserved")
	assert.True(t, v.HasConsumer(n1))

	v.RemoveConsumer(n1)
	assert.False(t, v.HasConsumer(n1))
	assert.Equal(t, 1, v.NumConsumers())

	v.AddConsumer(nil)
	assert.Equal(t, 1, v.NumConsumers(), "nil consumers are ignored")
}

func TestValueProducerOverwrite(t *testing.T) {
	g := New()
	v := g.CreateValue("v", tensor.Shape{2}, tensor.Float32)
	n1 := g.AddNode(nil, "n1")
	n2 := g.AddNode(nil, "n2")

	v.SetProducer(n1)
	assert.Same(t, n1, v.Producer())

	// Overwrite; the inverse link on n1 is the caller's concern.
	v.SetProducer(n2)
	assert.Same(t, n2, v.Producer())
}

func TestValueTensorBinding(t *testing.T) {
	v := NewValue("v", tensor.Shape{2}, tensor.Float32)
	assert.False(t, v.HasTensor())

	bound := tensor.NewFromBytes(tensor.Shape{2}, tensor.Float32, make([]byte, 8), false)
	v.SetTensor(bound)
	assert.True(t, v.HasTensor())
	assert.Same(t, bound, v.Tensor())

	v.ClearTensor()
	assert.False(t, v.HasTensor())
	assert.Nil(t, v.Tensor())
}

func TestValueDebugString(t *testing.T) {
	g := New()
	v := g.CreateValue("act", tensor.Shape{2, 3}, tensor.Float32)
	n := g.AddNode(nil, "producer")
	n.AddOutput(v)

	s := v.DebugString()
	assert.Contains(t, s, `name="act"`)
	assert.Contains(t, s, "producer=producer")
}
