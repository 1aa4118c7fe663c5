package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spindle-ml/spindle/internal/tensor"
)

// Model is a thin handle around a graph: a unique instance id plus the
// inference entry point.
type Model struct {
	id    uuid.UUID
	name  string
	graph *Graph
}

// NewModel wraps g. A nil graph gets an empty one so the handle is always
// usable.
func NewModel(name string, g *Graph) *Model {
	if g == nil {
		g = New()
	}
	return &Model{id: uuid.New(), name: name, graph: g}
}

// ID returns the model instance id.
func (m *Model) ID() uuid.UUID {
	return m.id
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Graph returns the underlying graph.
func (m *Model) Graph() *Graph {
	return m.graph
}

// Infer runs one inference over the model's graph.
func (m *Model) Infer(input *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := m.graph.Execute(input)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", m.name, err)
	}
	return out, nil
}

// String describes the model handle.
func (m *Model) String() string {
	return fmt.Sprintf("Model(id=%s, name=%q, nodes=%d)", m.id, m.name, len(m.graph.Nodes()))
}
