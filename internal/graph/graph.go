// Package graph implements the dataflow graph IR of the Spindle inference
// runtime: values, nodes, operators with attributes, topological
// scheduling, lifetime-based memory planning and sequential execution.
package graph

import (
	"fmt"

	"github.com/spindle-ml/spindle/internal/tensor"
)

// Graph owns a set of values and nodes forming a dataflow program. All
// mutating operations must be serialized by the caller.
type Graph struct {
	values []*Value
	nodes  []*Node

	inputs  []*Value
	outputs []*Value

	modelName    string
	modelVersion string
	attrs        *AttributeMap
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{attrs: NewAttributeMap()}
}

// CreateValue creates a value owned by the graph.
func (g *Graph) CreateValue(name string, shape tensor.Shape, dtype tensor.DataType) *Value {
	v := NewValue(name, shape, dtype)
	g.values = append(g.values, v)
	return v
}

// CreateQuantizedValue creates an owned value with quantization parameters
// attached.
func (g *Graph) CreateQuantizedValue(name string, shape tensor.Shape, dtype tensor.DataType, params tensor.QuantizationParams) *Value {
	v := g.CreateValue(name, shape, dtype)
	v.SetQuantParams(&params)
	return v
}

// AddNode creates a node owned by the graph, wrapping op. An empty name
// defaults to node_<id>.
func (g *Graph) AddNode(op Operator, name string) *Node {
	n := newNode(g, op, name)
	g.nodes = append(g.nodes, n)
	return n
}

// RemoveNode detaches n's edges and erases it from the graph. Removing a
// node the graph does not own is a no-op.
func (g *Graph) RemoveNode(n *Node) {
	for i, owned := range g.nodes {
		if owned == n {
			n.Detach()
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			return
		}
	}
}

// Values returns the owned values.
func (g *Graph) Values() []*Value {
	return g.values
}

// Nodes returns the owned nodes.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Inputs returns the graph input values.
func (g *Graph) Inputs() []*Value {
	return g.inputs
}

// Outputs returns the graph output values.
func (g *Graph) Outputs() []*Value {
	return g.outputs
}

// SetInputs declares the graph inputs. They may be any subset of the owned
// values.
func (g *Graph) SetInputs(inputs []*Value) {
	g.inputs = inputs
}

// SetOutputs declares the graph outputs.
func (g *Graph) SetOutputs(outputs []*Value) {
	g.outputs = outputs
}

// AddInput appends a graph input.
func (g *Graph) AddInput(v *Value) {
	g.inputs = append(g.inputs, v)
}

// AddOutput appends a graph output.
func (g *Graph) AddOutput(v *Value) {
	g.outputs = append(g.outputs, v)
}

// ModelName returns the model name annotation.
func (g *Graph) ModelName() string {
	return g.modelName
}

// SetModelName sets the model name annotation.
func (g *Graph) SetModelName(name string) {
	g.modelName = name
}

// ModelVersion returns the model version annotation.
func (g *Graph) ModelVersion() string {
	return g.modelVersion
}

// SetModelVersion sets the model version annotation.
func (g *Graph) SetModelVersion(version string) {
	g.modelVersion = version
}

// Attributes returns the graph-level attribute map.
func (g *Graph) Attributes() *AttributeMap {
	return g.attrs
}

func (g *Graph) ownsValue(v *Value) bool {
	for _, owned := range g.values {
		if owned == v {
			return true
		}
	}
	return false
}

// TopologicalSort orders the nodes so every producer precedes its
// consumers, using Kahn's algorithm over producer edges. On success the
// order covers all nodes and each node's topo index is annotated; on a
// cycle all topo indices are cleared and the partial order is returned
// with ErrCycle. Tie-breaking among ready nodes is unspecified.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	inDegree := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		degree := 0
		for _, in := range n.Inputs() {
			if in != nil && in.Producer() != nil {
				degree++
			}
		}
		inDegree[n] = degree
	}

	queue := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, out := range n.Outputs() {
			if out == nil {
				continue
			}
			for _, consumer := range out.Consumers() {
				inDegree[consumer]--
				if inDegree[consumer] == 0 {
					queue = append(queue, consumer)
				}
			}
		}
	}

	if len(order) != len(g.nodes) {
		for _, n := range g.nodes {
			n.topoIndex = -1
		}
		return order, fmt.Errorf("%w: sorted %d of %d nodes", ErrCycle, len(order), len(g.nodes))
	}

	for i, n := range order {
		n.topoIndex = i
	}
	return order, nil
}

// Validate checks the graph's structural invariants: node parentage,
// operator validity, edge ownership, reverse-edge consistency, non-nil
// owned graph I/O, and acyclicity.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if n.Graph() != g {
			return fmt.Errorf("%w: node %q", ErrWrongGraph, n.Name())
		}
		if n.Operator() != nil {
			if err := n.Operator().Validate(); err != nil {
				return fmt.Errorf("node %q: %w", n.Name(), err)
			}
		}
		for i, in := range n.Inputs() {
			if in == nil {
				return fmt.Errorf("%w: node %q input %d", ErrNilValue, n.Name(), i)
			}
			if !g.ownsValue(in) {
				return fmt.Errorf("%w: node %q input %q", ErrNotOwned, n.Name(), in.Name())
			}
			if !in.HasConsumer(n) {
				return fmt.Errorf("%w: node %q input %q", ErrMissingConsumer, n.Name(), in.Name())
			}
		}
		for i, out := range n.Outputs() {
			if out == nil {
				return fmt.Errorf("%w: node %q output %d", ErrNilValue, n.Name(), i)
			}
			if !g.ownsValue(out) {
				return fmt.Errorf("%w: node %q output %q", ErrNotOwned, n.Name(), out.Name())
			}
			if out.Producer() != n {
				return fmt.Errorf("%w: node %q output %q", ErrWrongProducer, n.Name(), out.Name())
			}
		}
	}

	for i, in := range g.inputs {
		if in == nil {
			return fmt.Errorf("%w: graph input %d", ErrNilValue, i)
		}
		if !g.ownsValue(in) {
			return fmt.Errorf("%w: graph input %q", ErrNotOwned, in.Name())
		}
	}
	for i, out := range g.outputs {
		if out == nil {
			return fmt.Errorf("%w: graph output %d", ErrNilValue, i)
		}
		if !g.ownsValue(out) {
			return fmt.Errorf("%w: graph output %q", ErrNotOwned, out.Name())
		}
	}

	if _, err := g.TopologicalSort(); err != nil {
		return err
	}
	return nil
}

// ValueLifetime is the planned live interval of one value, in topological
// execution indices, with its estimated byte footprint.
type ValueLifetime struct {
	FirstIndex int
	LastIndex  int
	Bytes      int64
}

// MemoryPlan is the result of lifetime-based memory planning: the peak of
// simultaneously live bytes and the live interval of every value.
type MemoryPlan struct {
	PeakBytes int64
	Lifetimes map[uint64]ValueLifetime
}

func (g *Graph) isOutput(v *Value) bool {
	for _, out := range g.outputs {
		if out == v {
			return true
		}
	}
	return false
}

// PlanMemory computes per-value lifetimes over the topological order and
// the resulting peak memory. Values without a producer are live from index
// 0; graph outputs stay live through the last node. A cyclic graph yields
// an empty plan.
func (g *Graph) PlanMemory() MemoryPlan {
	plan := MemoryPlan{Lifetimes: make(map[uint64]ValueLifetime)}

	order, err := g.TopologicalSort()
	if err != nil || len(order) == 0 {
		return plan
	}

	for _, v := range g.values {
		first := 0
		if p := v.Producer(); p != nil {
			first = p.TopoIndex()
		}
		last := first
		for _, c := range v.Consumers() {
			if c.TopoIndex() > last {
				last = c.TopoIndex()
			}
		}
		if g.isOutput(v) {
			last = len(order) - 1
		}
		plan.Lifetimes[v.ID()] = ValueLifetime{
			FirstIndex: first,
			LastIndex:  last,
			Bytes:      v.ByteSize(),
		}
	}

	for i := 0; i < len(order); i++ {
		live := int64(0)
		for _, lt := range plan.Lifetimes {
			if lt.FirstIndex <= i && i <= lt.LastIndex {
				live += lt.Bytes
			}
		}
		if live > plan.PeakBytes {
			plan.PeakBytes = live
		}
	}
	return plan
}

// Execute runs the graph sequentially in topological order.
//
// An empty graph returns input unchanged. With exactly one declared graph
// input, a shallow view of input is bound to it. The graph is validated on
// every call. Each node's operator has its I/O synchronized from the node
// before executing; operator-less nodes are skipped. If exactly one graph
// output carries a bound tensor afterwards, that tensor is returned;
// otherwise input is.
func (g *Graph) Execute(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(g.nodes) == 0 {
		return input, nil
	}

	var boundView *tensor.Tensor
	if len(g.inputs) == 1 && input != nil {
		boundView = input.ShallowClone()
		g.inputs[0].SetTensor(boundView)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	for _, n := range order {
		op := n.Operator()
		if op == nil {
			// Placeholders from early construction are legal; nothing to run.
			continue
		}
		op.SetInputs(n.Inputs())
		op.SetOutputs(n.Outputs())
		if err := op.Execute(); err != nil {
			return nil, fmt.Errorf("execute node %q (%s): %w", n.Name(), op.Type(), err)
		}
	}

	if len(g.outputs) == 1 && g.outputs[0].HasTensor() {
		return g.outputs[0].Tensor(), nil
	}
	return input, nil
}

// Pass is a graph-to-graph transformation. Passes run to completion;
// re-validating afterwards is the pass's responsibility.
type Pass interface {
	Name() string
	Run(g *Graph) error
}

// ApplyPass runs the pass over the graph.
func (g *Graph) ApplyPass(p Pass) error {
	if err := p.Run(g); err != nil {
		return fmt.Errorf("pass %q: %w", p.Name(), err)
	}
	return nil
}

// DebugString renders a multi-line summary of the graph.
func (g *Graph) DebugString() string {
	s := fmt.Sprintf("Graph(model=%q version=%q values=%d nodes=%d inputs=%d outputs=%d)",
		g.modelName, g.modelVersion, len(g.values), len(g.nodes), len(g.inputs), len(g.outputs))
	for _, n := range g.nodes {
		s += "\n  " + n.DebugString()
	}
	return s
}
