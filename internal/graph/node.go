package graph

import (
	"fmt"
	"strings"
)

// Node is an operation instance in the graph. It owns its operator, holds
// non-owning references to its input and output values, and maintains the
// producer/consumer edges on both sides.
type Node struct {
	id    uint64
	name  string
	graph *Graph // parent, non-owning
	op    Operator

	inputs  []*Value
	outputs []*Value

	topoIndex int // -1 until a successful topological sort

	// Advisory state for schedulers.
	ready     bool
	scheduled bool
	executed  bool

	debugInfo string
}

// newNode wires a node into g. An empty name defaults to node_<id>.
func newNode(g *Graph, op Operator, name string) *Node {
	n := &Node{
		id:        allocateID(),
		name:      name,
		graph:     g,
		op:        op,
		topoIndex: -1,
	}
	if n.name == "" {
		n.name = fmt.Sprintf("node_%d", n.id)
	}
	return n
}

// ID returns the node's unique id.
func (n *Node) ID() uint64 {
	return n.id
}

// Name returns the node's name.
func (n *Node) Name() string {
	return n.name
}

// SetName renames the node.
func (n *Node) SetName(name string) {
	n.name = name
}

// Graph returns the owning graph.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Operator returns the node's operator.
func (n *Node) Operator() Operator {
	return n.op
}

// OpType returns the operator's type tag, or "" for operator-less nodes.
func (n *Node) OpType() string {
	if n.op == nil {
		return ""
	}
	return n.op.Type()
}

// Inputs returns the input values in positional order.
func (n *Node) Inputs() []*Value {
	return n.inputs
}

// Outputs returns the output values in positional order.
func (n *Node) Outputs() []*Value {
	return n.outputs
}

// SetInputs replaces the input list, removing the node from the consumer
// set of each old input and adding it to each new one.
func (n *Node) SetInputs(inputs []*Value) {
	for _, in := range n.inputs {
		if in != nil {
			in.RemoveConsumer(n)
		}
	}
	n.inputs = inputs
	for _, in := range n.inputs {
		if in != nil {
			in.AddConsumer(n)
		}
	}
}

// SetOutputs replaces the output list, clearing the producer on each old
// output this node produced and claiming each new one.
func (n *Node) SetOutputs(outputs []*Value) {
	for _, out := range n.outputs {
		if out != nil && out.Producer() == n {
			out.SetProducer(nil)
		}
	}
	n.outputs = outputs
	for _, out := range n.outputs {
		if out != nil {
			out.SetProducer(n)
		}
	}
}

// AddInput appends an input and registers the node as its consumer.
func (n *Node) AddInput(v *Value) {
	n.inputs = append(n.inputs, v)
	if v != nil {
		v.AddConsumer(n)
	}
}

// AddOutput appends an output and claims its producer link.
func (n *Node) AddOutput(v *Value) {
	n.outputs = append(n.outputs, v)
	if v != nil {
		v.SetProducer(n)
	}
}

// Detach removes the node from all edge sets. RemoveNode calls it before
// erasing the node from the graph.
func (n *Node) Detach() {
	for _, in := range n.inputs {
		if in != nil {
			in.RemoveConsumer(n)
		}
	}
	for _, out := range n.outputs {
		if out != nil && out.Producer() == n {
			out.SetProducer(nil)
		}
	}
	n.inputs = nil
	n.outputs = nil
}

// TopoIndex returns the node's position in the last successful topological
// sort, or -1.
func (n *Node) TopoIndex() int {
	return n.topoIndex
}

// Ready reports the advisory ready flag.
func (n *Node) Ready() bool { return n.ready }

// SetReady sets the advisory ready flag.
func (n *Node) SetReady(v bool) { n.ready = v }

// Scheduled reports the advisory scheduled flag.
func (n *Node) Scheduled() bool { return n.scheduled }

// SetScheduled sets the advisory scheduled flag.
func (n *Node) SetScheduled(v bool) { n.scheduled = v }

// Executed reports the advisory executed flag.
func (n *Node) Executed() bool { return n.executed }

// SetExecuted sets the advisory executed flag.
func (n *Node) SetExecuted(v bool) { n.executed = v }

// ResetExecutionState clears the advisory scheduler flags.
func (n *Node) ResetExecutionState() {
	n.ready = false
	n.scheduled = false
	n.executed = false
}

// DebugInfo returns the free-form debug annotation.
func (n *Node) DebugInfo() string {
	return n.debugInfo
}

// SetDebugInfo attaches a free-form debug annotation.
func (n *Node) SetDebugInfo(info string) {
	n.debugInfo = info
}

// DebugString renders the node's wiring.
func (n *Node) DebugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Node(id=%d, name=%q, op=%s", n.id, n.name, n.OpType())
	sb.WriteString(", inputs=[")
	for i, in := range n.inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if in == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(in.Name())
		}
	}
	sb.WriteString("], outputs=[")
	for i, out := range n.outputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if out == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(out.Name())
		}
	}
	sb.WriteString("]")
	if n.topoIndex >= 0 {
		fmt.Fprintf(&sb, ", topo=%d", n.topoIndex)
	}
	sb.WriteByte(')')
	return sb.String()
}
