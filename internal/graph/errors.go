package graph

import "errors"

var (
	// ErrCycle means the graph contains a dependency cycle.
	ErrCycle = errors.New("graph contains a cycle")
	// ErrNotOwned means a referenced value or node is not owned by the graph.
	ErrNotOwned = errors.New("not owned by graph")
	// ErrWrongGraph means a node's parent is a different graph.
	ErrWrongGraph = errors.New("node belongs to a different graph")
	// ErrWrongProducer means an output value's producer link does not point
	// back at the node.
	ErrWrongProducer = errors.New("output producer mismatch")
	// ErrMissingConsumer means an input value's consumer set does not contain
	// the node.
	ErrMissingConsumer = errors.New("node missing from consumer set")
	// ErrNilValue means a nil value reference where one is required.
	ErrNilValue = errors.New("nil value reference")
	// ErrMissingAttribute means an attribute key is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrAttributeType means an attribute holds a different kind than requested.
	ErrAttributeType = errors.New("attribute type mismatch")
	// ErrEmptyOpType means an operator was constructed without a type tag.
	ErrEmptyOpType = errors.New("empty operator type")
	// ErrUnboundTensor means an input value has no tensor bound at execution.
	ErrUnboundTensor = errors.New("no tensor bound to value")
)
