// Copyright 2026 Spindle ML Runtime. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public dataflow graph API of the Spindle
// inference runtime.
//
// A Graph owns Values (typed edges) and Nodes (operation instances).
// Operators plug in behind the Operator interface; execution runs
// sequentially in topological order, and PlanMemory derives value
// lifetimes and peak memory from the same order.
//
// Example:
//
//	g := graph.New()
//	x := g.CreateValue("x", tensor.Shape{2, 2}, tensor.Float32)
//	y := g.CreateValue("y", tensor.Shape{2, 2}, tensor.Float32)
//
//	n := g.AddNode(myOp, "scale_0")
//	n.SetInputs([]*graph.Value{x})
//	n.SetOutputs([]*graph.Value{y})
//
//	g.SetInputs([]*graph.Value{x})
//	g.SetOutputs([]*graph.Value{y})
//
//	out, err := g.Execute(input)
package graph

import (
	"github.com/spindle-ml/spindle/internal/graph"
)

// Graph owns a set of values and nodes forming a dataflow program.
type Graph = graph.Graph

// Node is an operation instance in the graph.
type Node = graph.Node

// Value is a typed edge between nodes.
type Value = graph.Value

// Operator is the capability set implemented by concrete operations.
type Operator = graph.Operator

// Base provides the operator wiring; concrete operators embed it.
type Base = graph.Base

// Attribute is a kind-tagged scalar or vector attached to nodes or graphs.
type Attribute = graph.Attribute

// AttrKind identifies which variant an Attribute holds.
type AttrKind = graph.AttrKind

// AttributeMap is an insertion-ordered map of named attributes.
type AttributeMap = graph.AttributeMap

// MemoryPlan is the result of lifetime-based memory planning.
type MemoryPlan = graph.MemoryPlan

// ValueLifetime is the planned live interval of one value.
type ValueLifetime = graph.ValueLifetime

// Pass is a graph-to-graph transformation.
type Pass = graph.Pass

// Model is a thin handle around a graph with a unique instance id.
type Model = graph.Model

// Attribute kind constants.
const (
	AttrInt     AttrKind = graph.AttrInt
	AttrFloat   AttrKind = graph.AttrFloat
	AttrString  AttrKind = graph.AttrString
	AttrInts    AttrKind = graph.AttrInts
	AttrFloats  AttrKind = graph.AttrFloats
	AttrStrings AttrKind = graph.AttrStrings
)

// Constructors.
var (
	New             = graph.New
	NewValue        = graph.NewValue
	NewBase         = graph.NewBase
	NewAttributeMap = graph.NewAttributeMap
	NewModel        = graph.NewModel
)

// CheckInputsBound verifies the Execute precondition that every input
// value carries a bound tensor matching its declared metadata. Operator
// authors call it at the top of Execute.
var CheckInputsBound = graph.CheckInputsBound

// Attribute constructors.
var (
	IntAttr     = graph.IntAttr
	FloatAttr   = graph.FloatAttr
	StringAttr  = graph.StringAttr
	IntsAttr    = graph.IntsAttr
	FloatsAttr  = graph.FloatsAttr
	StringsAttr = graph.StringsAttr
)

// Sentinel errors.
var (
	ErrCycle            = graph.ErrCycle
	ErrNotOwned         = graph.ErrNotOwned
	ErrWrongGraph       = graph.ErrWrongGraph
	ErrWrongProducer    = graph.ErrWrongProducer
	ErrMissingConsumer  = graph.ErrMissingConsumer
	ErrNilValue         = graph.ErrNilValue
	ErrMissingAttribute = graph.ErrMissingAttribute
	ErrAttributeType    = graph.ErrAttributeType
	ErrEmptyOpType      = graph.ErrEmptyOpType
	ErrUnboundTensor    = graph.ErrUnboundTensor
)
