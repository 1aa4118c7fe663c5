// Package main provides the Spindle runtime CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spindle-ml/spindle/graph"
	"github.com/spindle-ml/spindle/memory"
	"github.com/spindle-ml/spindle/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Spindle Runtime %s\n", version)
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "demo" {
		if err := runDemo(); err != nil {
			fmt.Fprintf(os.Stderr, "demo: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Spindle - In-Memory Inference Runtime for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Build and execute a small demo graph")
}

// scaleOp multiplies its float32 input by a constant factor.
type scaleOp struct {
	graph.Base
	factor float32
	out    *tensor.Tensor
}

func newScaleOp(factor float32) *scaleOp {
	return &scaleOp{Base: graph.NewBase("Scale"), factor: factor}
}

func (op *scaleOp) Execute() error {
	if err := graph.CheckInputsBound(op); err != nil {
		return err
	}
	in := op.Inputs()[0].Tensor()
	src := in.AsFloat32()

	outVal := op.Outputs()[0]
	if op.out == nil || op.out.NumElements() != in.NumElements() {
		op.out = tensor.New(outVal.Shape(), tensor.Float32)
		op.out.SetData(make([]byte, op.out.ByteSize()), false)
	}
	dst := op.out.AsFloat32()
	for i, v := range src {
		dst[i] = v * op.factor
	}
	outVal.SetTensor(op.out)
	return nil
}

func (op *scaleOp) Clone() graph.Operator {
	return &scaleOp{Base: op.CloneBase(), factor: op.factor}
}

// runDemo builds x -> double -> y -> triple -> z over an arena-backed
// input tensor, executes it, and prints the memory plan and arena stats.
func runDemo() error {
	g := graph.New()
	g.SetModelName("demo")

	shape := tensor.Shape{2, 2}
	x := g.CreateValue("x", shape, tensor.Float32)
	y := g.CreateValue("y", shape, tensor.Float32)
	z := g.CreateValue("z", shape, tensor.Float32)

	double := g.AddNode(newScaleOp(2), "double")
	double.SetInputs([]*graph.Value{x})
	double.SetOutputs([]*graph.Value{y})

	triple := g.AddNode(newScaleOp(3), "triple")
	triple.SetInputs([]*graph.Value{y})
	triple.SetOutputs([]*graph.Value{z})

	g.SetInputs([]*graph.Value{x})
	g.SetOutputs([]*graph.Value{z})

	alloc := memory.NewArenaAllocator(1<<16, 64, memory.AllocatorConfig{TrackAllocations: true})
	input, err := tensor.NewAllocated(shape, tensor.Float32, alloc)
	if err != nil {
		return err
	}
	in := input.AsFloat32()
	for i := range in {
		in[i] = float32(i + 1)
	}

	out, err := g.Execute(input)
	if err != nil {
		return err
	}

	fmt.Printf("input:  %v\n", input.AsFloat32())
	fmt.Printf("output: %v\n\n", out.AsFloat32())

	plan := g.PlanMemory()
	fmt.Printf("memory plan: peak %d bytes\n", plan.PeakBytes)
	for _, v := range g.Values() {
		lt := plan.Lifetimes[v.ID()]
		fmt.Printf("  %-4s live [%d, %d], %d bytes\n", v.Name(), lt.FirstIndex, lt.LastIndex, lt.Bytes)
	}

	stats := alloc.Stats()
	fmt.Printf("\narena: %d/%d bytes used, %d allocations\n",
		alloc.Arena().Used(), alloc.Arena().Capacity(), stats.Allocations)
	return nil
}
