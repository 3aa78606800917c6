package op

import (
	"fmt"
	"hash"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// stopGradientOp passes its input through unchanged, but is constant
// with respect to it: no gradient flows back through the op
type stopGradientOp struct{}

func (s *stopGradientOp) Arity() int { return 1 }

func (s *stopGradientOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (s *stopGradientOp) InferShape(inputs ...G.DimSizer) (tensor.Shape,
	error) {
	return inferUnaryShape(s, inputs...)
}

func (s *stopGradientOp) ReturnsPtr() bool { return false }

func (s *stopGradientOp) CallsExtern() bool { return false }

func (s *stopGradientOp) OverwritesInput() int { return -1 }

func (s *stopGradientOp) String() string { return "StopGradient()" }

func (s *stopGradientOp) WriteHash(h hash.Hash) { fmt.Fprint(h, s.String()) }

func (s *stopGradientOp) Hashcode() uint32 { return SimpleHash(s) }

func (s *stopGradientOp) DiffWRT(inputs int) []bool {
	return make([]bool, inputs)
}

func (s *stopGradientOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	return nil, fmt.Errorf("symDiff: %v is not differentiable", s)
}

func (s *stopGradientOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := checkUnaryInputs(s, inputs...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return cloneValue(inputs[0])
}

// cloneValue returns a copy of a floating point value
func cloneValue(v G.Value) (G.Value, error) {
	data, err := Float64s(v)
	if err != nil {
		return nil, err
	}
	return NewValue(v.Dtype(), valueShape(v), data)
}
