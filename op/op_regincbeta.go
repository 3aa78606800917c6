package op

import (
	"fmt"
	"hash"
	"math"

	"github.com/chewxy/hm"
	"gonum.org/v1/gonum/mathext"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// regIncBetaOp computes the regularized incomplete beta function
// I_x(a, b) element-wise. It is not differentiable.
type regIncBetaOp struct{}

func (r *regIncBetaOp) Arity() int { return 3 }

func (r *regIncBetaOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a, a, a)
}

func (r *regIncBetaOp) InferShape(inputs ...G.DimSizer) (tensor.Shape,
	error) {
	if err := CheckArity(r, len(inputs)); err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}

	shapes, err := G.DimSizersToShapes(inputs)
	if err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	for _, s := range shapes[1:] {
		if !ShapeEq(s, shapes[0]) {
			return nil, fmt.Errorf("inferShape: all inputs must have the "+
				"same shape but got %v", shapes)
		}
	}
	return shapes[0], nil
}

func (r *regIncBetaOp) ReturnsPtr() bool { return false }

func (r *regIncBetaOp) CallsExtern() bool { return false }

func (r *regIncBetaOp) OverwritesInput() int { return -1 }

func (r *regIncBetaOp) String() string { return "RegIncBeta()" }

func (r *regIncBetaOp) WriteHash(h hash.Hash) { fmt.Fprint(h, r.String()) }

func (r *regIncBetaOp) Hashcode() uint32 { return SimpleHash(r) }

func (r *regIncBetaOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := CheckArity(r, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	a, err := Float64s(inputs[0])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	b, err := Float64s(inputs[1])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	x, err := Float64s(inputs[2])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	if len(a) != len(b) || len(a) != len(x) {
		return nil, fmt.Errorf("do: inputs have %d, %d, and %d elements",
			len(a), len(b), len(x))
	}

	out := make([]float64, len(a))
	for i := range out {
		out[i] = regIncBeta(a[i], b[i], x[i])
	}

	return NewValue(inputs[0].Dtype(), valueShape(inputs[0]), out)
}

// regIncBeta extends mathext.RegIncBeta to its limits: I_x(a, 0) = 0 and
// I_x(0, b) = 1. Parameters that are NaN, or x outside [0, 1], give NaN.
func regIncBeta(a, b, x float64) float64 {
	switch {
	case math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(x):
		return math.NaN()
	case x < 0 || x > 1:
		return math.NaN()
	case b <= 0:
		return 0
	case a <= 0:
		return 1
	case x == 0:
		return 0
	case x == 1:
		return 1
	case math.IsInf(a, 1):
		return 0
	case math.IsInf(b, 1):
		return 1
	}
	return mathext.RegIncBeta(a, b, x)
}
