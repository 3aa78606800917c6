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

// lgammaOp is the natural logarithm of the absolute value of the gamma
// function
type lgammaOp struct{}

func newLgammaOp() G.Op {
	return &lgammaOp{}
}

func (l *lgammaOp) Arity() int { return 1 }

func (l *lgammaOp) Type() hm.Type {
	// All pointwise unary operations have this type:
	// op :: (Arithable a) => a -> a
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (l *lgammaOp) Do(values ...G.Value) (G.Value, error) {
	err := checkUnaryInputs(l, values...)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return mapValue(values[0], lgamma64, lgamma32)
}

func (l *lgammaOp) ReturnsPtr() bool { return false }

func (l *lgammaOp) CallsExtern() bool { return false }

func (l *lgammaOp) OverwritesInput() int { return -1 }

// String returns the string representation of the struct
func (l *lgammaOp) String() string { return "Lgamma" }

// InferShape returns the output shape as a function of the inputs
func (l *lgammaOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inferUnaryShape(l, inputs...)
}

// WriteHash writes the hash of the receiver to a hash struct
func (l *lgammaOp) WriteHash(h hash.Hash) { fmt.Fprintf(h, "Lgamma()") }

// Hashcode returns the hash code of the receiver
func (l *lgammaOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *lgammaOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}

	diffOp := &lgammaDiffOp{}
	nodes := make(G.Nodes, 1)

	nodes[0], err = G.ApplyOp(diffOp, inputs[0], grad)

	return nodes, err
}

func (l *lgammaOp) DiffWRT(inputs int) []bool {
	if inputs != 1 {
		panic(fmt.Sprintf("lgamma operator only supports one input, got %d "+
			"instead", inputs))
	}
	return []bool{true}
}

// lgammaDiffOp computes grad * ψ(x), where ψ is the digamma function
type lgammaDiffOp struct{}

func (l *lgammaDiffOp) Arity() int { return 2 }

func (l *lgammaDiffOp) ReturnsPtr() bool { return false }

func (l *lgammaDiffOp) CallsExtern() bool { return false }

func (l *lgammaDiffOp) WriteHash(h hash.Hash) { fmt.Fprint(h, l.String()) }

func (l *lgammaDiffOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *lgammaDiffOp) String() string { return "LgammaDiff()" }

func (l *lgammaDiffOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	if inputs[0] == nil {
		return nil, fmt.Errorf("inferShape: nil input")
	}

	return inputs[0].(tensor.Shape), nil
}

func (l *lgammaDiffOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a, a)
}

func (l *lgammaDiffOp) OverwritesInput() int { return -1 }

func (l *lgammaDiffOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := CheckArity(l, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return zipValues(inputs[0], inputs[1], func(x, grad float64) float64 {
		return grad * mathext.Digamma(x)
	})
}

// digammaOp is the digamma function ψ(x) = d/dx ln Γ(x). It is not
// differentiable.
type digammaOp struct{}

func newDigammaOp() G.Op {
	return &digammaOp{}
}

func (d *digammaOp) Arity() int { return 1 }

func (d *digammaOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (d *digammaOp) Do(values ...G.Value) (G.Value, error) {
	err := checkUnaryInputs(d, values...)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return mapValue(
		values[0],
		mathext.Digamma,
		func(x float32) float32 { return float32(mathext.Digamma(float64(x))) },
	)
}

func (d *digammaOp) ReturnsPtr() bool { return false }

func (d *digammaOp) CallsExtern() bool { return false }

func (d *digammaOp) OverwritesInput() int { return -1 }

func (d *digammaOp) String() string { return "Digamma" }

func (d *digammaOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inferUnaryShape(d, inputs...)
}

func (d *digammaOp) WriteHash(h hash.Hash) { fmt.Fprintf(h, "Digamma()") }

func (d *digammaOp) Hashcode() uint32 { return SimpleHash(d) }

func lgamma64(x float64) float64 {
	lg, _ := math.Lgamma(x)
	return lg
}

func lgamma32(x float32) float32 {
	lg, _ := math.Lgamma(float64(x))
	return float32(lg)
}

// checkUnaryInputs returns an error if the input to a pointwise unary
// Op is invalid
func checkUnaryInputs(op G.Op, inputs ...G.Value) error {
	if err := CheckArity(op, len(inputs)); err != nil {
		return err
	}

	_, okF64 := inputs[0].(*G.F64)
	_, okF32 := inputs[0].(*G.F32)
	_, okTensor := inputs[0].(tensor.Tensor)

	if !(okF64 || okF32 || okTensor) {
		return fmt.Errorf("expected input to be a tensor, got %T", inputs[0])
	}

	return nil
}

// inferUnaryShape returns the output shape of a pointwise unary Op
func inferUnaryShape(op G.Op, inputs ...G.DimSizer) (tensor.Shape, error) {
	err := CheckArity(op, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	if inputs[0] == nil {
		return nil, fmt.Errorf("inferShape: nil input")
	}

	return inputs[0].(tensor.Shape), nil
}
