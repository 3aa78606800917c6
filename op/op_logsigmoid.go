package op

import (
	"fmt"
	"hash"
	"math"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// logSigmoidOp computes log(sigmoid(x)) as min(x, 0) - log1p(exp(-|x|)),
// which neither overflows nor loses precision for large |x|
type logSigmoidOp struct{}

func (l *logSigmoidOp) Arity() int { return 1 }

func (l *logSigmoidOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (l *logSigmoidOp) InferShape(inputs ...G.DimSizer) (tensor.Shape,
	error) {
	return inferUnaryShape(l, inputs...)
}

func (l *logSigmoidOp) ReturnsPtr() bool { return false }

func (l *logSigmoidOp) CallsExtern() bool { return false }

func (l *logSigmoidOp) OverwritesInput() int { return -1 }

func (l *logSigmoidOp) String() string { return "LogSigmoid" }

func (l *logSigmoidOp) WriteHash(h hash.Hash) { fmt.Fprint(h, "LogSigmoid()") }

func (l *logSigmoidOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *logSigmoidOp) DiffWRT(inputs int) []bool { return []bool{true} }

func (l *logSigmoidOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}

	nodes := make(G.Nodes, 1)
	nodes[0], err = G.ApplyOp(&logSigmoidDiffOp{}, inputs[0], grad)

	return nodes, err
}

func (l *logSigmoidOp) Do(values ...G.Value) (G.Value, error) {
	if err := checkUnaryInputs(l, values...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return mapValue(
		values[0],
		logSigmoid,
		func(x float32) float32 { return float32(logSigmoid(float64(x))) },
	)
}

// logSigmoidDiffOp computes grad * sigmoid(-x)
type logSigmoidDiffOp struct{}

func (l *logSigmoidDiffOp) Arity() int { return 2 }

func (l *logSigmoidDiffOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a, a)
}

func (l *logSigmoidDiffOp) InferShape(inputs ...G.DimSizer) (tensor.Shape,
	error) {
	if err := CheckArity(l, len(inputs)); err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	return inputs[0].(tensor.Shape), nil
}

func (l *logSigmoidDiffOp) ReturnsPtr() bool { return false }

func (l *logSigmoidDiffOp) CallsExtern() bool { return false }

func (l *logSigmoidDiffOp) OverwritesInput() int { return -1 }

func (l *logSigmoidDiffOp) String() string { return "LogSigmoidDiff()" }

func (l *logSigmoidDiffOp) WriteHash(h hash.Hash) { fmt.Fprint(h, l.String()) }

func (l *logSigmoidDiffOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *logSigmoidDiffOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := CheckArity(l, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	return zipValues(inputs[0], inputs[1], func(x, grad float64) float64 {
		return grad * math.Exp(logSigmoid(-x))
	})
}

func logSigmoid(x float64) float64 {
	return math.Min(x, 0) - math.Log1p(math.Exp(-math.Abs(x)))
}
