package op_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mathext"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/nbinom/op"
)

func TestLgamma(t *testing.T) {
	const threshold float64 = 0.000001

	inBacking := []float64{0.1, 0.5, 1, 2.5, 7, 30}

	g := G.NewGraph()
	in := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(len(inBacking)),
		G.WithValue(tensor.NewDense(
			tensor.Float64,
			[]int{len(inBacking)},
			tensor.WithBacking(inBacking),
		)),
		G.WithName(op.Unique("in")),
	)

	lg, err := op.Lgamma(in)
	if err != nil {
		t.Fatal(err)
	}
	var lgVal G.Value
	G.Read(lg, &lgVal)

	loss := G.Must(G.Sum(lg))
	grad, err := G.Grad(loss, in)
	if err != nil {
		t.Fatal(err)
	}
	var gradVal G.Value
	G.Read(grad[0], &gradVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	out := lgVal.Data().([]float64)
	gradOut := gradVal.Data().([]float64)
	for i, x := range inBacking {
		target, _ := math.Lgamma(x)
		if math.Abs(out[i]-target) > threshold {
			t.Errorf("lgamma(%v): expected %v received %v", x, target, out[i])
		}

		gradTarget := mathext.Digamma(x)
		if math.Abs(gradOut[i]-gradTarget) > threshold {
			t.Errorf("d/dx lgamma(%v): expected %v received %v", x,
				gradTarget, gradOut[i])
		}
	}
}

func TestLgammaScalarF32(t *testing.T) {
	const threshold float64 = 0.0001

	g := G.NewGraph()
	in := G.NewScalar(g, tensor.Float32, G.WithName(op.Unique("in")))
	if err := G.Let(in, float32(4.5)); err != nil {
		t.Fatal(err)
	}

	lg, err := op.Lgamma(in)
	if err != nil {
		t.Fatal(err)
	}
	var lgVal G.Value
	G.Read(lg, &lgVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	target, _ := math.Lgamma(4.5)
	out := float64(lgVal.Data().(float32))
	if math.Abs(out-target) > threshold {
		t.Errorf("expected %v received %v", target, out)
	}
}

func TestDigamma(t *testing.T) {
	const threshold float64 = 0.000001

	g := G.NewGraph()
	in := G.NewScalar(g, tensor.Float64, G.WithName(op.Unique("in")))
	if err := G.Let(in, 3.0); err != nil {
		t.Fatal(err)
	}

	d, err := op.Digamma(in)
	if err != nil {
		t.Fatal(err)
	}
	var dVal G.Value
	G.Read(d, &dVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	// ψ(3) = 1 + 1/2 - γ
	target := 1.5 - 0.5772156649015329
	if math.Abs(dVal.Data().(float64)-target) > threshold {
		t.Errorf("expected %v received %v", target, dVal.Data())
	}
}

func TestLogSigmoid(t *testing.T) {
	const threshold float64 = 0.000001

	inBacking := []float64{-1000, -10, -1, 0, 1, 10, 1000}

	g := G.NewGraph()
	in := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(len(inBacking)),
		G.WithValue(tensor.NewDense(
			tensor.Float64,
			[]int{len(inBacking)},
			tensor.WithBacking(inBacking),
		)),
		G.WithName(op.Unique("in")),
	)

	ls, err := op.LogSigmoid(in)
	if err != nil {
		t.Fatal(err)
	}
	var lsVal G.Value
	G.Read(ls, &lsVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	out := lsVal.Data().([]float64)
	for i, x := range inBacking {
		var target float64
		if x < 0 {
			target = x - math.Log1p(math.Exp(x))
		} else {
			target = -math.Log1p(math.Exp(-x))
		}

		if math.IsInf(out[i], 0) || math.IsNaN(out[i]) {
			t.Errorf("logSigmoid(%v) is not finite: %v", x, out[i])
		} else if math.Abs(out[i]-target) > threshold*math.Max(1, math.Abs(x)) {
			t.Errorf("logSigmoid(%v): expected %v received %v", x, target,
				out[i])
		}
	}
}
