package distribution

import (
	"testing"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// newVector returns a vector node named name holding backing
func newVector(g *G.ExprGraph, name string, backing []float64) *G.Node {
	t := tensor.NewDense(
		tensor.Float64,
		[]int{len(backing)},
		tensor.WithBacking(backing),
	)
	return G.NewVector(
		g,
		t.Dtype(),
		G.WithShape(len(backing)),
		G.WithValue(t),
		G.WithName(op.Unique(name)),
	)
}

// newScalar returns a scalar node named name holding v
func newScalar(g *G.ExprGraph, name string, v float64) *G.Node {
	return G.NewScalar(
		g,
		tensor.Float64,
		G.WithValue(G.NewF64(v)),
		G.WithName(op.Unique(name)),
	)
}

// newTensor returns a float64 node of the given shape named name
// holding backing
func newTensor(g *G.ExprGraph, name string, shape []int,
	backing []float64) *G.Node {
	t := tensor.NewDense(
		tensor.Float64,
		shape,
		tensor.WithBacking(backing),
	)
	return G.NewTensor(
		g,
		t.Dtype(),
		t.Dims(),
		G.WithShape(shape...),
		G.WithValue(t),
		G.WithName(op.Unique(name)),
	)
}

// run executes all of g, failing the test on error
func run(t *testing.T, g *G.ExprGraph) {
	t.Helper()

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
}

// values returns the elements of v as float64s, failing the test on error
func values(t *testing.T, v G.Value) []float64 {
	t.Helper()

	data, err := op.Float64s(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
