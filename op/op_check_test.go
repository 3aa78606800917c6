package op

import (
	"fmt"
	"strings"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func checkGraph(t *testing.T, backing []float64) error {
	g := G.NewGraph()
	in := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(len(backing)),
		G.WithValue(tensor.NewDense(
			tensor.Float64,
			[]int{len(backing)},
			tensor.WithBacking(backing),
		)),
		G.WithName(Unique("in")),
	)

	checked, err := Check(
		in,
		"positive",
		func(x float64) bool { return x > 0 },
		func(bad []float64) error {
			return fmt.Errorf("values %v are not positive", bad)
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	G.Must(G.Sum(checked))

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	return vm.RunAll()
}

func TestCheck(t *testing.T) {
	if err := checkGraph(t, []float64{1, 2, 3}); err != nil {
		t.Errorf("expected no error but got %v", err)
	}

	err := checkGraph(t, []float64{1, -2, 0})
	if err == nil {
		t.Fatal("expected the check to fail")
	}
	if !strings.Contains(err.Error(), "values [-2 0] are not positive") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCheckNilPredicate(t *testing.T) {
	g := G.NewGraph()
	in := G.NewScalar(g, tensor.Float64, G.WithName(Unique("in")))

	if _, err := Check(in, "nil", nil, nil); err == nil {
		t.Error("expected an error with a nil predicate")
	}
}
