package op

import (
	"fmt"
	"hash"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// checkOp is an identity op which fails when any element of its input
// does not satisfy a predicate. The gradient passes through unchanged.
type checkOp struct {
	name string
	ok   func(float64) bool
	fail func(bad []float64) error
}

func (c *checkOp) Arity() int { return 1 }

func (c *checkOp) Type() hm.Type {
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (c *checkOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inferUnaryShape(c, inputs...)
}

func (c *checkOp) ReturnsPtr() bool { return false }

func (c *checkOp) CallsExtern() bool { return false }

func (c *checkOp) OverwritesInput() int { return -1 }

func (c *checkOp) String() string { return fmt.Sprintf("Check{%v}()", c.name) }

func (c *checkOp) WriteHash(h hash.Hash) { fmt.Fprint(h, c.String()) }

func (c *checkOp) Hashcode() uint32 { return SimpleHash(c) }

func (c *checkOp) DiffWRT(inputs int) []bool { return []bool{true} }

func (c *checkOp) SymDiff(inputs G.Nodes, output, grad *G.Node) (G.Nodes,
	error) {
	if err := CheckArity(c, len(inputs)); err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}
	return G.Nodes{grad}, nil
}

func (c *checkOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := checkUnaryInputs(c, inputs...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	data, err := Float64s(inputs[0])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	var bad []float64
	for _, x := range data {
		if !c.ok(x) {
			bad = append(bad, x)
		}
	}
	if len(bad) > 0 {
		return nil, c.fail(bad)
	}

	return NewValue(inputs[0].Dtype(), valueShape(inputs[0]), data)
}
