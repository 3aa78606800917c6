package op

import (
	"fmt"
	"hash"
	"math"

	"github.com/chewxy/hm"
	"github.com/chewxy/math32"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/top"
)

type clampOp struct {
	min, max     float64
	passGradient bool
}

func newClampOp(min, max float64, passGradient bool) (*clampOp, error) {
	if min > max {
		return nil, fmt.Errorf("newClampOp: min (%v) > max (%v)", min, max)
	}

	op := &clampOp{
		min:          min,
		max:          max,
		passGradient: passGradient,
	}

	return op, nil
}

func (c *clampOp) DiffWRT(inputs int) []bool {
	return []bool{true}
}

func (c *clampOp) SymDiff(inputs G.Nodes, output, grad *G.Node) (G.Nodes,
	error) {
	err := CheckArity(c, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}

	if c.passGradient {
		return G.Nodes{grad}, nil
	}

	diffOp := &clampDiffOp{c}
	nodes := make(G.Nodes, 1)

	nodes[0], err = G.ApplyOp(diffOp, inputs[0], grad)

	return nodes, err
}

func (c *clampOp) Arity() int { return 1 }

func (c *clampOp) Type() hm.Type {
	a := hm.TypeVariable('a')

	return hm.NewFnType(a, a)
}

func (c *clampOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inputs[0].(tensor.Shape), nil
}

func (c *clampOp) ReturnsPtr() bool { return false }

func (c *clampOp) CallsExtern() bool { return false }

func (c *clampOp) OverwritesInput() int { return -1 }

func (c *clampOp) String() string {
	return fmt.Sprintf("Clamp{min=%v, max=%v}()", c.min, c.max)
}

// WriteHash writes the hash of the receiver to a hash struct
func (c *clampOp) WriteHash(h hash.Hash) { fmt.Fprint(h, c.String()) }

// Hashcode returns the hash code of the receiver
func (c *clampOp) Hashcode() uint32 { return SimpleHash(c) }

func (c *clampOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := c.checkInputs(inputs...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	min32, max32 := float32(c.min), float32(c.max)
	return mapValue(
		inputs[0],
		func(x float64) float64 { return math.Max(c.min, math.Min(c.max, x)) },
		func(x float32) float32 { return math32.Max(min32, math32.Min(max32, x)) },
	)
}

func (c *clampOp) checkInputs(inputs ...G.Value) error {
	err := CheckArity(c, len(inputs))
	if err != nil {
		return err
	}

	if inputs[0] == nil {
		return fmt.Errorf("cannot clamp nil value")
	}

	switch v := inputs[0].(type) {
	case *G.F64, *G.F32:
		return nil

	case tensor.Tensor:
		if v.Size() == 0 {
			return fmt.Errorf("tensor must have more than 1 row per "+
				"dimension but got shape %v", v.Shape())
		}
		return nil
	}

	return fmt.Errorf("expected a tensor to clamp but got %T", inputs[0])
}

// clampDiffOp masks the incoming gradient so that it only flows to
// elements which were not clamped
type clampDiffOp struct {
	op *clampOp
}

func (c *clampDiffOp) Arity() int { return 2 }

func (c *clampDiffOp) Type() hm.Type {
	a := hm.TypeVariable('a')

	return hm.NewFnType(a, a, a)
}

func (c *clampDiffOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inputs[0].(tensor.Shape), nil
}

func (c *clampDiffOp) ReturnsPtr() bool { return false }

func (c *clampDiffOp) CallsExtern() bool { return false }

func (c *clampDiffOp) OverwritesInput() int { return -1 }

// WriteHash writes the hash of the receiver to a hash struct
func (c *clampDiffOp) WriteHash(h hash.Hash) { fmt.Fprint(h, c.String()) }

// Hashcode returns the hash code of the receiver
func (c *clampDiffOp) Hashcode() uint32 { return SimpleHash(c) }

func (c *clampDiffOp) String() string {
	return fmt.Sprintf("ClampDiff{min=%v, max=%v}()", c.op.min, c.op.max)
}

func (c *clampDiffOp) Do(inputs ...G.Value) (G.Value, error) {
	err := c.checkInput(inputs...)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	in, err := asDense(inputs[0])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	grad, err := asDense(inputs[1])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	var min, max interface{} = c.op.min, c.op.max
	if in.Dtype() == tensor.Float32 {
		min, max = float32(c.op.min), float32(c.op.max)
	}

	mask, err := top.ClampB(in, min, max)
	if err != nil {
		return nil, fmt.Errorf("do: could not compute clamp mask: %v", err)
	}

	masked, err := tensor.Mul(mask, grad)
	if err != nil {
		return nil, fmt.Errorf("do: could not mask gradient: %v", err)
	}

	data, err := Float64s(masked)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	return NewValue(inputs[1].Dtype(), valueShape(inputs[1]), data)
}

func (c *clampDiffOp) checkInput(inputs ...G.Value) error {
	err := CheckArity(c, len(inputs))
	if err != nil {
		return err
	}

	for _, in := range inputs {
		if in == nil {
			return fmt.Errorf("cannot compute clamp gradient of nil value")
		}
	}

	return nil
}

// asDense returns v as a dense tensor, promoting scalars to tensors of
// shape (1)
func asDense(v G.Value) (*tensor.Dense, error) {
	switch val := v.(type) {
	case *tensor.Dense:
		if val.IsScalar() {
			data, err := Float64s(val)
			if err != nil {
				return nil, err
			}
			d, err := NewValue(val.Dtype(), tensor.Shape{1}, data)
			if err != nil {
				return nil, err
			}
			return d.(*tensor.Dense), nil
		}
		return val, nil

	case *G.F64, *G.F32:
		data, err := Float64s(val)
		if err != nil {
			return nil, err
		}
		d, err := NewValue(val.Dtype(), tensor.Shape{1}, data)
		if err != nil {
			return nil, err
		}
		return d.(*tensor.Dense), nil
	}

	return nil, fmt.Errorf("cannot convert %T to a dense tensor", v)
}
