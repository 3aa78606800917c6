package op

import (
	"fmt"
	"hash"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// castOp converts the element type of a node. Casting between floating
// point types is differentiable, the gradient being cast back to the
// input type.
type castOp struct {
	from, to tensor.Dtype
	dims     int
}

func newCastOp(from, to tensor.Dtype, dims int) (*castOp, error) {
	if to != tensor.Float64 && to != tensor.Float32 {
		return nil, fmt.Errorf("newCastOp: cannot cast to dtype %v", to)
	}

	switch from {
	case tensor.Float64, tensor.Float32, tensor.Int:
	default:
		return nil, fmt.Errorf("newCastOp: cannot cast from dtype %v", from)
	}

	return &castOp{from: from, to: to, dims: dims}, nil
}

func (c *castOp) Arity() int { return 1 }

func (c *castOp) Type() hm.Type {
	return hm.NewFnType(outputType(c.from, c.dims), outputType(c.to, c.dims))
}

func (c *castOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	return inferUnaryShape(c, inputs...)
}

func (c *castOp) ReturnsPtr() bool { return false }

func (c *castOp) CallsExtern() bool { return false }

func (c *castOp) OverwritesInput() int { return -1 }

func (c *castOp) String() string {
	return fmt.Sprintf("Cast{%v->%v}()", c.from, c.to)
}

func (c *castOp) WriteHash(h hash.Hash) { fmt.Fprint(h, c.String()) }

func (c *castOp) Hashcode() uint32 { return SimpleHash(c) }

func (c *castOp) DiffWRT(inputs int) []bool {
	return []bool{c.from != tensor.Int}
}

func (c *castOp) SymDiff(inputs G.Nodes, output, grad *G.Node) (G.Nodes,
	error) {
	if err := CheckArity(c, len(inputs)); err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}
	if c.from == tensor.Int {
		return nil, fmt.Errorf("symDiff: cast from %v is not differentiable",
			c.from)
	}

	back, err := Cast(grad, c.from)
	if err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}
	return G.Nodes{back}, nil
}

func (c *castOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := CheckArity(c, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	v := inputs[0]
	if v == nil {
		return nil, fmt.Errorf("do: cannot cast nil value")
	} else if v.Dtype() != c.from {
		return nil, fmt.Errorf("do: expected dtype %v but got %v", c.from,
			v.Dtype())
	}

	var data []float64
	if c.from == tensor.Int {
		ints, err := intData(v)
		if err != nil {
			return nil, fmt.Errorf("do: %v", err)
		}
		data = make([]float64, len(ints))
		for i := range ints {
			data[i] = float64(ints[i])
		}
	} else {
		var err error
		if data, err = Float64s(v); err != nil {
			return nil, fmt.Errorf("do: %v", err)
		}
	}

	return NewValue(c.to, valueShape(v), data)
}

// intData returns the elements of an integer value
func intData(v G.Value) ([]int, error) {
	switch val := v.(type) {
	case *G.I:
		return []int{int(*val)}, nil

	case *tensor.Dense:
		if val.IsView() {
			val = val.Materialize().(*tensor.Dense)
		}
		switch data := val.Data().(type) {
		case []int:
			out := make([]int, len(data))
			copy(out, data)
			return out, nil
		case int:
			return []int{data}, nil
		}
	}

	return nil, fmt.Errorf("cannot read integers from %T", v)
}
