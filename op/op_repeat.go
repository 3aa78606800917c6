package op

import (
	"fmt"
	"hash"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// repeatOp repeats each element of a tensor along an axis, in the same
// way as tensor.Repeat
type repeatOp struct {
	axis    int
	repeats int
}

func newRepeatOp(axis int, repeats int) (*repeatOp, error) {
	if repeats <= 0 {
		return nil, fmt.Errorf("newRepeatOp: expected repeats to be > 0, "+
			"got %v", repeats)
	} else if axis < 0 {
		return nil, fmt.Errorf("newRepeatOp: expected axis to be >= 0, "+
			"got %v", axis)
	}

	return &repeatOp{
		axis:    axis,
		repeats: repeats,
	}, nil
}

func (r *repeatOp) Arity() int { return 1 }

func (r *repeatOp) Type() hm.Type {
	a := hm.TypeVariable('a')

	return hm.NewFnType(a, a)
}

func (r *repeatOp) OverwritesInput() int { return -1 }

func (r *repeatOp) ReturnsPtr() bool { return false }

func (r *repeatOp) CallsExtern() bool { return false }

func (r *repeatOp) String() string {
	return fmt.Sprintf("Repeat{axis=%v, repeats=%v}()", r.axis, r.repeats)
}

func (r *repeatOp) WriteHash(h hash.Hash) { fmt.Fprint(h, r.String()) }

func (r *repeatOp) Hashcode() uint32 { return SimpleHash(r) }

func (r *repeatOp) InferShape(in ...G.DimSizer) (tensor.Shape, error) {
	if err := CheckArity(r, len(in)); err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}

	shape := in[0].(tensor.Shape).Clone()
	if r.axis >= len(shape) {
		return nil, fmt.Errorf("inferShape: axis [%v] out of range for "+
			"shape %v", r.axis, shape)
	}
	shape[r.axis] *= r.repeats

	return shape, nil
}

func (r *repeatOp) DiffWRT(inputs int) []bool { return []bool{true} }

// SymDiff sums the gradient over each block of repeated elements. The
// gradient is split so that the repeated copies of each element form
// their own axis, which is then summed out.
func (r *repeatOp) SymDiff(inputs G.Nodes, output, grad *G.Node) (G.Nodes,
	error) {
	if err := CheckArity(r, len(inputs)); err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}

	in := inputs[0].Shape()
	split := make(tensor.Shape, 0, len(in)+1)
	split = append(split, in[:r.axis]...)
	split = append(split, in[r.axis], r.repeats)
	split = append(split, in[r.axis+1:]...)

	blocks, err := G.Reshape(grad, split)
	if err != nil {
		return nil, fmt.Errorf("symDiff: could not split gradient: %v", err)
	}

	summed, err := G.Sum(blocks, r.axis+1)
	if err != nil {
		return nil, fmt.Errorf("symDiff: could not sum gradient: %v", err)
	}

	if !ShapeEq(summed.Shape(), in) {
		summed, err = G.Reshape(summed, in.Clone())
		if err != nil {
			return nil, fmt.Errorf("symDiff: could not reshape gradient: %v",
				err)
		}
	}

	return G.Nodes{summed}, nil
}

func (r *repeatOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := r.checkInputs(inputs...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	input := inputs[0].(tensor.Tensor)

	return tensor.Repeat(input, r.axis, r.repeats)
}

func (r *repeatOp) checkInputs(inputs ...G.Value) error {
	if err := CheckArity(r, len(inputs)); err != nil {
		return err
	}

	t, ok := inputs[0].(tensor.Tensor)
	if !ok {
		return fmt.Errorf("expected tensor, received %T", inputs[0])
	} else if t == nil {
		return fmt.Errorf("cannot repeat nil tensor")
	} else if t.Size() == 0 {
		return fmt.Errorf("cannot repeat empty tensor")
	} else if r.axis >= len(t.Shape()) {
		return fmt.Errorf("axis [%v] out of range for tensor with shape %v",
			r.axis, t.Shape())
	}

	return nil
}
