package op

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ReduceAdd sums x along axis. If keepDims is true, the reduced axis is
// kept with size 1.
func ReduceAdd(x *G.Node, axis int, keepDims bool) (*G.Node, error) {
	if axis < 0 || axis >= x.Dims() {
		return nil, fmt.Errorf("reduceAdd: axis [%v] out of range for shape "+
			"%v", axis, x.Shape())
	}

	sum, err := G.Sum(x, axis)
	if err != nil {
		return nil, fmt.Errorf("reduceAdd: %v", err)
	}

	return reduced(sum, x.Shape(), axis, keepDims)
}

// ReduceProd calculates the product of x along axis. If keepDims is
// true, the reduced axis is kept with size 1.
func ReduceProd(x *G.Node, axis int, keepDims bool) (*G.Node, error) {
	shape := x.Shape()
	if axis < 0 || axis >= len(shape) {
		return nil, fmt.Errorf("reduceProd: axis [%v] out of range for "+
			"shape %v", axis, shape)
	}

	// Slice out each index along the axis and multiply
	dims := make([]tensor.Slice, len(shape))
	dims[axis] = G.S(0)
	prod, err := G.Slice(x, dims...)
	if err != nil {
		return nil, fmt.Errorf("reduceProd: %v", err)
	}

	for i := 1; i < shape[axis]; i++ {
		dims[axis] = G.S(i)

		s, err := G.Slice(x, dims...)
		if err != nil {
			return nil, fmt.Errorf("reduceProd: %v", err)
		}
		if prod, err = G.HadamardProd(prod, s); err != nil {
			return nil, fmt.Errorf("reduceProd: %v", err)
		}
	}

	return reduced(prod, shape, axis, keepDims)
}

// reduced reshapes the result of reducing a node of shape from along
// axis so that it has the expected shape
func reduced(x *G.Node, from tensor.Shape, axis int,
	keepDims bool) (*G.Node, error) {
	to := make(tensor.Shape, 0, len(from))
	to = append(to, from[:axis]...)
	if keepDims {
		to = append(to, 1)
	}
	to = append(to, from[axis+1:]...)

	if ShapeEq(x.Shape(), to) {
		return x, nil
	}
	return G.Reshape(x, to)
}
