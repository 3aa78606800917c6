package op

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// BroadcastError is returned when shapes cannot be broadcast against
// each other
type BroadcastError struct {
	Shapes []tensor.Shape
}

func (b *BroadcastError) Error() string {
	return fmt.Sprintf("shapes %v cannot be broadcast together", b.Shapes)
}

// BroadcastShapes returns the shape that all the given shapes broadcast
// to. Shapes are aligned at their trailing dimensions, and a dimension of
// size 1 expands to match any other size. Missing leading dimensions are
// treated as size 1. A *BroadcastError is returned if two shapes have
// different sizes, neither of which is 1, at some dimension.
func BroadcastShapes(shapes ...tensor.Shape) (tensor.Shape, error) {
	dims := 0
	for _, s := range shapes {
		if len(s) > dims {
			dims = len(s)
		}
	}

	out := make(tensor.Shape, dims)
	for i := range out {
		out[i] = 1
	}

	for _, s := range shapes {
		offset := dims - len(s)
		for i, size := range s {
			switch {
			case size == out[offset+i] || size == 1:
			case out[offset+i] == 1:
				out[offset+i] = size
			default:
				return nil, &BroadcastError{Shapes: cloneShapes(shapes)}
			}
		}
	}

	return out, nil
}

// BroadcastTo expands x to shape, which must be a shape that x
// broadcasts to. Leading dimensions are added by reshaping, and
// dimensions of size 1 are expanded with Repeat, so the result is
// differentiable with respect to x.
func BroadcastTo(x *G.Node, shape tensor.Shape) (*G.Node, error) {
	xShape := x.Shape()
	if ShapeEq(xShape, shape) {
		return x, nil
	}

	common, err := BroadcastShapes(xShape, shape)
	if err != nil {
		return nil, fmt.Errorf("broadcastTo: %w", err)
	}
	if !ShapeEq(common, shape) {
		return nil, fmt.Errorf("broadcastTo: %w", &BroadcastError{
			Shapes: []tensor.Shape{xShape.Clone(), shape.Clone()},
		})
	}

	if len(xShape) == 0 {
		return broadcastScalar(x, shape)
	}

	padded := make(tensor.Shape, len(shape))
	offset := len(shape) - len(xShape)
	for i := range padded {
		if i < offset {
			padded[i] = 1
		} else {
			padded[i] = xShape[i-offset]
		}
	}

	out := x
	if !ShapeEq(xShape, padded) {
		out, err = G.Reshape(x, padded)
		if err != nil {
			return nil, fmt.Errorf("broadcastTo: could not reshape %v to %v: "+
				"%v", xShape, padded, err)
		}
	}

	for axis := range shape {
		if padded[axis] == shape[axis] {
			continue
		}
		out, err = Repeat(out, axis, shape[axis])
		if err != nil {
			return nil, fmt.Errorf("broadcastTo: %v", err)
		}
	}

	return out, nil
}

// broadcastScalar expands a scalar node by multiplying it with a
// constant tensor of ones, since scalar values cannot be reshaped
func broadcastScalar(x *G.Node, shape tensor.Shape) (*G.Node, error) {
	size := shape.TotalSize()
	ones := make([]float64, size)
	for i := range ones {
		ones[i] = 1
	}

	value, err := NewValue(x.Dtype(), shape, ones)
	if err != nil {
		return nil, fmt.Errorf("broadcastTo: %v", err)
	}

	out, err := G.Mul(x, x.Graph().Constant(value))
	if err != nil {
		return nil, fmt.Errorf("broadcastTo: could not expand scalar to %v: "+
			"%v", shape, err)
	}
	return out, nil
}

// BroadcastAll broadcasts all nodes to their common shape, returning the
// broadcast nodes in the same order together with the common shape
func BroadcastAll(nodes ...*G.Node) (G.Nodes, tensor.Shape, error) {
	shapes := make([]tensor.Shape, len(nodes))
	for i, n := range nodes {
		shapes[i] = n.Shape()
	}

	common, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, nil, fmt.Errorf("broadcastAll: %w", err)
	}

	out := make(G.Nodes, len(nodes))
	for i, n := range nodes {
		if out[i], err = BroadcastTo(n, common); err != nil {
			return nil, nil, fmt.Errorf("broadcastAll: %w", err)
		}
	}

	return out, common, nil
}

// ShapeEq reports whether two shapes have exactly the same dimensions.
// Unlike tensor.Shape.Eq, a vector is never equal to a column or row
// matrix.
func ShapeEq(a, b tensor.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneShapes(shapes []tensor.Shape) []tensor.Shape {
	out := make([]tensor.Shape, len(shapes))
	for i := range shapes {
		out[i] = shapes[i].Clone()
	}
	return out
}
