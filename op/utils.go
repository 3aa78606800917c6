package op

import (
	"fmt"
	"hash/fnv"

	"github.com/chewxy/hm"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// SimpleHash constructs the 32-bit FNV-1a hash of a Gorgonia Op.
// Taken from Gorgonia.
func SimpleHash(op G.Op) uint32 {
	h := fnv.New32a()
	op.WriteHash(h)
	return h.Sum32()
}

// CheckArity returns an error if op cannot be applied to the given
// number of inputs
func CheckArity(op G.Op, inputs int) error {
	if inputs != op.Arity() && op.Arity() >= 0 {
		return fmt.Errorf("%v has an arity of %d. Got %d instead", op,
			op.Arity(), inputs)
	}
	return nil
}

// Float64s returns the elements of a scalar or tensor value as a flat
// slice of float64s in row-major order. Values of dtype tensor.Float64,
// tensor.Float32, and tensor.Int are supported.
func Float64s(v G.Value) ([]float64, error) {
	switch val := v.(type) {
	case *G.F64:
		return []float64{float64(*val)}, nil

	case *G.F32:
		return []float64{float64(*val)}, nil

	case *G.I:
		return []float64{float64(*val)}, nil

	case *tensor.Dense:
		if val.IsView() {
			val = val.Materialize().(*tensor.Dense)
		}
		switch data := val.Data().(type) {
		case []float64:
			out := make([]float64, len(data))
			copy(out, data)
			return out, nil
		case []int:
			out := make([]float64, len(data))
			for i := range data {
				out[i] = float64(data[i])
			}
			return out, nil
		case int:
			return []float64{float64(data)}, nil
		case []float32:
			out := make([]float64, len(data))
			for i := range data {
				out[i] = float64(data[i])
			}
			return out, nil
		case float64:
			return []float64{data}, nil
		case float32:
			return []float64{float64(data)}, nil
		}
		return nil, fmt.Errorf("float64s: unsupported dtype %v", val.Dtype())

	case nil:
		return nil, fmt.Errorf("float64s: nil value")
	}

	return nil, fmt.Errorf("float64s: unsupported value type %T", v)
}

// NewValue returns a Gorgonia value of dtype dt and shape shape backed
// by data. If shape is a scalar shape, a *G.F64 or *G.F32 is returned.
func NewValue(dt tensor.Dtype, shape tensor.Shape, data []float64) (G.Value,
	error) {
	if shape.TotalSize() != len(data) && !(len(shape) == 0 && len(data) == 1) {
		return nil, fmt.Errorf("newValue: shape %v cannot hold %d elements",
			shape, len(data))
	}

	switch dt {
	case tensor.Float64:
		if len(shape) == 0 {
			return G.NewF64(data[0]), nil
		}
		return tensor.New(
			tensor.WithShape(shape.Clone()...),
			tensor.WithBacking(data),
		), nil

	case tensor.Float32:
		if len(shape) == 0 {
			return G.NewF32(float32(data[0])), nil
		}
		backing := make([]float32, len(data))
		for i := range data {
			backing[i] = float32(data[i])
		}
		return tensor.New(
			tensor.WithShape(shape.Clone()...),
			tensor.WithBacking(backing),
		), nil
	}

	return nil, fmt.Errorf("newValue: dtype %v unsupported", dt)
}

// mapValue applies a kernel to each element of v, returning a new value
// of the same shape and dtype
func mapValue(v G.Value, f64 func(float64) float64,
	f32 func(float32) float32) (G.Value, error) {
	switch val := v.(type) {
	case *G.F64:
		return G.NewF64(f64(float64(*val))), nil

	case *G.F32:
		return G.NewF32(f32(float32(*val))), nil

	case *tensor.Dense:
		if val.IsView() {
			val = val.Materialize().(*tensor.Dense)
		}
		switch data := val.Data().(type) {
		case []float64:
			out := make([]float64, len(data))
			for i, elem := range data {
				out[i] = f64(elem)
			}
			return tensor.New(
				tensor.WithShape(val.Shape().Clone()...),
				tensor.WithBacking(out),
			), nil

		case []float32:
			out := make([]float32, len(data))
			for i, elem := range data {
				out[i] = f32(elem)
			}
			return tensor.New(
				tensor.WithShape(val.Shape().Clone()...),
				tensor.WithBacking(out),
			), nil

		case float64:
			return G.NewF64(f64(data)), nil

		case float32:
			return G.NewF32(f32(data)), nil
		}
		return nil, fmt.Errorf("unsupported dtype %v", val.Dtype())
	}

	return nil, fmt.Errorf("unsupported value type %T", v)
}

// zipValues applies a binary kernel to each pair of elements of a and b,
// which must have the same dtype and number of elements. The output has
// the shape of a.
func zipValues(a, b G.Value, f64 func(x, y float64) float64) (G.Value,
	error) {
	x, err := Float64s(a)
	if err != nil {
		return nil, err
	}
	y, err := Float64s(b)
	if err != nil {
		return nil, err
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("cannot zip values with %d and %d elements",
			len(x), len(y))
	}

	out := make([]float64, len(x))
	for i := range x {
		out[i] = f64(x[i], y[i])
	}

	return NewValue(a.Dtype(), valueShape(a), out)
}

// valueShape returns the shape of v, treating Gorgonia scalars as having
// the scalar shape
func valueShape(v G.Value) tensor.Shape {
	switch v.(type) {
	case *G.F64, *G.F32:
		return tensor.ScalarShape()
	}
	return v.Shape().Clone()
}

// Scalar returns a constant scalar node on g of dtype dt holding v
func Scalar(g *G.ExprGraph, dt tensor.Dtype, v float64) *G.Node {
	if dt == tensor.Float32 {
		return g.Constant(G.NewF32(float32(v)))
	}
	return g.Constant(G.NewF64(v))
}

// outputType returns the Hindley-Milner type of a node of dtype dt with
// dims dimensions
func outputType(dt tensor.Dtype, dims int) hm.Type {
	if dims == 0 {
		return dt
	}
	return G.TensorType{Dims: dims, Of: dt}
}
