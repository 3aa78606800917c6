// Package op provides extended operations for Gorgonia
package op

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Repeat repeats each element of x repeats times along axis
func Repeat(x *G.Node, axis, repeats int) (*G.Node, error) {
	op, err := newRepeatOp(axis, repeats)
	if err != nil {
		return nil, fmt.Errorf("repeat: %v", err)
	}

	return G.ApplyOp(op, x)
}

// Clamp clamps a node's values to be between min and max. This function
// can clamp a node storing float64's or float32's. If passGradient is
// true, then the gradient is passed through the clamping operation:
//
//	grad = 1
//
// Otherwise, the regular clamp gradient is used:
//
//	       { 1 if min <= x <= max
//	grad = {
//	       { 0 otherwise
func Clamp(x *G.Node, min, max float64, passGradient bool) (*G.Node,
	error) {
	op, err := newClampOp(min, max, passGradient)
	if err != nil {
		return nil, fmt.Errorf("clamp: %v", err)
	}

	return G.ApplyOp(op, x)
}

// Lgamma computes the element-wise log of the absolute value of the
// gamma function. The gradient is the digamma function.
func Lgamma(x *G.Node) (*G.Node, error) {
	op := newLgammaOp()

	return G.ApplyOp(op, x)
}

// Digamma computes the element-wise digamma function. The result is not
// differentiable.
func Digamma(x *G.Node) (*G.Node, error) {
	op := newDigammaOp()

	return G.ApplyOp(op, x)
}

// LogSigmoid computes log(1 / (1 + exp(-x))) element-wise, without
// overflowing for large |x|
func LogSigmoid(x *G.Node) (*G.Node, error) {
	return G.ApplyOp(&logSigmoidOp{}, x)
}

// Cast converts x to dtype to. If x already has dtype to, it is returned
// unchanged.
func Cast(x *G.Node, to tensor.Dtype) (*G.Node, error) {
	if x.Dtype() == to {
		return x, nil
	}

	op, err := newCastOp(x.Dtype(), to, x.Dims())
	if err != nil {
		return nil, fmt.Errorf("cast: %v", err)
	}

	return G.ApplyOp(op, x)
}

// StopGradient returns a node with the same value as x through which no
// gradient flows. Use it to mark the inputs of non-differentiable
// regions of a graph, such as sampling.
func StopGradient(x *G.Node) (*G.Node, error) {
	return G.ApplyOp(&stopGradientOp{}, x)
}

// Check returns a node with the same value as x which, when the graph is
// run, fails with the error returned by fail if any element of x does not
// satisfy ok. The name identifies the check in the graph.
func Check(x *G.Node, name string, ok func(float64) bool,
	fail func(bad []float64) error) (*G.Node, error) {
	if ok == nil || fail == nil {
		return nil, fmt.Errorf("check: predicate and failure must be non-nil")
	}

	return G.ApplyOp(&checkOp{name: name, ok: ok, fail: fail}, x)
}

// RegIncBeta computes the regularized incomplete beta function I_x(a, b)
// element-wise. All three nodes must have the same shape. The result is
// not differentiable.
func RegIncBeta(a, b, x *G.Node) (*G.Node, error) {
	return G.ApplyOp(&regIncBetaOp{}, a, b, x)
}

// Eps returns the machine epsilon of a floating point dtype
func Eps(dt tensor.Dtype) float64 {
	if dt == tensor.Float32 {
		return float64(math.Nextafter32(1, 2) - 1)
	}
	return math.Nextafter(1, 2) - 1
}
