package distribution

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestConstraints(t *testing.T) {
	tests := []struct {
		c        Constraint
		accepted []float64
		rejected []float64
	}{
		{
			GreaterThanEq{0},
			[]float64{0, 1e-300, 3.5, math.Inf(1)},
			[]float64{-1e-300, -2, math.NaN()},
		},
		{
			GreaterThan{0},
			[]float64{1e-300, 3.5},
			[]float64{0, -1, math.NaN()},
		},
		{
			HalfOpenInterval{0, 1},
			[]float64{0, 0.5, math.Nextafter(1, 0)},
			[]float64{1, -0.1, 2, math.NaN()},
		},
		{
			NonNegativeInteger{},
			[]float64{0, 1, 7, 1e6},
			[]float64{-1, 0.5, math.Inf(1), math.NaN()},
		},
		{
			Real{},
			[]float64{-1, 0, math.Inf(-1)},
			[]float64{math.NaN()},
		},
	}

	for _, test := range tests {
		for _, x := range test.accepted {
			if !test.c.Check(x) {
				t.Errorf("%v: expected %v to be accepted", test.c, x)
			}
		}
		for _, x := range test.rejected {
			if test.c.Check(x) {
				t.Errorf("%v: expected %v to be rejected", test.c, x)
			}
		}
	}
}

// causer mimics errors which expose their cause through a Cause method
type causer struct {
	msg   string
	cause error
}

func (c *causer) Error() string { return c.msg + ": " + c.cause.Error() }

func (c *causer) Cause() error { return c.cause }

func TestAsValidationError(t *testing.T) {
	v := &ValidationError{
		Param:      "probs",
		Constraint: HalfOpenInterval{0, 1},
		Values:     []float64{1.5},
	}

	wrapped := fmt.Errorf("logProb: %w", &causer{msg: "PC: 3", cause: v})
	found, ok := AsValidationError(wrapped)
	if !ok || found != v {
		t.Errorf("expected to find %v in %v", v, wrapped)
	}

	if _, ok := AsValidationError(errors.New("other")); ok {
		t.Error("expected no ValidationError to be found")
	}
	if _, ok := AsValidationError(nil); ok {
		t.Error("expected no ValidationError to be found in nil")
	}
}
