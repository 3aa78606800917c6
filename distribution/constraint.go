package distribution

import (
	"fmt"
	"math"
)

// Constraint is a set of valid values for a parameter or sample
type Constraint interface {
	fmt.Stringer

	// Check returns whether x satisfies the constraint
	Check(x float64) bool
}

// GreaterThanEq constrains values to [Lower, ∞)
type GreaterThanEq struct {
	Lower float64
}

func (g GreaterThanEq) Check(x float64) bool { return x >= g.Lower }

func (g GreaterThanEq) String() string {
	return fmt.Sprintf("GreaterThanEq(lower_bound=%v)", g.Lower)
}

// GreaterThan constrains values to (Lower, ∞)
type GreaterThan struct {
	Lower float64
}

func (g GreaterThan) Check(x float64) bool { return x > g.Lower }

func (g GreaterThan) String() string {
	return fmt.Sprintf("GreaterThan(lower_bound=%v)", g.Lower)
}

// HalfOpenInterval constrains values to [Lower, Upper)
type HalfOpenInterval struct {
	Lower, Upper float64
}

func (h HalfOpenInterval) Check(x float64) bool {
	return x >= h.Lower && x < h.Upper
}

func (h HalfOpenInterval) String() string {
	return fmt.Sprintf("HalfOpenInterval(lower_bound=%v, upper_bound=%v)",
		h.Lower, h.Upper)
}

// NonNegativeInteger constrains values to {0, 1, 2, ...}
type NonNegativeInteger struct{}

func (NonNegativeInteger) Check(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1) && x == math.Floor(x)
}

func (NonNegativeInteger) String() string { return "NonNegativeInteger()" }

// Real constrains values to the extended real line, excluding NaN
type Real struct{}

func (Real) Check(x float64) bool { return !math.IsNaN(x) }

func (Real) String() string { return "Real()" }
