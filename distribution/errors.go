package distribution

import (
	"fmt"

	"github.com/samuelfneumann/nbinom/op"
)

// ConfigurationError is returned when a distribution is constructed
// with an invalid combination of arguments
type ConfigurationError struct {
	Reason string
}

func (c *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", c.Reason)
}

// BroadcastError is returned when parameters or values have shapes that
// cannot be broadcast together
type BroadcastError = op.BroadcastError

// ValidationError is returned when validation is enabled and a parameter
// or value violates its constraint
type ValidationError struct {
	Param      string
	Constraint Constraint
	Values     []float64
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%v must satisfy %v but found invalid values %v",
		v.Param, v.Constraint, v.Values)
}

// AsValidationError finds the first *ValidationError in the chain of
// err. Errors returned by running a graph are wrapped by Gorgonia,
// which does not always support errors.As, so the chain is walked
// through Unwrap, Cause, and Err methods.
func AsValidationError(err error) (*ValidationError, bool) {
	for err != nil {
		if v, ok := err.(*ValidationError); ok {
			return v, true
		}

		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		case interface{ Err() error }:
			err = e.Err()
		default:
			return nil, false
		}
	}

	return nil, false
}
