package distribution

import "sync/atomic"

var defaultValidateArgs int32

// SetDefaultValidateArgs sets whether distributions constructed without
// the WithValidateArgs option validate their arguments. The default is
// false.
func SetDefaultValidateArgs(validate bool) {
	var v int32
	if validate {
		v = 1
	}
	atomic.StoreInt32(&defaultValidateArgs, v)
}

// DefaultValidateArgs returns whether distributions validate their
// arguments by default
func DefaultValidateArgs() bool {
	return atomic.LoadInt32(&defaultValidateArgs) == 1
}

type config struct {
	validate bool
}

func newConfig(opts []Option) config {
	c := config{validate: DefaultValidateArgs()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures a distribution at construction
type Option func(*config)

// WithValidateArgs sets whether the distribution checks its parameters
// and the values passed to LogProb against their constraints. Without
// validation, invalid inputs produce undefined outputs such as NaN.
func WithValidateArgs(validate bool) Option {
	return func(c *config) {
		c.validate = validate
	}
}
