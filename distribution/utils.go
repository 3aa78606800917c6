package distribution

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ProbsToLogits converts probabilities to log-odds. Probabilities are
// first clamped to [eps, 1-eps], where eps is the machine epsilon of
// the dtype of probs, so that the output is always finite.
func ProbsToLogits(probs *G.Node) (*G.Node, error) {
	eps := op.Eps(probs.Dtype())
	clamped, err := op.Clamp(probs, eps, 1-eps, false)
	if err != nil {
		return nil, fmt.Errorf("probsToLogits: %v", err)
	}

	logP, err := G.Log(clamped)
	if err != nil {
		return nil, fmt.Errorf("probsToLogits: %v", err)
	}
	log1mP, err := G.Log1p(G.Must(G.Neg(clamped)))
	if err != nil {
		return nil, fmt.Errorf("probsToLogits: %v", err)
	}

	return G.Sub(logP, log1mP)
}

// LogitsToProbs converts log-odds to probabilities
func LogitsToProbs(logits *G.Node) (*G.Node, error) {
	return G.Sigmoid(logits)
}

// validateNode checks n against c. If bound is not nil, it is the value
// already held by the node n was built from and is checked immediately.
// The returned node additionally checks the values of n each time the
// graph is run, so that values bound later are also validated.
func validateNode(param string, n *G.Node, bound G.Value,
	c Constraint) (*G.Node, error) {
	if bound != nil {
		data, err := op.Float64s(bound)
		if err != nil {
			return nil, fmt.Errorf("could not read %v: %v", param, err)
		}
		if bad := violations(data, c); len(bad) > 0 {
			return nil, &ValidationError{
				Param:      param,
				Constraint: c,
				Values:     bad,
			}
		}
	}

	return op.Check(n, param, c.Check, func(bad []float64) error {
		return &ValidationError{Param: param, Constraint: c, Values: bad}
	})
}

// violations returns the elements of data which do not satisfy c
func violations(data []float64, c Constraint) []float64 {
	var bad []float64
	for _, x := range data {
		if !c.Check(x) {
			bad = append(bad, x)
		}
	}
	return bad
}

// checkFloat returns an error if n does not hold floating point values
func checkFloat(name string, n *G.Node) error {
	if n == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("%v is nil", name)}
	}

	switch n.Dtype() {
	case tensor.Float64, tensor.Float32:
		return nil
	}
	return &ConfigurationError{
		Reason: fmt.Sprintf("%v has dtype %v, expected a floating point "+
			"dtype", name, n.Dtype()),
	}
}

// checkNumeric is like checkFloat, but also accepts integer nodes, which
// are cast before use
func checkNumeric(name string, n *G.Node) error {
	if n != nil && n.Dtype() == tensor.Int {
		return nil
	}
	return checkFloat(name, n)
}

// prepareValue readies a value passed to LogProb or a similar method:
// x is cast to dtype dt and, if validate is true, checked against the
// support of the distribution
func prepareValue(x *G.Node, dt tensor.Dtype, validate bool,
	support Constraint) (*G.Node, error) {
	if err := checkNumeric("value", x); err != nil {
		return nil, err
	}

	bound := x.Value()
	x, err := op.Cast(x, dt)
	if err != nil {
		return nil, err
	}

	if !validate {
		return x, nil
	}
	return validateNode("value", x, bound, support)
}

// checkSampleShape returns an error if any dimension of a sample shape
// is not positive
func checkSampleShape(sampleShape []int) error {
	for _, dim := range sampleShape {
		if dim <= 0 {
			return fmt.Errorf("sample shape must have positive dimensions "+
				"but got %v", sampleShape)
		}
	}
	return nil
}

// numel returns the number of elements of a tensor of shape shape
func numel(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}

// seedStream generates a deterministic sequence of seeds for the sample
// ops of a distribution, so that each call to Sample draws from its own
// source
type seedStream struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSeedStream(seed uint64) *seedStream {
	return &seedStream{rng: rand.New(rand.NewSource(seed))}
}

func (s *seedStream) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint64()
}
