package distribution

import (
	"fmt"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// IID reinterprets the trailing dims batch dimensions of a Distribution
// as event dimensions. The distributions over those dimensions are
// treated as independent and identically parameterized components of a
// single joint distribution, so that LogProb sums, and Prob and Cdf
// multiply, over the event dimensions.
//
// For example, a NegativeBinomial with batch shape (5, 3) wrapped in an
// IID with dims = 1 has batch shape (5), and the log probability of a
// value of shape (5, 3) has shape (5).
type IID struct {
	Distribution
	dims int // The number of batch dimensions to interpret as events
}

// NewIID returns a new IID which interprets the trailing dims batch
// dimensions of d as event dimensions
func NewIID(d Distribution, dims int) (*IID, error) {
	if dims < 0 || dims > len(d.BatchShape()) {
		return nil, fmt.Errorf("newIID: cannot interpret %v dims of batch "+
			"shape %v as event dims", dims, d.BatchShape())
	}
	return &IID{d, dims}, nil
}

// Dims returns the number of event dims
func (i *IID) Dims() int { return i.dims }

// BatchShape returns the batch shape of the wrapped distribution with
// the event dimensions removed
func (i *IID) BatchShape() tensor.Shape {
	shape := i.Distribution.BatchShape()
	return shape[:len(shape)-i.dims].Clone()
}

// EventShape returns the trailing dimensions of the wrapped
// distribution's batch shape which are interpreted as events
func (i *IID) EventShape() tensor.Shape {
	shape := i.Distribution.BatchShape()
	return shape[len(shape)-i.dims:].Clone()
}

// LogProb returns the sum of the log probabilities of the wrapped
// distribution over the event dimensions
func (i *IID) LogProb(x *G.Node) (*G.Node, error) {
	if x.Dims() < i.dims {
		return nil, fmt.Errorf("logProb: expected dims >= %v but got %v",
			i.dims, x.Dims())
	}

	x, err := i.Distribution.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProb: could not compute iid log prob: %w",
			err)
	}

	x, err = i.combine(x, op.ReduceAdd)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	return x, nil
}

// Prob returns the product of the probabilities of the wrapped
// distribution over the event dimensions
func (i *IID) Prob(x *G.Node) (*G.Node, error) {
	if x.Dims() < i.dims {
		return nil, fmt.Errorf("prob: expected dims >= %v but got %v", i.dims,
			x.Dims())
	}

	x, err := i.Distribution.Prob(x)
	if err != nil {
		return nil, fmt.Errorf("prob: could not compute iid prob: %w", err)
	}

	x, err = i.combine(x, op.ReduceProd)
	if err != nil {
		return nil, fmt.Errorf("prob: %v", err)
	}
	return x, nil
}

// Cdf returns the product of the CDFs of the wrapped distribution over
// the event dimensions. An error is returned if the wrapped distribution
// does not implement Cdfer.
func (i *IID) Cdf(x *G.Node) (*G.Node, error) {
	cdfer, ok := i.Distribution.(Cdfer)
	if !ok {
		return nil, fmt.Errorf("cdf: %T does not have a cdf", i.Distribution)
	}
	if x.Dims() < i.dims {
		return nil, fmt.Errorf("cdf: expected dims >= %v but got %v", i.dims,
			x.Dims())
	}

	x, err := cdfer.Cdf(x)
	if err != nil {
		return nil, fmt.Errorf("cdf: could not compute iid cdf: %w", err)
	}

	x, err = i.combine(x, op.ReduceProd)
	if err != nil {
		return nil, fmt.Errorf("cdf: %v", err)
	}
	return x, nil
}

// Entropy returns the sum of the entropies of the wrapped distribution
// over the event dimensions. An error is returned if the wrapped
// distribution does not implement Entropier.
func (i *IID) Entropy() (*G.Node, error) {
	entropier, ok := i.Distribution.(Entropier)
	if !ok {
		return nil, fmt.Errorf("entropy: %T does not have an entropy",
			i.Distribution)
	}

	x, err := entropier.Entropy()
	if err != nil {
		return nil, fmt.Errorf("entropy: could not take entropy of each "+
			"i.i.d. variable: %w", err)
	}

	x, err = i.combine(x, op.ReduceAdd)
	if err != nil {
		return nil, fmt.Errorf("entropy: %v", err)
	}
	return x, nil
}

// combine reduces the trailing event dims of x
func (i *IID) combine(x *G.Node, reduce func(*G.Node, int,
	bool) (*G.Node, error)) (*G.Node, error) {
	var err error
	for j := 0; j < i.dims; j++ {
		x, err = reduce(x, x.Dims()-1, false)
		if err != nil {
			return nil, fmt.Errorf("could not combine event dims: %v", err)
		}
	}
	return x, nil
}
