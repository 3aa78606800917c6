package distribution

import (
	"fmt"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GammaRand returns a node which samples from Gamma distributions with
// the given concentration and rate each time the graph is run. The
// concentration and rate must have the same dtype and shape, and the
// output has shape sampleShape followed by that shape. The output is
// not differentiable.
func GammaRand(concentration, rate *G.Node, seed uint64,
	sampleShape ...int) (*G.Node, error) {
	if concentration.Dtype() != rate.Dtype() {
		return nil, fmt.Errorf("gammaRand: concentration and rate should "+
			"have same dtype but got %v and %v", concentration.Dtype(),
			rate.Dtype())
	}

	if !op.ShapeEq(concentration.Shape(), rate.Shape()) {
		return nil, fmt.Errorf("gammaRand: concentration and rate should "+
			"have same shape but got %v and %v", concentration.Shape(),
			rate.Shape())
	}

	if err := checkSampleShape(sampleShape); err != nil {
		return nil, fmt.Errorf("gammaRand: %v", err)
	}

	g, err := newGammaSampleOp(concentration.Dtype(), seed,
		concentration.Shape(), tensor.Shape(sampleShape))
	if err != nil {
		return nil, fmt.Errorf("gammaRand: %v", err)
	}

	return G.ApplyOp(g, concentration, rate)
}

// PoissonRand returns a node which draws one sample from a Poisson
// distribution for each element of rate each time the graph is run. The
// output has the shape of rate and is not differentiable.
func PoissonRand(rate *G.Node, seed uint64) (*G.Node, error) {
	p, err := newPoissonSampleOp(rate.Dtype(), seed, rate.Shape())
	if err != nil {
		return nil, fmt.Errorf("poissonRand: %v", err)
	}

	return G.ApplyOp(p, rate)
}
