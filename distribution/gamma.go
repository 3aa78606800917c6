package distribution

import (
	"fmt"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Gamma is a batch of Gamma distributions parameterized by a
// concentration (shape) α and a rate β, with density
//
//	p(x) = β^α x^(α-1) exp(-βx) / Γ(α),  x > 0
//
// The concentration and rate are broadcast against each other, and their
// common shape is the batch shape of the Gamma. Each element of the batch
// shape defines a separate distribution element-wise:
//
//	concentration := [α_1, α_2, ..., α_N]
//	rate          := [β_1, β_2, ..., β_N]
//
// is the batch [Γ(α_1, β_1), Γ(α_2, β_2), ..., Γ(α_N, β_N)].
//
// Gamma supports the following data types:
// - tensor.Float64
// - tensor.Float32
type Gamma struct {
	concentration *G.Node
	rate          *G.Node
	batchShape    tensor.Shape

	validate bool
	seed     uint64
	seeds    *seedStream
}

// NewGamma returns a new Gamma. The concentration and rate must have the
// same floating point dtype and broadcastable shapes.
func NewGamma(concentration, rate *G.Node, seed uint64,
	opts ...Option) (*Gamma, error) {
	if err := checkFloat("concentration", concentration); err != nil {
		return nil, fmt.Errorf("newGamma: %w", err)
	}
	if err := checkFloat("rate", rate); err != nil {
		return nil, fmt.Errorf("newGamma: %w", err)
	}
	if concentration.Dtype() != rate.Dtype() {
		return nil, fmt.Errorf("newGamma: %w", &ConfigurationError{
			Reason: fmt.Sprintf("concentration and rate should have the "+
				"same dtype but got %v and %v", concentration.Dtype(),
				rate.Dtype()),
		})
	}

	cfg := newConfig(opts)

	var err error
	if cfg.validate {
		concentration, err = validateNode("concentration", concentration,
			concentration.Value(), GreaterThan{0})
		if err != nil {
			return nil, fmt.Errorf("newGamma: %w", err)
		}
		rate, err = validateNode("rate", rate, rate.Value(), GreaterThan{0})
		if err != nil {
			return nil, fmt.Errorf("newGamma: %w", err)
		}
	}

	params, shape, err := op.BroadcastAll(concentration, rate)
	if err != nil {
		return nil, fmt.Errorf("newGamma: %w", err)
	}

	gamma := &Gamma{
		concentration: params[0],
		rate:          params[1],
		batchShape:    shape,
		validate:      cfg.validate,
		seed:          seed,
		seeds:         newSeedStream(seed),
	}
	log.Debugf("constructed Gamma{batch=%v, dtype=%v, validate=%v}", shape,
		concentration.Dtype(), cfg.validate)

	return gamma, nil
}

// Concentration returns the broadcast concentration of the receiver
func (g *Gamma) Concentration() *G.Node { return g.concentration }

// Rate returns the broadcast rate of the receiver
func (g *Gamma) Rate() *G.Node { return g.rate }

// BatchShape returns the shape of the batch of distributions
func (g *Gamma) BatchShape() tensor.Shape { return g.batchShape.Clone() }

// Support returns the set of values with non-zero density
func (g *Gamma) Support() Constraint { return GreaterThan{0} }

// Seed returns the seed from which the receiver's samplers are seeded
func (g *Gamma) Seed() uint64 { return g.seed }

// ValidateArgs returns whether the receiver validates its arguments
func (g *Gamma) ValidateArgs() bool { return g.validate }

// Mean returns α / β
func (g *Gamma) Mean() *G.Node {
	return G.Must(G.HadamardDiv(g.concentration, g.rate))
}

// Variance returns α / β²
func (g *Gamma) Variance() *G.Node {
	return G.Must(G.HadamardDiv(g.concentration, G.Must(G.Square(g.rate))))
}

// StdDev returns the square root of the variance
func (g *Gamma) StdDev() *G.Node {
	return G.Must(G.Sqrt(g.Variance()))
}

// LogProb computes
//
//	α log(β) + (α-1) log(x) - βx - log Γ(α)
//
// element-wise. The shape of x must broadcast against the batch shape,
// and the output has the broadcast shape.
func (g *Gamma) LogProb(x *G.Node) (*G.Node, error) {
	x, err := prepareValue(x, g.concentration.Dtype(), g.validate,
		g.Support())
	if err != nil {
		return nil, fmt.Errorf("logProb: %w", err)
	}

	nodes, _, err := op.BroadcastAll(g.concentration, g.rate, x)
	if err != nil {
		return nil, fmt.Errorf("logProb: %w", err)
	}
	alpha, beta, x := nodes[0], nodes[1], nodes[2]
	one := op.Scalar(x.Graph(), x.Dtype(), 1.0)

	lgammaAlpha, err := op.Lgamma(alpha)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	logProb := G.Must(G.HadamardProd(alpha, G.Must(G.Log(beta))))
	alphaMinusOne := G.Must(G.Sub(alpha, one))
	xTerm := G.Must(G.HadamardProd(alphaMinusOne, G.Must(G.Log(x))))
	logProb = G.Must(G.Add(logProb, xTerm))
	logProb = G.Must(G.Sub(logProb, G.Must(G.HadamardProd(beta, x))))
	logProb = G.Must(G.Sub(logProb, lgammaAlpha))

	return logProb, nil
}

// Prob computes the density of x. The shape of x is treated in the same
// way as LogProb.
func (g *Gamma) Prob(x *G.Node) (*G.Node, error) {
	logProb, err := g.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("prob: %w", err)
	}
	return G.Exp(logProb)
}

// Entropy returns
//
//	α - log(β) + log Γ(α) + (1-α) ψ(α)
//
// where ψ is the digamma function. The entropy is not differentiable
// with respect to the concentration.
func (g *Gamma) Entropy() (*G.Node, error) {
	alpha := g.concentration
	one := op.Scalar(alpha.Graph(), alpha.Dtype(), 1.0)

	lgammaAlpha, err := op.Lgamma(alpha)
	if err != nil {
		return nil, fmt.Errorf("entropy: %v", err)
	}
	digammaAlpha, err := op.Digamma(alpha)
	if err != nil {
		return nil, fmt.Errorf("entropy: %v", err)
	}

	entropy := G.Must(G.Sub(alpha, G.Must(G.Log(g.rate))))
	entropy = G.Must(G.Add(entropy, lgammaAlpha))
	oneMinusAlpha := G.Must(G.Sub(one, alpha))
	entropy = G.Must(G.Add(entropy, G.Must(G.HadamardProd(oneMinusAlpha,
		digammaAlpha))))

	return entropy, nil
}

// Sample returns a node that draws samples of shape sampleShape followed
// by the batch shape each time the graph is run. No gradient flows
// through the samples.
func (g *Gamma) Sample(sampleShape ...int) (*G.Node, error) {
	concentration, err := op.StopGradient(g.concentration)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}
	rate, err := op.StopGradient(g.rate)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	samples, err := GammaRand(concentration, rate, g.seeds.next(),
		sampleShape...)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	return samples, nil
}

// Rsample is not supported by the Gamma and always returns an error
func (g *Gamma) Rsample(sampleShape ...int) (*G.Node, error) {
	return nil, fmt.Errorf("rsample: Gamma does not support " +
		"reparameterized sampling")
}

// HasRsample returns false
func (g *Gamma) HasRsample() bool { return false }
