package distribution

import (
	"fmt"
	"sync"

	"github.com/samuelfneumann/nbinom/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NegativeBinomial is a batch of Negative Binomial distributions over
// the number of successes in independent Bernoulli trials before
// totalCount failures occur, where each trial succeeds with probability
// probs:
//
//	P(X = k) = Γ(k + r) / (k! Γ(r)) p^k (1-p)^r,  k = 0, 1, 2, ...
//
// with r = totalCount and p = probs. The totalCount need not be an
// integer; the distribution is valid for any non-negative real r.
//
// The success probability is given either as probabilities or as
// log-odds through a Parametrization. The totalCount is broadcast
// against this parameter, and their common shape is the batch shape of
// the NegativeBinomial, each element of which defines a separate
// distribution. The other of probs and logits, and the Gamma
// distribution used for sampling, are built on first use and cached.
//
// Samples are drawn with the Gamma-Poisson mixture: a rate λ is drawn
// from Gamma(r, exp(-logits)), then a count is drawn from Poisson(λ).
//
// NegativeBinomial supports the following data types:
// - tensor.Float64
// - tensor.Float32
type NegativeBinomial struct {
	totalCount *G.Node
	param      Parametrization
	batchShape tensor.Shape

	validate bool
	seed     uint64
	seeds    *seedStream

	probsOnce sync.Once
	probs     *G.Node

	logitsOnce sync.Once
	logits     *G.Node

	gammaOnce sync.Once
	gamma     *Gamma
	gammaErr  error
}

// NewNegativeBinomial returns a new NegativeBinomial with the given
// total count of failures and success probability. The totalCount is
// cast to the dtype of the parameter and both are broadcast to a
// common shape.
//
// A *ConfigurationError is returned if param holds no node, a
// *BroadcastError if the shapes are incompatible, and, when validation
// is enabled, a *ValidationError if totalCount < 0 or probs is outside
// [0, 1).
func NewNegativeBinomial(totalCount *G.Node, param Parametrization,
	seed uint64, opts ...Option) (*NegativeBinomial, error) {
	if param.kind == noParam || param.node == nil {
		return nil, fmt.Errorf("newNegativeBinomial: %w", &ConfigurationError{
			Reason: "exactly one of probs or logits must be specified",
		})
	}
	if err := checkFloat(param.String(), param.node); err != nil {
		return nil, fmt.Errorf("newNegativeBinomial: %w", err)
	}
	if err := checkNumeric("total_count", totalCount); err != nil {
		return nil, fmt.Errorf("newNegativeBinomial: %w", err)
	}

	cfg := newConfig(opts)
	dt := param.node.Dtype()

	count, err := op.Cast(totalCount, dt)
	if err != nil {
		return nil, fmt.Errorf("newNegativeBinomial: %v", err)
	}
	p := param.node

	if cfg.validate {
		count, err = validateNode("total_count", count, totalCount.Value(),
			GreaterThanEq{0})
		if err != nil {
			return nil, fmt.Errorf("newNegativeBinomial: %w", err)
		}

		if param.kind == probsParam {
			p, err = validateNode("probs", p, p.Value(),
				HalfOpenInterval{0, 1})
			if err != nil {
				return nil, fmt.Errorf("newNegativeBinomial: %w", err)
			}
		}
	}

	params, shape, err := op.BroadcastAll(count, p)
	if err != nil {
		return nil, fmt.Errorf("newNegativeBinomial: %w", err)
	}

	nb := &NegativeBinomial{
		totalCount: params[0],
		param:      Parametrization{kind: param.kind, node: params[1]},
		batchShape: shape,
		validate:   cfg.validate,
		seed:       seed,
		seeds:      newSeedStream(seed),
	}
	if param.kind == probsParam {
		nb.probs = params[1]
	} else {
		nb.logits = params[1]
	}

	log.Debugf("constructed NegativeBinomial{batch=%v, param=%v, dtype=%v, "+
		"validate=%v}", shape, param, dt, cfg.validate)

	return nb, nil
}

// TotalCount returns the total count of failures, broadcast to the batch
// shape
func (n *NegativeBinomial) TotalCount() *G.Node { return n.totalCount }

// Probs returns the success probabilities. If the receiver was
// constructed from logits, the probabilities are computed on the first
// call and cached.
func (n *NegativeBinomial) Probs() *G.Node {
	n.probsOnce.Do(func() {
		if n.probs != nil {
			return
		}
		n.probs = G.Must(LogitsToProbs(n.logits))
		log.Debugf("materialized probs from logits for batch %v", n.batchShape)
	})
	return n.probs
}

// Logits returns the log-odds of success. If the receiver was
// constructed from probabilities, the logits are computed on the first
// call and cached.
func (n *NegativeBinomial) Logits() *G.Node {
	n.logitsOnce.Do(func() {
		if n.logits != nil {
			return
		}
		n.logits = G.Must(ProbsToLogits(n.probs))
		log.Debugf("materialized logits from probs for batch %v", n.batchShape)
	})
	return n.logits
}

// BatchShape returns the shape of the batch of distributions
func (n *NegativeBinomial) BatchShape() tensor.Shape {
	return n.batchShape.Clone()
}

// ParamShape returns the shape of the parameter, probs or logits, that
// the receiver was constructed with
func (n *NegativeBinomial) ParamShape() tensor.Shape {
	return n.param.node.Shape().Clone()
}

// Support returns the set of values with non-zero mass
func (n *NegativeBinomial) Support() Constraint { return NonNegativeInteger{} }

// Seed returns the seed from which the receiver's samplers are seeded
func (n *NegativeBinomial) Seed() uint64 { return n.seed }

// ValidateArgs returns whether the receiver validates its arguments
func (n *NegativeBinomial) ValidateArgs() bool { return n.validate }

// Mean returns totalCount * exp(logits)
func (n *NegativeBinomial) Mean() *G.Node {
	return G.Must(G.HadamardProd(n.totalCount, G.Must(G.Exp(n.Logits()))))
}

// Variance returns mean / sigmoid(-logits), that is, mean / (1 - probs)
func (n *NegativeBinomial) Variance() *G.Node {
	failure := G.Must(G.Sigmoid(G.Must(G.Neg(n.Logits()))))
	return G.Must(G.HadamardDiv(n.Mean(), failure))
}

// StdDev returns the square root of the variance
func (n *NegativeBinomial) StdDev() *G.Node {
	return G.Must(G.Sqrt(n.Variance()))
}

// mixing returns the Gamma distribution over Poisson rates whose mixture
// is the receiver, building it on first use
func (n *NegativeBinomial) mixing() (*Gamma, error) {
	n.gammaOnce.Do(func() {
		rate, err := G.Exp(G.Must(G.Neg(n.Logits())))
		if err != nil {
			n.gammaErr = err
			return
		}

		// A total count of 0 is valid here but not as a concentration
		n.gamma, n.gammaErr = NewGamma(n.totalCount, rate, n.seeds.next(),
			WithValidateArgs(false))
		if n.gammaErr == nil {
			log.Debugf("materialized mixing Gamma for batch %v", n.batchShape)
		}
	})
	return n.gamma, n.gammaErr
}

// Sample returns a node that draws counts of shape sampleShape followed
// by the batch shape each time the graph is run. A rate is drawn from
// the mixing Gamma distribution, and then a Poisson count with that
// rate. No gradient flows through the samples, and no gradient is
// recorded for the parameters by the sampling path.
func (n *NegativeBinomial) Sample(sampleShape ...int) (*G.Node, error) {
	gamma, err := n.mixing()
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	rate, err := gamma.Sample(sampleShape...)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}

	counts, err := PoissonRand(rate, n.seeds.next())
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	return counts, nil
}

// Rsample is not supported by the NegativeBinomial, since its samples
// are discrete, and always returns an error
func (n *NegativeBinomial) Rsample(sampleShape ...int) (*G.Node, error) {
	return nil, fmt.Errorf("rsample: NegativeBinomial does not support " +
		"reparameterized sampling")
}

// HasRsample returns false
func (n *NegativeBinomial) HasRsample() bool { return false }

// LogProb computes the log probability mass of value:
//
//	r log σ(-l) + k log σ(l) - log Γ(r + k) + log Γ(1 + k) + log Γ(r)
//
// where r is the total count, l the logits, k the value, and σ the
// sigmoid function. The shape of value must broadcast against the batch
// shape, and the output has the broadcast shape. With validation
// enabled, value must hold non-negative integers.
func (n *NegativeBinomial) LogProb(value *G.Node) (*G.Node, error) {
	value, err := prepareValue(value, n.param.node.Dtype(), n.validate,
		n.Support())
	if err != nil {
		return nil, fmt.Errorf("logProb: %w", err)
	}

	nodes, _, err := op.BroadcastAll(n.totalCount, n.Logits(), value)
	if err != nil {
		return nil, fmt.Errorf("logProb: %w", err)
	}
	count, logits, k := nodes[0], nodes[1], nodes[2]

	logFailure, err := op.LogSigmoid(G.Must(G.Neg(logits)))
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	logSuccess, err := op.LogSigmoid(logits)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	logUnnormalized := G.Must(G.Add(
		G.Must(G.HadamardProd(count, logFailure)),
		G.Must(G.HadamardProd(k, logSuccess)),
	))

	one := op.Scalar(k.Graph(), k.Dtype(), 1.0)
	lgammaCountK, err := op.Lgamma(G.Must(G.Add(count, k)))
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	lgammaK1, err := op.Lgamma(G.Must(G.Add(one, k)))
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	lgammaCount, err := op.Lgamma(count)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	logNormalization := G.Must(G.Neg(lgammaCountK))
	logNormalization = G.Must(G.Add(logNormalization, lgammaK1))
	logNormalization = G.Must(G.Add(logNormalization, lgammaCount))

	return G.Sub(logUnnormalized, logNormalization)
}

// Prob computes the probability mass of value. The shape of value is
// treated in the same way as LogProb.
func (n *NegativeBinomial) Prob(value *G.Node) (*G.Node, error) {
	logProb, err := n.LogProb(value)
	if err != nil {
		return nil, fmt.Errorf("prob: %w", err)
	}
	return G.Exp(logProb)
}

// Cdf computes P(X <= value) as the regularized incomplete beta function
//
//	I_{1-p}(r, ⌊k⌋ + 1)
//
// which is 0 for k < 0. The shape of value is treated in the same way as
// LogProb. The result is not differentiable.
func (n *NegativeBinomial) Cdf(value *G.Node) (*G.Node, error) {
	if err := checkNumeric("value", value); err != nil {
		return nil, fmt.Errorf("cdf: %w", err)
	}
	value, err := op.Cast(value, n.param.node.Dtype())
	if err != nil {
		return nil, fmt.Errorf("cdf: %v", err)
	}

	nodes, _, err := op.BroadcastAll(n.totalCount, n.Logits(), value)
	if err != nil {
		return nil, fmt.Errorf("cdf: %w", err)
	}
	count, logits, k := nodes[0], nodes[1], nodes[2]

	one := op.Scalar(k.Graph(), k.Dtype(), 1.0)
	b := G.Must(G.Add(G.Must(G.Floor(k)), one))
	failure := G.Must(G.Sigmoid(G.Must(G.Neg(logits))))

	cdf, err := op.RegIncBeta(count, b, failure)
	if err != nil {
		return nil, fmt.Errorf("cdf: %v", err)
	}
	return cdf, nil
}
