// Package distribution provides probability distributions
package distribution

import (
	"github.com/op/go-logging"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var log = logging.MustGetLogger("distribution")

// Construction and cache tracing is logged at DEBUG. The package stays
// quiet below WARNING until a backend with its own levels is installed,
// such as by logger.NewLogger.
func init() {
	logging.SetLevel(logging.WARNING, "distribution")
}

// Distribution is a batch of probability distributions over the
// elements of a tensor. Each element of the batch shape holds a
// separate, independent distribution.
type Distribution interface {
	// BatchShape returns the shape of the batch of distributions
	BatchShape() tensor.Shape

	// LogProb returns the log of the probability density or mass of
	// the node. The shape of the node must broadcast against the
	// batch shape of the distribution, and the output has the
	// broadcast shape.
	LogProb(*G.Node) (*G.Node, error)

	// Prob returns the probability density or mass of the
	// node. The shape of the node is treated as in LogProb.
	Prob(*G.Node) (*G.Node, error)

	Mean() *G.Node
	StdDev() *G.Node
	Variance() *G.Node

	// Sample returns a node that generates samples from the
	// distribution each time the graph is run. The output has shape
	// sampleShape followed by the batch shape. This function is not
	// differentiable.
	Sample(sampleShape ...int) (*G.Node, error)

	// Rsample returns a node that generates reparameterized samples
	// from the distribution each time the graph is run. This
	// function is differentiable.
	Rsample(sampleShape ...int) (*G.Node, error)

	// Returns whether the distribution has reparameterized samples or
	// not
	HasRsample() bool
}

// Cdfer is a Distribution that can compute its cumulative distribution
// function
type Cdfer interface {
	Distribution
	Cdf(*G.Node) (*G.Node, error)
}

// Entropier is a Distribution that can compute its entropy
type Entropier interface {
	Distribution
	Entropy() (*G.Node, error)
}
