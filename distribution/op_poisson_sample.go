package distribution

import (
	"fmt"
	"hash"
	"math"

	"golang.org/x/exp/rand"

	"github.com/chewxy/hm"
	"github.com/samuelfneumann/nbinom/op"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// poissonSampleOp draws one sample from a Poisson distribution for each
// element of its rate input. Each run of the graph draws new samples.
type poissonSampleOp struct {
	dt     tensor.Dtype
	shape  tensor.Shape
	dist   distuv.Poisson
	source rand.Source
	seed   uint64
}

func newPoissonSampleOp(dt tensor.Dtype, seed uint64,
	shape tensor.Shape) (*poissonSampleOp, error) {
	if dt != tensor.Float64 && dt != tensor.Float32 {
		return nil, fmt.Errorf("newPoissonSampleOp: dtype %v not supported",
			dt)
	}

	source := rand.NewSource(seed)

	return &poissonSampleOp{
		dt:     dt,
		shape:  shape.Clone(),
		source: source,
		dist: distuv.Poisson{
			Lambda: 1.0,
			Src:    source,
		},
		seed: seed,
	}, nil
}

func (p *poissonSampleOp) Arity() int { return 1 }

func (p *poissonSampleOp) Type() hm.Type {
	t := sampleType(p.dt, len(p.shape))
	return hm.NewFnType(t, t)
}

func (p *poissonSampleOp) InferShape(...G.DimSizer) (tensor.Shape, error) {
	return p.shape.Clone(), nil
}

func (p *poissonSampleOp) ReturnsPtr() bool { return false }

func (p *poissonSampleOp) CallsExtern() bool { return false }

func (p *poissonSampleOp) OverwritesInput() int { return -1 }

func (p *poissonSampleOp) String() string {
	return fmt.Sprintf("PoissonSample{seed=%v, shape=%v}()", p.seed, p.shape)
}

func (p *poissonSampleOp) WriteHash(h hash.Hash) {
	fmt.Fprint(h, p.String())
}

func (p *poissonSampleOp) Hashcode() uint32 {
	return op.SimpleHash(p)
}

func (p *poissonSampleOp) DiffWRT(inputs int) []bool {
	return make([]bool, inputs)
}

func (p *poissonSampleOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	return nil, fmt.Errorf("symDiff: %v is not differentiable", p)
}

func (p *poissonSampleOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := op.CheckArity(p, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	rate := inputs[0]
	if rate == nil {
		return nil, fmt.Errorf("do: cannot sample from nil rate")
	} else if !rate.Dtype().Eq(p.dt) {
		return nil, fmt.Errorf("do: expected rate to have dtype %v but got %v",
			p.dt, rate.Dtype())
	}

	data, err := op.Float64s(rate)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	if len(data) != numel(p.shape) {
		return nil, fmt.Errorf("do: expected rate to have shape %v but got %v",
			p.shape, rate.Shape())
	}

	out := make([]float64, len(data))
	for i, lambda := range data {
		out[i] = p.draw(lambda)
	}

	return op.NewValue(p.dt, p.shape, out)
}

// draw samples a single Poisson variate. A zero rate gives 0 and an
// infinite rate gives +Inf. Negative or NaN rates give NaN.
func (p *poissonSampleOp) draw(lambda float64) float64 {
	switch {
	case math.IsNaN(lambda) || lambda < 0:
		return math.NaN()
	case lambda == 0:
		return 0
	case math.IsInf(lambda, 1):
		return math.Inf(1)
	}

	p.dist.Lambda = lambda
	return p.dist.Rand()
}
