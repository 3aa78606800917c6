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

// gammaSampleOp draws samples from a batch of Gamma distributions given
// their concentrations and rates. The output has shape sampleShape
// followed by the batch shape. Each run of the graph draws new samples.
type gammaSampleOp struct {
	dt          tensor.Dtype
	batchShape  tensor.Shape
	sampleShape tensor.Shape
	dist        distuv.Gamma
	source      rand.Source
	seed        uint64
}

func newGammaSampleOp(dt tensor.Dtype, seed uint64, batchShape,
	sampleShape tensor.Shape) (*gammaSampleOp, error) {
	if dt != tensor.Float64 && dt != tensor.Float32 {
		return nil, fmt.Errorf("newGammaSampleOp: dtype %v not supported",
			dt)
	}

	source := rand.NewSource(seed)

	return &gammaSampleOp{
		dt:          dt,
		batchShape:  batchShape.Clone(),
		sampleShape: sampleShape.Clone(),
		source:      source,
		dist: distuv.Gamma{
			Alpha: 1.0,
			Beta:  1.0,
			Src:   source,
		},
		seed: seed,
	}, nil
}

func (g *gammaSampleOp) Arity() int { return 2 }

func (g *gammaSampleOp) Type() hm.Type {
	in := sampleType(g.dt, len(g.batchShape))
	out := sampleType(g.dt, len(g.sampleShape)+len(g.batchShape))

	return hm.NewFnType(in, in, out)
}

func (g *gammaSampleOp) InferShape(...G.DimSizer) (tensor.Shape, error) {
	return g.outShape(), nil
}

func (g *gammaSampleOp) ReturnsPtr() bool { return false }

func (g *gammaSampleOp) CallsExtern() bool { return false }

func (g *gammaSampleOp) OverwritesInput() int { return -1 }

func (g *gammaSampleOp) String() string {
	return fmt.Sprintf("GammaSample{seed=%v, shape=%v}()", g.seed,
		g.outShape())
}

func (g *gammaSampleOp) WriteHash(h hash.Hash) {
	fmt.Fprint(h, g.String())
}

func (g *gammaSampleOp) Hashcode() uint32 {
	return op.SimpleHash(g)
}

func (g *gammaSampleOp) DiffWRT(inputs int) []bool {
	return make([]bool, inputs)
}

func (g *gammaSampleOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	return nil, fmt.Errorf("symDiff: %v is not differentiable", g)
}

func (g *gammaSampleOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := op.CheckArity(g, len(inputs)); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	concentration, err := g.readInput("concentration", inputs[0])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}
	rate, err := g.readInput("rate", inputs[1])
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	batch := len(concentration)
	samples := numel(g.sampleShape)
	out := make([]float64, samples*batch)
	for i := 0; i < batch; i++ {
		for j := 0; j < samples; j++ {
			out[j*batch+i] = g.draw(concentration[i], rate[i])
		}
	}

	return op.NewValue(g.dt, g.outShape(), out)
}

// draw samples a single Gamma variate. Degenerate parameters give the
// limit of the distribution where one exists and NaN otherwise.
func (g *gammaSampleOp) draw(concentration, rate float64) float64 {
	switch {
	case math.IsNaN(concentration) || math.IsNaN(rate):
		return math.NaN()
	case concentration < 0 || rate <= 0:
		return math.NaN()
	case concentration == 0 || math.IsInf(rate, 1):
		return 0
	case math.IsInf(concentration, 1):
		return math.Inf(1)
	}

	g.dist.Alpha = concentration
	g.dist.Beta = rate
	return g.dist.Rand()
}

func (g *gammaSampleOp) readInput(name string, v G.Value) ([]float64,
	error) {
	if v == nil {
		return nil, fmt.Errorf("cannot sample from nil %v", name)
	} else if !v.Dtype().Eq(g.dt) {
		return nil, fmt.Errorf("expected %v to have dtype %v but got %v",
			name, g.dt, v.Dtype())
	}

	data, err := op.Float64s(v)
	if err != nil {
		return nil, err
	}
	if len(data) != numel(g.batchShape) {
		return nil, fmt.Errorf("expected %v to have shape %v but got %v",
			name, g.batchShape, v.Shape())
	}
	return data, nil
}

func (g *gammaSampleOp) outShape() tensor.Shape {
	return append(g.sampleShape.Clone(), g.batchShape...)
}

// sampleType returns the Hindley-Milner type of a sample op input or
// output of dtype dt with dims dimensions
func sampleType(dt tensor.Dtype, dims int) hm.Type {
	if dims == 0 {
		return dt
	}
	return G.TensorType{Dims: dims, Of: dt}
}
