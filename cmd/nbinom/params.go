package main

import (
	"fmt"
	"time"

	"github.com/samuelfneumann/nbinom/distribution"
	"github.com/samuelfneumann/nbinom/logger"
	"github.com/samuelfneumann/nbinom/op"
	"github.com/urfave/cli/v2"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var (
	totalCountFlag = cli.Float64SliceFlag{
		Name:    "total-count",
		Aliases: []string{"r"},
		Usage:   "comma-separated non-negative total counts of failures",
		Value:   cli.NewFloat64Slice(1),
	}
	probsFlag = cli.Float64SliceFlag{
		Name:    "probs",
		Aliases: []string{"p"},
		Usage:   "comma-separated success probabilities in [0, 1); exclusive with --logits",
	}
	logitsFlag = cli.Float64SliceFlag{
		Name:  "logits",
		Usage: "comma-separated log-odds of success; exclusive with --probs",
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the samplers; 0 seeds from the current time",
	}
	validateFlag = cli.BoolFlag{
		Name:  "validate",
		Usage: "validate parameters and values against their constraints",
	}
)

// distributionFlags are the flags shared by all commands which build a
// distribution
var distributionFlags = []cli.Flag{
	&totalCountFlag,
	&probsFlag,
	&logitsFlag,
	&seedFlag,
	&validateFlag,
	&logger.LogLevelFlag,
}

// params are the parameters of a batch of Negative Binomial
// distributions given on the command line
type params struct {
	totalCount []float64
	probs      []float64
	logits     []float64
	seed       uint64
	validate   bool
}

// parseParams reads the distribution flags of ctx
func parseParams(ctx *cli.Context) (*params, error) {
	if ctx.IsSet(probsFlag.Name) == ctx.IsSet(logitsFlag.Name) {
		return nil, fmt.Errorf("exactly one of --%v or --%v must be given",
			probsFlag.Name, logitsFlag.Name)
	}

	p := &params{
		seed:     ctx.Uint64(seedFlag.Name),
		validate: ctx.Bool(validateFlag.Name),
	}
	if p.seed == 0 {
		p.seed = uint64(time.Now().UnixNano())
	}

	var err error
	if p.totalCount, err = floats(ctx, totalCountFlag.Name); err != nil {
		return nil, err
	}
	if ctx.IsSet(probsFlag.Name) {
		p.probs, err = floats(ctx, probsFlag.Name)
	} else {
		p.logits, err = floats(ctx, logitsFlag.Name)
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

// build adds the distribution described by the receiver to g
func (p *params) build(g *G.ExprGraph) (*distribution.NegativeBinomial,
	error) {
	totalCount := vectorNode(g, "totalCount", p.totalCount)

	var param distribution.Parametrization
	if p.probs != nil {
		param = distribution.Probs(vectorNode(g, "probs", p.probs))
	} else {
		param = distribution.Logits(vectorNode(g, "logits", p.logits))
	}

	return distribution.NewNegativeBinomial(totalCount, param, p.seed,
		distribution.WithValidateArgs(p.validate))
}

// reportInvalid logs the offending values when err holds a
// *distribution.ValidationError
func reportInvalid(log logger.Logger, err error) {
	if v, ok := distribution.AsValidationError(err); ok {
		log.Errorf("Invalid %v: %v", v.Param, v.Values)
	}
}

// floats returns the values of the float slice flag name, which must
// hold at least one number
func floats(ctx *cli.Context, name string) ([]float64, error) {
	values := ctx.Float64Slice(name)
	if len(values) == 0 {
		return nil, fmt.Errorf("--%v: expected at least one number", name)
	}
	return append([]float64(nil), values...), nil
}

// vectorNode returns a vector node on g holding backing
func vectorNode(g *G.ExprGraph, name string, backing []float64) *G.Node {
	t := tensor.NewDense(
		tensor.Float64,
		[]int{len(backing)},
		tensor.WithBacking(backing),
	)
	return G.NewVector(
		g,
		t.Dtype(),
		G.WithShape(len(backing)),
		G.WithValue(t),
		G.WithName(op.Unique(name)),
	)
}

// column returns column j of a row-major matrix with cols columns
func column(data []float64, cols, j int) []float64 {
	out := make([]float64, 0, len(data)/cols)
	for i := j; i < len(data); i += cols {
		out = append(out, data[i])
	}
	return out
}
