package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samuelfneumann/nbinom/logger"
	"github.com/samuelfneumann/nbinom/op"
	"github.com/urfave/cli/v2"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// LogProbCommand evaluates the mass function of a Negative Binomial.
var LogProbCommand = cli.Command{
	Action:    logProbAction,
	Name:      "logprob",
	Usage:     "evaluates the log probability, probability, and cdf of counts",
	ArgsUsage: "<count> [<count> ...]",
	Flags:     distributionFlags,
	Description: `
The logprob command requires at least one argument:
<count>

Each <count> is scored under every distribution of the batch given by
--total-count and --probs or --logits.`,
}

// scores holds the log probability, probability, and cdf of counts
// under a batch of distributions. Each is a row-major matrix with one
// row per count and one column per batch element.
type scores struct {
	counts  []float64
	batch   int
	logProb []float64
	prob    []float64
	cdf     []float64
}

// score evaluates counts under the distribution described by p
func score(p *params, counts []float64, log logger.Logger) (*scores,
	error) {
	g := G.NewGraph()
	nb, err := p.build(g)
	if err != nil {
		return nil, err
	}
	log.Debugf("Score %d counts under batch %v", len(counts), nb.BatchShape())

	valueT := tensor.NewDense(
		tensor.Float64,
		[]int{len(counts), 1},
		tensor.WithBacking(append([]float64(nil), counts...)),
	)
	value := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(len(counts), 1),
		G.WithValue(valueT),
		G.WithName(op.Unique("counts")),
	)

	logProb, err := nb.LogProb(value)
	if err != nil {
		return nil, err
	}
	prob, err := nb.Prob(value)
	if err != nil {
		return nil, err
	}
	cdf, err := nb.Cdf(value)
	if err != nil {
		return nil, err
	}

	var logProbVal, probVal, cdfVal G.Value
	G.Read(logProb, &logProbVal)
	G.Read(prob, &probVal)
	G.Read(cdf, &cdfVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, err
	}

	s := &scores{counts: counts, batch: nb.BatchShape().TotalSize()}
	if s.logProb, err = op.Float64s(logProbVal); err != nil {
		return nil, err
	}
	if s.prob, err = op.Float64s(probVal); err != nil {
		return nil, err
	}
	if s.cdf, err = op.Float64s(cdfVal); err != nil {
		return nil, err
	}
	return s, nil
}

// logProbAction implements the logprob command.
func logProbAction(ctx *cli.Context) error {
	log := logger.NewLogger(ctx.String(logger.LogLevelFlag.Name), "LogProb")

	if ctx.Args().Len() < 1 {
		return fmt.Errorf("missing counts to score")
	}
	counts := make([]float64, ctx.Args().Len())
	for i, arg := range ctx.Args().Slice() {
		c, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("could not parse count %q: %v", arg, err)
		}
		counts[i] = c
	}

	p, err := parseParams(ctx)
	if err != nil {
		return err
	}

	log.Infof("Score %d counts", len(counts))
	s, err := score(p, counts, log)
	if err != nil {
		reportInvalid(log, err)
		return err
	}

	tbl := tablewriter.NewWriter(ctx.App.Writer)
	tbl.SetHeader([]string{"Batch", "Count", "Log prob", "Prob", "Cdf"})
	tbl.SetBorder(true)
	for i, c := range s.counts {
		for j := 0; j < s.batch; j++ {
			k := i*s.batch + j
			tbl.Append([]string{
				strconv.Itoa(j),
				strconv.FormatFloat(c, 'g', -1, 64),
				strconv.FormatFloat(s.logProb[k], 'g', 8, 64),
				strconv.FormatFloat(s.prob[k], 'g', 8, 64),
				strconv.FormatFloat(s.cdf[k], 'g', 8, 64),
			})
		}
	}
	tbl.Render()

	return nil
}
