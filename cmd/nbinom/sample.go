package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samuelfneumann/nbinom/logger"
	"github.com/samuelfneumann/nbinom/op"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"
	G "gorgonia.org/gorgonia"
)

var (
	samplesFlag = cli.IntFlag{
		Name:    "samples",
		Aliases: []string{"n"},
		Usage:   "number of samples to draw from each distribution",
		Value:   10000,
	}
	htmlFlag = cli.StringFlag{
		Name:  "html",
		Usage: "write a chart of the empirical frequencies and the mass function to this file",
	}
)

// SampleCommand draws samples from a Negative Binomial.
var SampleCommand = cli.Command{
	Action: sampleAction,
	Name:   "sample",
	Usage:  "draws samples and compares their moments to the analytic moments",
	Flags:  append([]cli.Flag{&samplesFlag, &htmlFlag}, distributionFlags...),
	Description: `
The sample command draws --samples counts from every distribution of the
batch given by --total-count and --probs or --logits, using the
Gamma-Poisson mixture, and prints the empirical and analytic moments.`,
}

// summary holds the drawn samples and the analytic moments of a batch of
// distributions
type summary struct {
	batch      int
	totalCount []float64
	probs      []float64
	mean       []float64
	variance   []float64

	// samples is a row-major matrix with one column per batch element
	samples []float64
}

// draw samples n counts from each distribution described by p
func draw(p *params, n int, log logger.Logger) (*summary, error) {
	g := G.NewGraph()
	nb, err := p.build(g)
	if err != nil {
		return nil, err
	}
	log.Debugf("Sample batch %v", nb.BatchShape())

	samples, err := nb.Sample(n)
	if err != nil {
		return nil, err
	}

	var samplesVal, totalCountVal, probsVal, meanVal, varVal G.Value
	G.Read(samples, &samplesVal)
	G.Read(nb.TotalCount(), &totalCountVal)
	G.Read(nb.Probs(), &probsVal)
	G.Read(nb.Mean(), &meanVal)
	G.Read(nb.Variance(), &varVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, err
	}

	s := &summary{batch: nb.BatchShape().TotalSize()}
	read := []struct {
		v   G.Value
		out *[]float64
	}{
		{samplesVal, &s.samples},
		{totalCountVal, &s.totalCount},
		{probsVal, &s.probs},
		{meanVal, &s.mean},
		{varVal, &s.variance},
	}
	for _, r := range read {
		if *r.out, err = op.Float64s(r.v); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// sampleAction implements the sample command.
func sampleAction(ctx *cli.Context) error {
	log := logger.NewLogger(ctx.String(logger.LogLevelFlag.Name), "Sample")

	n := ctx.Int(samplesFlag.Name)
	if n <= 0 {
		return fmt.Errorf("--%v must be positive but got %v",
			samplesFlag.Name, n)
	}

	p, err := parseParams(ctx)
	if err != nil {
		return err
	}

	log.Infof("Draw %d samples with seed %v", n, p.seed)
	s, err := draw(p, n, log)
	if err != nil {
		reportInvalid(log, err)
		return err
	}

	tbl := tablewriter.NewWriter(ctx.App.Writer)
	tbl.SetHeader([]string{"Batch", "Total count", "Probs", "Mean",
		"Empirical mean", "Variance", "Empirical variance"})
	tbl.SetBorder(true)
	for j := 0; j < s.batch; j++ {
		mean, variance := stat.MeanVariance(column(s.samples, s.batch, j), nil)
		tbl.Append([]string{
			strconv.Itoa(j),
			strconv.FormatFloat(s.totalCount[j], 'g', 6, 64),
			strconv.FormatFloat(s.probs[j], 'g', 6, 64),
			strconv.FormatFloat(s.mean[j], 'g', 6, 64),
			strconv.FormatFloat(mean, 'g', 6, 64),
			strconv.FormatFloat(s.variance[j], 'g', 6, 64),
			strconv.FormatFloat(variance, 'g', 6, 64),
		})
	}
	tbl.Render()

	path := ctx.String(htmlFlag.Name)
	if path == "" {
		return nil
	}

	log.Noticef("Write chart %v", path)
	page, err := newFrequencyPage(p, s, log)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}
