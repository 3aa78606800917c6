package main

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/samuelfneumann/nbinom/logger"
)

// maxChartCount is the largest count shown on a frequency chart
const maxChartCount = 200

// frequencies returns the relative frequency of each count in
// [0, len(out)) among samples. Counts outside the range are dropped.
func frequencies(samples []float64, n int) []float64 {
	out := make([]float64, n)
	if len(samples) == 0 {
		return out
	}
	for _, s := range samples {
		if k := int(s); k >= 0 && k < n {
			out[k]++
		}
	}
	for i := range out {
		out[i] /= float64(len(samples))
	}
	return out
}

// convertFrequencyData converts frequencies to chart points.
func convertFrequencyData(data []float64) []opts.BarData {
	items := make([]opts.BarData, 0, len(data))
	for _, f := range data {
		items = append(items, opts.BarData{Value: f})
	}
	return items
}

// newFrequencyChart creates a bar chart comparing the empirical frequency
// of counts to the mass function.
func newFrequencyChart(title string, subtitle string, freq []float64,
	pmf []float64) *charts.Bar {
	chart := charts.NewBar()
	chart.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme:     types.ThemeChalk,
		PageTitle: "Negative Binomial",
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}))

	counts := make([]int, len(freq))
	for i := range counts {
		counts[i] = i
	}
	chart.SetXAxis(counts).
		AddSeries("frequency", convertFrequencyData(freq)).
		AddSeries("pmf", convertFrequencyData(pmf))
	return chart
}

// newFrequencyPage creates a page with one frequency chart per batch
// element of s.
func newFrequencyPage(p *params, s *summary,
	log logger.Logger) (*components.Page, error) {
	var max float64
	for _, x := range s.samples {
		if x > max {
			max = x
		}
	}
	n := int(max) + 1
	if n > maxChartCount {
		n = maxChartCount
	}

	counts := make([]float64, n)
	for i := range counts {
		counts[i] = float64(i)
	}
	sc, err := score(p, counts, log)
	if err != nil {
		return nil, fmt.Errorf("newFrequencyPage: %v", err)
	}

	page := components.NewPage()
	for j := 0; j < s.batch; j++ {
		freq := frequencies(column(s.samples, s.batch, j), n)
		pmf := column(sc.prob, sc.batch, j)
		subtitle := fmt.Sprintf("total count=%v, probs=%.4g",
			s.totalCount[j], s.probs[j])
		page.AddCharts(newFrequencyChart(
			fmt.Sprintf("Batch element %d", j), subtitle, freq, pmf,
		))
	}
	return page, nil
}
