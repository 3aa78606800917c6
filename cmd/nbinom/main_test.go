package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/nbinom/logger"
	G "gorgonia.org/gorgonia"
)

// runApp runs the app with args and returns what it wrote
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := initApp()
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run(append([]string{"nbinom"}, args...))
	return out.String(), err
}

func TestDistributionFlagLists(t *testing.T) {
	out, err := runApp(t, "logprob", "--log", "error", "--total-count",
		"2, 3", "--probs", "0.3", "0")
	if err != nil {
		t.Fatal(err)
	}

	// 0.7^2 and 0.7^3
	for _, prob := range []string{"0.49", "0.343"} {
		if !strings.Contains(out, prob) {
			t.Errorf("expected probability %v in output:\n%v", prob, out)
		}
	}

	if _, err := runApp(t, "logprob", "--log", "error", "--probs",
		"0.3,x", "0"); err == nil {
		t.Error("expected error parsing a non-numeric probability")
	}
}

func TestReportInvalid(t *testing.T) {
	p := &params{
		totalCount: []float64{-1},
		probs:      []float64{0.3},
		seed:       1,
		validate:   true,
	}
	_, err := p.build(G.NewGraph())
	if err == nil {
		t.Fatal("expected error for negative total count")
	}

	var buf bytes.Buffer
	reportInvalid(logger.NewLoggerTo(&buf, "error", "test"), err)
	if !strings.Contains(buf.String(), "total_count") {
		t.Errorf("expected invalid total_count to be logged, got %q",
			buf.String())
	}
}

func TestColumn(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5}
	got := column(data, 3, 1)
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("expected [1 4] but got %v", got)
	}
}

func TestFrequencies(t *testing.T) {
	got := frequencies([]float64{0, 1, 1, 7}, 3)
	want := []float64{0.25, 0.5, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v but got %v", want, got)
		}
	}
}

func TestParamsExclusive(t *testing.T) {
	if _, err := runApp(t, "logprob", "--log", "error", "--probs", "0.5",
		"--logits", "0", "1"); err == nil {
		t.Error("expected error with both --probs and --logits")
	}
	if _, err := runApp(t, "logprob", "--log", "error", "1"); err == nil {
		t.Error("expected error without --probs or --logits")
	}
}

func TestLogProbCommand(t *testing.T) {
	out, err := runApp(t, "logprob", "--log", "error", "--total-count", "5",
		"--probs", "0.3", "0", "2")
	if err != nil {
		t.Fatal(err)
	}

	// log(0.7^5)
	if !strings.Contains(out, "-1.7833747") {
		t.Errorf("expected log probability of 0 in output:\n%v", out)
	}
	if !strings.Contains(out, "0.16807") {
		t.Errorf("expected probability of 0 in output:\n%v", out)
	}
}

func TestLogProbCommandMissingCounts(t *testing.T) {
	if _, err := runApp(t, "logprob", "--log", "error", "--probs",
		"0.3"); err == nil {
		t.Error("expected error without counts")
	}
}

func TestLogProbCommandValidation(t *testing.T) {
	_, err := runApp(t, "logprob", "--log", "critical", "--validate",
		"--total-count", "-1", "--probs", "0.3", "1")
	if err == nil {
		t.Error("expected error for negative total count")
	}
}

func TestSampleCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	out, err := runApp(t, "sample", "--log", "error", "--samples", "500",
		"--seed", "1", "--total-count", "2,3", "--probs", "0.5,0.2",
		"--html", path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(strings.ToUpper(out), "EMPIRICAL MEAN") {
		t.Errorf("expected moments table in output:\n%v", out)
	}

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "echarts") {
		t.Error("expected rendered chart")
	}
}

func TestSampleCommandSamples(t *testing.T) {
	if _, err := runApp(t, "sample", "--log", "error", "--samples", "0",
		"--probs", "0.5"); err == nil {
		t.Error("expected error with no samples")
	}
}
