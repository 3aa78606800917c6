package distribution

import (
	"math"
	"math/rand"
	"testing"
	"time"

	expRand "golang.org/x/exp/rand"

	"github.com/samuelfneumann/nbinom/op"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// TestGammaLogProb compares the log density, density, mean, and variance
// of the Gamma against gonum. All tests are randomized.
func TestGammaLogProb(t *testing.T) {
	const threshold float64 = 0.000001
	const tests int = 15
	const maxSize int = 8
	rand.Seed(time.Now().UnixNano())

	for i := 0; i < tests; i++ {
		size := 1 + rand.Intn(maxSize)
		alphaBacking := make([]float64, size)
		betaBacking := make([]float64, size)
		xBacking := make([]float64, size)
		targets := make([]distuv.Gamma, size)
		for j := range alphaBacking {
			alphaBacking[j] = 1 + rand.Float64()*10
			betaBacking[j] = 0.1 + rand.Float64()*5
			targets[j] = distuv.Gamma{
				Alpha: alphaBacking[j],
				Beta:  betaBacking[j],
				Src:   expRand.NewSource(uint64(time.Now().UnixNano())),
			}
			xBacking[j] = targets[j].Rand()
			if xBacking[j] == 0 {
				xBacking[j] = 0.5
			}
		}

		g := G.NewGraph()
		alpha := newVector(g, "alpha", alphaBacking)
		beta := newVector(g, "beta", betaBacking)
		x := newVector(g, "x", xBacking)

		gamma, err := NewGamma(alpha, beta, 1, WithValidateArgs(true))
		if err != nil {
			t.Fatal(err)
		}

		logProb, err := gamma.LogProb(x)
		if err != nil {
			t.Fatal(err)
		}
		prob, err := gamma.Prob(x)
		if err != nil {
			t.Fatal(err)
		}
		var logProbVal, probVal, meanVal, varVal G.Value
		G.Read(logProb, &logProbVal)
		G.Read(prob, &probVal)
		G.Read(gamma.Mean(), &meanVal)
		G.Read(gamma.Variance(), &varVal)
		run(t, g)

		logProbOut := values(t, logProbVal)
		probOut := values(t, probVal)
		meanOut := values(t, meanVal)
		varOut := values(t, varVal)
		for j, target := range targets {
			if math.Abs(logProbOut[j]-target.LogProb(xBacking[j])) > threshold {
				t.Errorf("logProb(%v): expected %v received %v", xBacking[j],
					target.LogProb(xBacking[j]), logProbOut[j])
			}
			if math.Abs(probOut[j]-target.Prob(xBacking[j])) > threshold {
				t.Errorf("prob(%v): expected %v received %v", xBacking[j],
					target.Prob(xBacking[j]), probOut[j])
			}
			if math.Abs(meanOut[j]-target.Mean()) > threshold {
				t.Errorf("mean: expected %v received %v", target.Mean(),
					meanOut[j])
			}
			if math.Abs(varOut[j]-target.Variance()) > threshold {
				t.Errorf("variance: expected %v received %v",
					target.Variance(), varOut[j])
			}
		}
	}
}

func TestGammaEntropy(t *testing.T) {
	const threshold float64 = 0.000001

	alphaBacking := []float64{0.5, 1, 3.5, 20}
	betaBacking := []float64{2, 1, 0.25, 4}

	g := G.NewGraph()
	gamma, err := NewGamma(newVector(g, "alpha", alphaBacking),
		newVector(g, "beta", betaBacking), 1)
	if err != nil {
		t.Fatal(err)
	}

	entropy, err := gamma.Entropy()
	if err != nil {
		t.Fatal(err)
	}
	var entropyVal G.Value
	G.Read(entropy, &entropyVal)
	run(t, g)

	out := values(t, entropyVal)
	for i := range alphaBacking {
		a, b := alphaBacking[i], betaBacking[i]
		lg, _ := math.Lgamma(a)
		expected := a - math.Log(b) + lg + (1-a)*mathext.Digamma(a)
		if math.Abs(out[i]-expected) > threshold {
			t.Errorf("entropy(%v, %v): expected %v received %v", a, b,
				expected, out[i])
		}
	}
}

func TestGammaValidation(t *testing.T) {
	g := G.NewGraph()
	_, err := NewGamma(newScalar(g, "alpha", 0), newScalar(g, "beta", 1), 1,
		WithValidateArgs(true))
	if v, ok := AsValidationError(err); !ok || v.Param != "concentration" {
		t.Errorf("expected a concentration ValidationError but got %v", err)
	}

	g = G.NewGraph()
	_, err = NewGamma(newScalar(g, "alpha", 1), newScalar(g, "beta", -1), 1,
		WithValidateArgs(true))
	if v, ok := AsValidationError(err); !ok || v.Param != "rate" {
		t.Errorf("expected a rate ValidationError but got %v", err)
	}

	g = G.NewGraph()
	gamma, err := NewGamma(newScalar(g, "alpha", 1), newScalar(g, "beta", 1),
		1, WithValidateArgs(true))
	if err != nil {
		t.Fatal(err)
	}
	_, err = gamma.LogProb(newScalar(g, "x", -2))
	if _, ok := AsValidationError(err); !ok {
		t.Errorf("expected a ValidationError for a negative value but got %v",
			err)
	}
}

func TestGammaSample(t *testing.T) {
	const samples int = 10000
	const tolerance float64 = 0.08

	alphaBacking := []float64{0.5, 2, 9}
	betaBacking := []float64{1, 0.5, 3}

	g := G.NewGraph()
	gamma, err := NewGamma(newVector(g, "alpha", alphaBacking),
		newVector(g, "beta", betaBacking), uint64(time.Now().UnixNano()))
	if err != nil {
		t.Fatal(err)
	}

	s, err := gamma.Sample(samples)
	if err != nil {
		t.Fatal(err)
	}
	var sampled G.Value
	G.Read(s, &sampled)
	run(t, g)

	out := values(t, sampled)
	for j := range alphaBacking {
		column := make([]float64, samples)
		for i := range column {
			column[i] = out[i*len(alphaBacking)+j]
			if column[i] < 0 {
				t.Fatalf("expected positive samples but got %v", column[i])
			}
		}

		expected := alphaBacking[j] / betaBacking[j]
		if mean := stat.Mean(column, nil); math.Abs(mean-
			expected) > tolerance*expected {
			t.Errorf("Gamma(%v, %v): expected empirical mean near %v but "+
				"received %v", alphaBacking[j], betaBacking[j], expected, mean)
		}
	}

	if gamma.HasRsample() {
		t.Error("expected no reparameterized sampling")
	}
	if _, err := gamma.Rsample(1); err == nil {
		t.Error("expected rsample to fail")
	}
}

func TestGammaDtypeMismatch(t *testing.T) {
	g := G.NewGraph()
	alpha := newScalar(g, "alpha", 1)
	beta := newScalar(g, "beta", 1)
	if _, err := NewGamma(alpha, beta, 1); err != nil {
		t.Errorf("expected no error but got %v", err)
	}

	beta32 := G.NewScalar(g, tensor.Float32, G.WithValue(G.NewF32(1)),
		G.WithName(op.Unique("beta32")))
	if _, err := NewGamma(alpha, beta32, 1); err == nil {
		t.Error("expected an error for mismatched dtypes")
	}
}
