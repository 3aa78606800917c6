package op

import (
	"math"
	"math/rand"
	"testing"
	"time"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestRepeat(t *testing.T) {
	const numTests int = 15 // The number of random tests to run
	const maxRepeats int = 10
	const threshold float64 = 0.00001 // Threshold to determine floats equal

	// Randomly generated input has number of dimensions between dimMin
	// and dimMax. Each dimension of the randomly generated input has
	// between sizeMin and sizeMax elements.
	const sizeMin int = 1
	const sizeMax int = 5
	const dimMin int = 1
	const dimMax int = 4
	rand.Seed(time.Now().UnixNano())

	for i := 0; i < numTests; i++ {
		// Construct the size of each dimension randomly, e.g. (3, 1, 2)
		size := randInt(dimMin+rand.Intn(dimMax-dimMin), sizeMin, sizeMax)

		// Construct the axis to repeat along as well as the number of
		// repeats to do
		axis := rand.Intn(len(size))
		repeats := rand.Intn(maxRepeats) + 1

		// Get the total number of elements for the random input
		numElems := tensor.ProdInts(size)

		// Construct input data
		inBacking := randF64(numElems, -1., 1.)
		inTensor := tensor.NewDense(
			tensor.Float64,
			size,
			tensor.WithBacking(inBacking),
		)

		// Construct the target/correct gradient
		repeatTarget, err := tensor.Repeat(inTensor, axis, repeats)
		if err != nil {
			t.Error(err)
		}

		// Construct the gradient target
		gradTarget := make([]float64, inTensor.Size())
		for i := range gradTarget {
			gradTarget[i] = 1.0 / float64(len(gradTarget))
		}

		// Construct input node to be repeated
		g := G.NewGraph()
		in := G.NewTensor(
			g,
			tensor.Float64,
			len(inTensor.Shape()),
			G.WithValue(inTensor),
			G.WithName(Unique("in")),
		)

		// Construct the repeat operation and save the outputted value
		c, err := Repeat(in, axis, repeats)
		if err != nil {
			t.Error(err)
		}
		var cVal G.Value
		G.Read(c, &cVal)

		// Construct loss + gradient
		loss := G.Must(G.Mean(c))
		grad, err := G.Grad(loss, in)
		if err != nil {
			t.Error(err)
		}
		if len(grad) != 1 {
			t.Errorf("expected 1 gradient node, received %v", len(grad))
		}
		var gradVal G.Value
		G.Read(grad[0], &gradVal)

		// Run the graph
		vm := G.NewTapeMachine(g)
		err = vm.RunAll()
		if err != nil {
			t.Error(err)
		}
		vm.Reset()

		if !cVal.(tensor.Tensor).Eq(repeatTarget) {
			t.Errorf("expected: \n%v \nreceived: \n%v\n", repeatTarget, cVal)
		}

		gradData, ok := gradVal.Data().([]float64)
		if !ok {
			// Gradient has a single value
			gradData = []float64{gradVal.Data().(float64)}
		}
		for i := range gradData {
			if math.Abs(gradData[i]-gradTarget[i]) > threshold {
				coords, err := tensor.Itol(i, gradVal.Shape(),
					gradVal.(*tensor.Dense).Strides())

				if err != nil {
					t.Errorf("error is computed gradient \nexpected: %v"+
						"\nreceived: %v \ncoords unknown due to error: %v \n",
						gradData, gradTarget, err)
				}

				t.Errorf("error is computed gradient \nexpected: %v"+
					"\nreceived: %v \nerror at coords:%v \n",
					gradData, gradTarget, coords)
			}
		}
		vm.Close()
	}
}

func TestRepeatGradBlocks(t *testing.T) {
	const threshold float64 = 0.00001

	// Weighting each repeated element differently makes the gradient of
	// every input element the sum of the weights of its copies
	tests := []struct {
		axis, repeats int
		target        []float64
	}{
		{1, 2, []float64{1, 5, 9, 13, 17, 21}},
		{0, 3, []float64{9, 12, 15, 36, 39, 42}},
	}

	for _, test := range tests {
		g := G.NewGraph()
		in := G.NewTensor(
			g,
			tensor.Float64,
			2,
			G.WithValue(tensor.NewDense(
				tensor.Float64,
				[]int{2, 3},
				tensor.WithBacking(randF64(6, -1, 1)),
			)),
			G.WithName(Unique("in")),
		)

		c, err := Repeat(in, test.axis, test.repeats)
		if err != nil {
			t.Fatal(err)
		}

		outShape := c.Shape().Clone()
		weights := make([]float64, outShape.TotalSize())
		for i := range weights {
			weights[i] = float64(i)
		}
		w := G.NewTensor(
			g,
			tensor.Float64,
			2,
			G.WithValue(tensor.NewDense(
				tensor.Float64,
				outShape,
				tensor.WithBacking(weights),
			)),
			G.WithName(Unique("weights")),
		)

		loss := G.Must(G.Sum(G.Must(G.HadamardProd(c, w))))
		grad, err := G.Grad(loss, in)
		if err != nil {
			t.Fatal(err)
		}
		var gradVal G.Value
		G.Read(grad[0], &gradVal)

		vm := G.NewTapeMachine(g)
		if err := vm.RunAll(); err != nil {
			t.Fatal(err)
		}
		vm.Close()

		if !ShapeEq(gradVal.Shape(), tensor.Shape{2, 3}) {
			t.Errorf("expected gradient shape (2, 3) but got %v",
				gradVal.Shape())
		}
		gradData := gradVal.Data().([]float64)
		for i := range test.target {
			if math.Abs(gradData[i]-test.target[i]) > threshold {
				t.Errorf("axis %v, repeats %v: expected %v but got %v",
					test.axis, test.repeats, test.target, gradData)
				break
			}
		}
	}
}
