package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenseForward(t *testing.T) {
	dense := NewDense(2, 2, rand.New(rand.NewSource(1)))

	// weights row-major (out x in), then biases
	dense.SetParams([]float32{
		1, 2,
		-1, 0.5,
		0.1, -0.2,
	})

	out := dense.Forward([]float32{3, 4})
	require.InDelta(t, 1*3+2*4+0.1, out[0], 1e-6)
	require.InDelta(t, -1*3+0.5*4-0.2, out[1], 1e-6)
}

func TestDenseParamCount(t *testing.T) {
	dense := NewDense(5, 3, rand.New(rand.NewSource(1)))

	// 5*3 weights + 3 biases
	require.Len(t, dense.Params(), 5*3+3)
	require.Len(t, dense.Gradients(), 5*3+3)
}

func TestDenseGradientsAccumulate(t *testing.T) {
	dense := NewDense(2, 1, rand.New(rand.NewSource(2)))

	input := []float32{1, -2}
	grad := []float32{0.5}

	dense.Forward(input)
	dense.Backward(grad)
	once := append([]float32(nil), dense.Gradients()...)

	dense.Forward(input)
	dense.Backward(grad)
	twice := dense.Gradients()

	for i := range once {
		require.InDelta(t, 2*once[i], twice[i], 1e-6, "gradient %d", i)
	}

	dense.ClearGradients()
	for _, g := range dense.Gradients() {
		require.Zero(t, g)
	}
}

func TestDenseGradientCheck(t *testing.T) {
	model := NewSequential("dense",
		NewDense(3, 4, rand.New(rand.NewSource(3))),
		NewDense(4, 2, rand.New(rand.NewSource(4))),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.5, -0.3, 0.8}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}
