package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCausalConv1DParamCount(t *testing.T) {
	conv := NewCausalConv1D(10, 3, 5, 2, 1, ReLU, rand.New(rand.NewSource(1)))

	// 5 filters of 3 channels x 2 taps, plus 5 biases
	require.Len(t, conv.Params(), 5*3*2+5)
	require.Equal(t, 10*3, conv.InSize())
	require.Equal(t, 10*5, conv.OutSize())
}

func TestCausalConv1DNeverSeesTheFuture(t *testing.T) {
	conv := NewCausalConv1D(6, 1, 1, 2, 1, Linear, rand.New(rand.NewSource(2)))

	input := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	base := append([]float32(nil), conv.Forward(input)...)

	// Changing step 3 must leave steps 0..2 untouched
	perturbed := append([]float32(nil), input...)
	perturbed[3] += 1

	out := conv.Forward(perturbed)
	for step := 0; step < 3; step++ {
		require.Equal(t, base[step], out[step], "step %d changed", step)
	}
	require.NotEqual(t, base[3], out[3])
}

func TestCausalConv1DDilationReceptiveField(t *testing.T) {
	conv := NewCausalConv1D(5, 1, 1, 2, 2, Linear, rand.New(rand.NewSource(3)))

	// Taps at t and t-2: both weights one, bias zero
	conv.SetParams([]float32{1, 1, 0})

	out := conv.Forward([]float32{1, 2, 3, 4, 5})
	require.InDelta(t, 1, out[0], 1e-6) // left padding
	require.InDelta(t, 2, out[1], 1e-6)
	require.InDelta(t, 1+3, out[2], 1e-6)
	require.InDelta(t, 2+4, out[3], 1e-6)
	require.InDelta(t, 3+5, out[4], 1e-6)
}

func TestCausalConv1DReLUMasksGradients(t *testing.T) {
	conv := NewCausalConv1D(2, 1, 1, 1, 1, ReLU, rand.New(rand.NewSource(4)))

	// Single tap with weight -1: output = max(0, -x)
	conv.SetParams([]float32{-1, 0})

	out := conv.Forward([]float32{1, -1})
	require.InDelta(t, 0, out[0], 1e-6)
	require.InDelta(t, 1, out[1], 1e-6)

	conv.ClearGradients()
	gradIn := conv.Backward([]float32{1, 1})

	// Step 0 is inactive, so only step 1 contributes
	require.InDelta(t, 0, gradIn[0], 1e-6)
	require.InDelta(t, -1, gradIn[1], 1e-6)

	grads := conv.Gradients()
	require.InDelta(t, -1, grads[0], 1e-6) // weight gradient: delta * x = 1 * -1
	require.InDelta(t, 1, grads[1], 1e-6)  // bias gradient
}

func TestCausalConv1DGradientCheck(t *testing.T) {
	model := NewSequential("conv",
		NewCausalConv1D(4, 2, 3, 2, 1, Linear, rand.New(rand.NewSource(5))),
		NewCausalConv1D(4, 3, 2, 2, 2, Linear, rand.New(rand.NewSource(6))),
		NewCausalConv1D(4, 2, 2, 1, 1, Linear, rand.New(rand.NewSource(7))),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.5, -0.3, 0.2, 0.8, -0.6, 0.1, 0.4, -0.2}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}
