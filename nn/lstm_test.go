package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLSTMParamCount(t *testing.T) {
	cell := NewLSTM(4, 8, rand.New(rand.NewSource(1)))

	// 4 gates of 8*4 input weights, 8*8 recurrent weights and 8 biases
	expectedLen := 4*8*4 + 4*8*8 + 4*8
	require.Len(t, cell.Params(), expectedLen)
}

func TestLSTMForgetBiasStartsOpen(t *testing.T) {
	outSize := 3
	cell := NewLSTM(2, outSize, rand.New(rand.NewSource(2)))

	biases := cell.Params()[len(cell.Params())-lstmGates*outSize:]
	for o := 0; o < outSize; o++ {
		require.Zero(t, biases[gateInput*outSize+o])
		require.InDelta(t, 1, biases[gateForget*outSize+o], 1e-9)
		require.Zero(t, biases[gateCell*outSize+o])
		require.Zero(t, biases[gateOutput*outSize+o])
	}
}

func TestLSTMForwardFinite(t *testing.T) {
	cell := NewLSTM(3, 6, rand.New(rand.NewSource(3)))
	rng := rand.New(rand.NewSource(4))

	cell.Reset()
	for step := 0; step < 12; step++ {
		out := cell.Forward([]float32{rng.Float32(), -rng.Float32(), rng.Float32()})
		require.Len(t, out, 6)
		requireAllFinite(t, out)
	}
}

func TestLSTMGradientCheck(t *testing.T) {
	model := NewSequential("lstm",
		NewSequenceUnroller(NewLSTM(2, 2, rand.New(rand.NewSource(5))), 3, true),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.3, -0.2, 0.1, 0.4, -0.3, 0.2}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}

func TestLSTMGradientCheckStacked(t *testing.T) {
	model := NewSequential("lstm-stacked",
		NewSequenceUnroller(NewLSTM(1, 2, rand.New(rand.NewSource(6))), 3, true),
		NewSequenceUnroller(NewLSTM(2, 2, rand.New(rand.NewSource(7))), 3, true),
		NewTimeDistributed(NewDense(2, 2, rand.New(rand.NewSource(8))), 3),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.5, -0.25, 0.75}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}
