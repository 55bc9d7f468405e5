package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGRUParamCount(t *testing.T) {
	cell := NewGRU(4, 8, rand.New(rand.NewSource(1)))

	// 3 gates of 8*4 input weights, 8*8 recurrent weights and 8 biases
	expectedLen := 3*8*4 + 3*8*8 + 3*8
	require.Len(t, cell.Params(), expectedLen)
}

func TestGRUForwardFinite(t *testing.T) {
	cell := NewGRU(2, 6, rand.New(rand.NewSource(2)))
	rng := rand.New(rand.NewSource(3))

	cell.Reset()
	for step := 0; step < 12; step++ {
		out := cell.Forward([]float32{rng.Float32()*2 - 1, rng.Float32()*2 - 1})
		require.Len(t, out, 6)
		requireAllFinite(t, out)
	}
}

func TestGRUInterpolatesTowardCandidate(t *testing.T) {
	cell := NewGRU(1, 2, rand.New(rand.NewSource(4)))

	// Zeroed parameters: z = r = 0.5, candidate = 0, so each step halves
	// the hidden state. From zero it stays at zero.
	cell.SetParams(make([]float32, len(cell.Params())))

	cell.Reset()
	out := cell.Forward([]float32{1})
	require.InDelta(t, 0, out[0], 1e-6)
	require.InDelta(t, 0, out[1], 1e-6)
}

func TestGRUGradientCheck(t *testing.T) {
	model := NewSequential("gru",
		NewSequenceUnroller(NewGRU(2, 2, rand.New(rand.NewSource(5))), 3, true),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.3, -0.1, 0.2, 0.5, -0.4, 0.1}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}

func TestGRUGradientCheckStacked(t *testing.T) {
	model := NewSequential("gru-stacked",
		NewSequenceUnroller(NewGRU(1, 2, rand.New(rand.NewSource(6))), 3, true),
		NewSequenceUnroller(NewGRU(2, 2, rand.New(rand.NewSource(7))), 3, true),
		NewTimeDistributed(NewDense(2, 3, rand.New(rand.NewSource(8))), 3),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.4, -0.2, 0.6}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}
