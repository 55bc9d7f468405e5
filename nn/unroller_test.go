package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceUnrollerShapes(t *testing.T) {
	seq := NewSequenceUnroller(NewSimpleRNN(2, 3, rand.New(rand.NewSource(1))), 4, true)
	require.Equal(t, 4*2, seq.InSize())
	require.Equal(t, 4*3, seq.OutSize())

	vec := NewSequenceUnroller(NewSimpleRNN(2, 3, rand.New(rand.NewSource(1))), 4, false)
	require.Equal(t, 4*2, vec.InSize())
	require.Equal(t, 3, vec.OutSize())
}

func TestSequenceUnrollerLastStepMatchesVectorOutput(t *testing.T) {
	// Identical seeds build identical cells
	seq := NewSequenceUnroller(NewSimpleRNN(2, 3, rand.New(rand.NewSource(2))), 4, true)
	vec := NewSequenceUnroller(NewSimpleRNN(2, 3, rand.New(rand.NewSource(2))), 4, false)

	input := []float32{0.1, 0.2, -0.3, 0.4, 0.5, -0.6, 0.7, 0.8}

	all := seq.Forward(input)
	last := vec.Forward(input)

	require.Equal(t, all[len(all)-3:], last)
}

func TestSequenceUnrollerResetsBetweenForwards(t *testing.T) {
	unroller := NewSequenceUnroller(NewSimpleRNN(1, 2, rand.New(rand.NewSource(3))), 3, true)

	input := []float32{0.5, -0.5, 0.25}
	first := append([]float32(nil), unroller.Forward(input)...)
	second := unroller.Forward(input)

	require.Equal(t, first, second)
}

func TestTimeDistributedAppliesStepwise(t *testing.T) {
	wrapped := NewDense(2, 3, rand.New(rand.NewSource(4)))
	reference := NewDense(2, 3, rand.New(rand.NewSource(4)))

	td := NewTimeDistributed(wrapped, 3)
	require.Equal(t, 3*2, td.InSize())
	require.Equal(t, 3*3, td.OutSize())

	input := []float32{0.1, 0.2, -0.3, 0.4, 0.5, -0.6}
	out := td.Forward(input)

	for step := 0; step < 3; step++ {
		want := reference.Forward(input[step*2 : (step+1)*2])
		require.Equal(t, want, out[step*3:(step+1)*3], "step %d", step)
	}
}

func TestTimeDistributedGradientCheck(t *testing.T) {
	model := NewSequential("time-distributed",
		NewTimeDistributed(NewDense(2, 2, rand.New(rand.NewSource(5))), 3),
	)
	model.Compile(NewSGD(0.01), MSE{})

	input := []float32{0.2, -0.4, 0.6, 0.1, -0.5, 0.3}
	target := shiftedTarget(model, input, 0.02)

	checkGradients(t, model, input, target)
}
