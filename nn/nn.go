// Package nn is a small neural network engine for the forecasting models.
// It trains dense, recurrent and convolutional layers on flat float32
// vectors with explicit backpropagation, mini-batch gradient averaging and
// pluggable optimizers.
package nn

import (
	"errors"
	"math"
	"math/rand"
)

var (
	ErrNotCompiled    = errors.New("model is not compiled")
	ErrNoSamples      = errors.New("no training samples")
	ErrSampleMismatch = errors.New("inputs and targets do not line up")
	ErrBadEpochs      = errors.New("epochs must be positive")
)

// Layer is a differentiable computation over flat float32 vectors.
//
// Forward returns a view of the layer's internal output buffer, valid until
// the next Forward call. Backward takes the loss gradient with respect to
// the output, accumulates parameter gradients in place and returns the
// gradient with respect to the input, again as a reusable view. Gradients
// accumulate across Backward calls until ClearGradients; the trainer divides
// them by the batch size before an optimizer step.
//
// Params and Gradients expose the layer's live parameter and gradient
// arenas, index-aligned with each other.
type Layer interface {
	Forward(input []float32) []float32
	Backward(grad []float32) []float32

	Params() []float32
	SetParams(params []float32)
	Gradients() []float32
	ClearGradients()

	// Reset clears recurrent state and stored activations before a new
	// sequence. Stateless layers treat it as a no-op.
	Reset()

	InSize() int
	OutSize() int
}

// Activation selects the nonlinearity applied by layers that support one.
type Activation int

const (
	Linear Activation = iota
	ReLU
)

// Recurrent gradients are rescaled whenever their joint L2 norm exceeds
// this cap, which keeps backpropagation through long sequences stable.
const gradNormCap = 1.0

func newRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(1))
}

// xavierFill draws uniform weights scaled by the matrix fan-in and fan-out.
func xavierFill(rng *rand.Rand, weights []float32, fanIn, fanOut int) {
	scale := float32(math.Sqrt(2.0 / float64(fanIn+fanOut)))
	for i := range weights {
		weights[i] = (rng.Float32()*2 - 1) * scale
	}
}

// clipGradients rescales the buffer in place when its L2 norm exceeds maxNorm.
func clipGradients(grads []float32, maxNorm float64) {
	sum := 0.0
	for _, g := range grads {
		sum += float64(g) * float64(g)
	}

	norm := math.Sqrt(sum)
	if norm <= maxNorm || norm == 0 {
		return
	}

	scale := float32(maxNorm / norm)
	for i := range grads {
		grads[i] *= scale
	}
}

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func tanh32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
