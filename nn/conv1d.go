package nn

import (
	"fmt"
	"math/rand"
)

// CausalConv1D applies a dilated one-dimensional convolution across a whole
// sequence at once. Input and output are flat (steps x channels) row-major
// vectors. The receptive field only looks backwards: implicit zero padding
// on the left keeps the output at step t independent of any step after t.
type CausalConv1D struct {
	steps      int
	inChannels int
	filters    int
	kernelSize int
	dilation   int
	activation Activation

	params []float32
	grads  []float32

	weights []float32 // (filters x inChannels x kernelSize) view into params
	biases  []float32

	gradWeights []float32
	gradBiases  []float32

	inputBuf  []float32
	preActBuf []float32
	outputBuf []float32
	gradInBuf []float32
}

// NewCausalConv1D builds a convolution over sequences of the given step
// count. Weights are Xavier-initialized, biases start at zero.
func NewCausalConv1D(steps, inChannels, filters, kernelSize, dilation int, activation Activation, rng *rand.Rand) *CausalConv1D {
	if steps <= 0 || inChannels <= 0 || filters <= 0 || kernelSize <= 0 || dilation <= 0 {
		panic(fmt.Sprintf("nn: conv1d with steps %d, channels %d, filters %d, kernel %d, dilation %d",
			steps, inChannels, filters, kernelSize, dilation))
	}

	weightLen := filters * inChannels * kernelSize
	c := &CausalConv1D{
		steps:      steps,
		inChannels: inChannels,
		filters:    filters,
		kernelSize: kernelSize,
		dilation:   dilation,
		activation: activation,
		params:     make([]float32, weightLen+filters),
		grads:      make([]float32, weightLen+filters),
		inputBuf:   make([]float32, steps*inChannels),
		preActBuf:  make([]float32, steps*filters),
		outputBuf:  make([]float32, steps*filters),
		gradInBuf:  make([]float32, steps*inChannels),
	}

	c.weights = c.params[:weightLen]
	c.biases = c.params[weightLen:]
	c.gradWeights = c.grads[:weightLen]
	c.gradBiases = c.grads[weightLen:]

	xavierFill(newRNG(rng), c.weights, inChannels*kernelSize, filters*kernelSize)

	return c
}

func (c *CausalConv1D) weightAt(filter, channel, tap int) int {
	return (filter*c.inChannels+channel)*c.kernelSize + tap
}

// Forward convolves the full sequence. The kernel's last tap reads the
// current step; earlier taps read dilation-spaced past steps.
func (c *CausalConv1D) Forward(input []float32) []float32 {
	copy(c.inputBuf, input)

	for t := 0; t < c.steps; t++ {
		for f := 0; f < c.filters; f++ {
			sum := c.biases[f]

			for k := 0; k < c.kernelSize; k++ {
				p := t - (c.kernelSize-1-k)*c.dilation
				if p < 0 {
					continue
				}

				for ch := 0; ch < c.inChannels; ch++ {
					sum += c.weights[c.weightAt(f, ch, k)] * c.inputBuf[p*c.inChannels+ch]
				}
			}

			c.preActBuf[t*c.filters+f] = sum
			if c.activation == ReLU && sum < 0 {
				sum = 0
			}
			c.outputBuf[t*c.filters+f] = sum
		}
	}

	return c.outputBuf
}

// Backward accumulates weight and bias gradients for the last forward
// sequence and returns the gradient with respect to the input sequence.
func (c *CausalConv1D) Backward(grad []float32) []float32 {
	zero(c.gradInBuf)

	for t := 0; t < c.steps; t++ {
		for f := 0; f < c.filters; f++ {
			delta := grad[t*c.filters+f]
			if c.activation == ReLU && c.preActBuf[t*c.filters+f] <= 0 {
				continue
			}
			if delta == 0 {
				continue
			}

			c.gradBiases[f] += delta

			for k := 0; k < c.kernelSize; k++ {
				p := t - (c.kernelSize-1-k)*c.dilation
				if p < 0 {
					continue
				}

				for ch := 0; ch < c.inChannels; ch++ {
					idx := c.weightAt(f, ch, k)
					c.gradWeights[idx] += delta * c.inputBuf[p*c.inChannels+ch]
					c.gradInBuf[p*c.inChannels+ch] += delta * c.weights[idx]
				}
			}
		}
	}

	return c.gradInBuf
}

func (c *CausalConv1D) Params() []float32 { return c.params }

func (c *CausalConv1D) SetParams(params []float32) { copy(c.params, params) }

func (c *CausalConv1D) Gradients() []float32 { return c.grads }

func (c *CausalConv1D) ClearGradients() { zero(c.grads) }

func (c *CausalConv1D) Reset() {}

func (c *CausalConv1D) InSize() int { return c.steps * c.inChannels }

func (c *CausalConv1D) OutSize() int { return c.steps * c.filters }
