package nn

import (
	"fmt"
	"math/rand"
)

// Dense is a fully connected linear layer. Weights are stored row-major
// (outSize x inSize) in a single arena followed by the biases.
type Dense struct {
	inSize  int
	outSize int

	params []float32
	grads  []float32

	weights []float32 // view into params
	biases  []float32 // view into params

	gradWeights []float32 // view into grads
	gradBiases  []float32 // view into grads

	inputBuf  []float32
	outputBuf []float32
	gradInBuf []float32
}

// NewDense builds a dense layer with Xavier-initialized weights and zero
// biases. A nil rng falls back to a fixed-seed source.
func NewDense(inSize, outSize int, rng *rand.Rand) *Dense {
	if inSize <= 0 || outSize <= 0 {
		panic(fmt.Sprintf("nn: dense layer with sizes %d -> %d", inSize, outSize))
	}

	weightLen := outSize * inSize
	d := &Dense{
		inSize:    inSize,
		outSize:   outSize,
		params:    make([]float32, weightLen+outSize),
		grads:     make([]float32, weightLen+outSize),
		inputBuf:  make([]float32, inSize),
		outputBuf: make([]float32, outSize),
		gradInBuf: make([]float32, inSize),
	}

	d.weights = d.params[:weightLen]
	d.biases = d.params[weightLen:]
	d.gradWeights = d.grads[:weightLen]
	d.gradBiases = d.grads[weightLen:]

	xavierFill(newRNG(rng), d.weights, inSize, outSize)

	return d
}

// Forward computes output = weights*input + biases.
func (d *Dense) Forward(input []float32) []float32 {
	copy(d.inputBuf, input)

	for o := 0; o < d.outSize; o++ {
		sum := d.biases[o]
		row := d.weights[o*d.inSize : (o+1)*d.inSize]
		for i, x := range d.inputBuf {
			sum += row[i] * x
		}
		d.outputBuf[o] = sum
	}

	return d.outputBuf
}

// Backward accumulates weight and bias gradients for the last forward input
// and returns the gradient with respect to that input.
func (d *Dense) Backward(grad []float32) []float32 {
	zero(d.gradInBuf)

	for o := 0; o < d.outSize; o++ {
		g := grad[o]
		d.gradBiases[o] += g

		row := d.weights[o*d.inSize : (o+1)*d.inSize]
		gradRow := d.gradWeights[o*d.inSize : (o+1)*d.inSize]
		for i, x := range d.inputBuf {
			gradRow[i] += g * x
			d.gradInBuf[i] += g * row[i]
		}
	}

	return d.gradInBuf
}

func (d *Dense) Params() []float32 { return d.params }

func (d *Dense) SetParams(params []float32) { copy(d.params, params) }

func (d *Dense) Gradients() []float32 { return d.grads }

func (d *Dense) ClearGradients() { zero(d.grads) }

func (d *Dense) Reset() {}

func (d *Dense) InSize() int { return d.inSize }

func (d *Dense) OutSize() int { return d.outSize }
