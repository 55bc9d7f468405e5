package nn

import (
	"fmt"
	"math/rand"
)

// SimpleRNN is an Elman recurrent cell advanced one step per Forward call:
//
//	h = tanh(inputWeights*x + recurrentWeights*hPrev + biases)
//
// The cell records every step's input and hidden state, so Backward can be
// called once per step in reverse order after a full forward pass. The
// hidden-state gradient flowing between steps is carried inside the cell;
// callers only pass the loss gradient of each step's own output.
type SimpleRNN struct {
	inSize  int
	outSize int

	params []float32
	grads  []float32

	inputWeights     []float32 // (outSize x inSize) view into params
	recurrentWeights []float32 // (outSize x outSize) view into params
	biases           []float32

	gradInputWeights     []float32
	gradRecurrentWeights []float32
	gradBiases           []float32

	storedInputs [][]float32
	storedHidden [][]float32
	stepCount    int

	zeroHidden []float32
	dhCarry    []float32
	dhNext     []float32
	dzBuf      []float32
	gradInBuf  []float32
}

// NewSimpleRNN builds a cell with Xavier-initialized input and recurrent
// weights and zero biases.
func NewSimpleRNN(inSize, outSize int, rng *rand.Rand) *SimpleRNN {
	if inSize <= 0 || outSize <= 0 {
		panic(fmt.Sprintf("nn: rnn cell with sizes %d -> %d", inSize, outSize))
	}

	inputLen := outSize * inSize
	recurrentLen := outSize * outSize

	r := &SimpleRNN{
		inSize:     inSize,
		outSize:    outSize,
		params:     make([]float32, inputLen+recurrentLen+outSize),
		grads:      make([]float32, inputLen+recurrentLen+outSize),
		zeroHidden: make([]float32, outSize),
		dhCarry:    make([]float32, outSize),
		dhNext:     make([]float32, outSize),
		dzBuf:      make([]float32, outSize),
		gradInBuf:  make([]float32, inSize),
	}

	r.inputWeights = r.params[:inputLen]
	r.recurrentWeights = r.params[inputLen : inputLen+recurrentLen]
	r.biases = r.params[inputLen+recurrentLen:]

	r.gradInputWeights = r.grads[:inputLen]
	r.gradRecurrentWeights = r.grads[inputLen : inputLen+recurrentLen]
	r.gradBiases = r.grads[inputLen+recurrentLen:]

	source := newRNG(rng)
	xavierFill(source, r.inputWeights, inSize, outSize)
	xavierFill(source, r.recurrentWeights, outSize, outSize)

	return r
}

// Forward advances the cell one step and returns the new hidden state.
func (r *SimpleRNN) Forward(input []float32) []float32 {
	t := r.stepCount
	r.storedInputs = storeStep(r.storedInputs, t, input, r.inSize)
	r.storedHidden = storeStep(r.storedHidden, t, nil, r.outSize)

	prev := r.zeroHidden
	if t > 0 {
		prev = r.storedHidden[t-1]
	}

	hidden := r.storedHidden[t]
	for o := 0; o < r.outSize; o++ {
		sum := r.biases[o]

		inputRow := r.inputWeights[o*r.inSize : (o+1)*r.inSize]
		for i, x := range r.storedInputs[t] {
			sum += inputRow[i] * x
		}

		recurrentRow := r.recurrentWeights[o*r.outSize : (o+1)*r.outSize]
		for j, h := range prev {
			sum += recurrentRow[j] * h
		}

		hidden[o] = tanh32(sum)
	}

	r.stepCount++
	return hidden
}

// Backward consumes the most recent un-backpropagated step. grad holds the
// loss gradient of that step's output only.
func (r *SimpleRNN) Backward(grad []float32) []float32 {
	r.stepCount--
	t := r.stepCount

	input := r.storedInputs[t]
	hidden := r.storedHidden[t]

	prev := r.zeroHidden
	if t > 0 {
		prev = r.storedHidden[t-1]
	}

	for o := 0; o < r.outSize; o++ {
		dh := grad[o] + r.dhCarry[o]
		dz := dh * (1 - hidden[o]*hidden[o])
		r.dzBuf[o] = dz
		r.gradBiases[o] += dz
	}

	zero(r.gradInBuf)
	zero(r.dhNext)

	for o := 0; o < r.outSize; o++ {
		dz := r.dzBuf[o]

		inputRow := r.inputWeights[o*r.inSize : (o+1)*r.inSize]
		gradInputRow := r.gradInputWeights[o*r.inSize : (o+1)*r.inSize]
		for i, x := range input {
			gradInputRow[i] += dz * x
			r.gradInBuf[i] += dz * inputRow[i]
		}

		recurrentRow := r.recurrentWeights[o*r.outSize : (o+1)*r.outSize]
		gradRecurrentRow := r.gradRecurrentWeights[o*r.outSize : (o+1)*r.outSize]
		for j, h := range prev {
			gradRecurrentRow[j] += dz * h
			r.dhNext[j] += dz * recurrentRow[j]
		}
	}

	copy(r.dhCarry, r.dhNext)
	clipGradients(r.grads, gradNormCap)

	return r.gradInBuf
}

func (r *SimpleRNN) Params() []float32 { return r.params }

func (r *SimpleRNN) SetParams(params []float32) { copy(r.params, params) }

func (r *SimpleRNN) Gradients() []float32 { return r.grads }

func (r *SimpleRNN) ClearGradients() { zero(r.grads) }

// Reset discards stored steps and the carried hidden-state gradient.
func (r *SimpleRNN) Reset() {
	r.stepCount = 0
	zero(r.dhCarry)
}

func (r *SimpleRNN) InSize() int { return r.inSize }

func (r *SimpleRNN) OutSize() int { return r.outSize }

// storeStep reuses the step slot at index t, growing the backing slice on
// first use. When src is non-nil its values are copied into the slot.
func storeStep(steps [][]float32, t int, src []float32, size int) [][]float32 {
	if t < len(steps) {
		if src != nil {
			copy(steps[t], src)
		}
		return steps
	}

	slot := make([]float32, size)
	if src != nil {
		copy(slot, src)
	}
	return append(steps, slot)
}
