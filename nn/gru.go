package nn

import (
	"fmt"
	"math/rand"
)

// Gate offsets inside the GRU parameter blocks.
const (
	gateUpdate = iota
	gateReset
	gateCandidate
	gruGates
)

// GRU is a gated recurrent unit advanced one step per Forward call:
//
//	z = sigmoid(Wz*x + Uz*hPrev + bz)
//	r = sigmoid(Wr*x + Ur*hPrev + br)
//	g = tanh(Wg*x + Ug*(r.hPrev) + bg)
//	h = hPrev + z.(g - hPrev)
//
// Parameters live in a single arena split into input weights, recurrent
// weights and biases, one block per gate. Per-step activations are stored
// for backpropagation and the hidden-state gradient is carried internally.
type GRU struct {
	inSize  int
	outSize int

	params []float32
	grads  []float32

	inputWeights     []float32
	recurrentWeights []float32
	biases           []float32

	gradInputWeights     []float32
	gradRecurrentWeights []float32
	gradBiases           []float32

	storedInputs [][]float32
	storedHidden [][]float32
	storedGates  [][]float32 // (gates x outSize) per step
	stepCount    int

	zeroState    []float32
	dhCarry      []float32
	dhNext       []float32
	deltaBuf     []float32 // (gates x outSize) pre-activation deltas
	resetHidden  []float32 // r . hPrev for the step being processed
	candidateSum []float32 // recurrent gradient reaching r . hPrev
	gradInBuf    []float32
}

// NewGRU builds a cell with Xavier-initialized weights and zero biases.
func NewGRU(inSize, outSize int, rng *rand.Rand) *GRU {
	if inSize <= 0 || outSize <= 0 {
		panic(fmt.Sprintf("nn: gru cell with sizes %d -> %d", inSize, outSize))
	}

	inputLen := gruGates * outSize * inSize
	recurrentLen := gruGates * outSize * outSize
	biasLen := gruGates * outSize

	g := &GRU{
		inSize:       inSize,
		outSize:      outSize,
		params:       make([]float32, inputLen+recurrentLen+biasLen),
		grads:        make([]float32, inputLen+recurrentLen+biasLen),
		zeroState:    make([]float32, outSize),
		dhCarry:      make([]float32, outSize),
		dhNext:       make([]float32, outSize),
		deltaBuf:     make([]float32, gruGates*outSize),
		resetHidden:  make([]float32, outSize),
		candidateSum: make([]float32, outSize),
		gradInBuf:    make([]float32, inSize),
	}

	g.inputWeights = g.params[:inputLen]
	g.recurrentWeights = g.params[inputLen : inputLen+recurrentLen]
	g.biases = g.params[inputLen+recurrentLen:]

	g.gradInputWeights = g.grads[:inputLen]
	g.gradRecurrentWeights = g.grads[inputLen : inputLen+recurrentLen]
	g.gradBiases = g.grads[inputLen+recurrentLen:]

	source := newRNG(rng)
	xavierFill(source, g.inputWeights, inSize, gruGates*outSize)
	xavierFill(source, g.recurrentWeights, outSize, gruGates*outSize)

	return g
}

func (g *GRU) inputRow(gate, o int) []float32 {
	offset := (gate*g.outSize + o) * g.inSize
	return g.inputWeights[offset : offset+g.inSize]
}

func (g *GRU) gradInputRow(gate, o int) []float32 {
	offset := (gate*g.outSize + o) * g.inSize
	return g.gradInputWeights[offset : offset+g.inSize]
}

func (g *GRU) recurrentRow(gate, o int) []float32 {
	offset := (gate*g.outSize + o) * g.outSize
	return g.recurrentWeights[offset : offset+g.outSize]
}

func (g *GRU) gradRecurrentRow(gate, o int) []float32 {
	offset := (gate*g.outSize + o) * g.outSize
	return g.gradRecurrentWeights[offset : offset+g.outSize]
}

// Forward advances the cell one step and returns the new hidden state.
func (g *GRU) Forward(input []float32) []float32 {
	t := g.stepCount
	g.storedInputs = storeStep(g.storedInputs, t, input, g.inSize)
	g.storedHidden = storeStep(g.storedHidden, t, nil, g.outSize)
	g.storedGates = storeStep(g.storedGates, t, nil, gruGates*g.outSize)

	prev := g.zeroState
	if t > 0 {
		prev = g.storedHidden[t-1]
	}

	hidden := g.storedHidden[t]
	gates := g.storedGates[t]

	// Update and reset gates first; the candidate needs the full reset vector
	for gate := gateUpdate; gate <= gateReset; gate++ {
		for o := 0; o < g.outSize; o++ {
			sum := g.biases[gate*g.outSize+o]

			inputRow := g.inputRow(gate, o)
			for i, x := range g.storedInputs[t] {
				sum += inputRow[i] * x
			}

			recurrentRow := g.recurrentRow(gate, o)
			for j, h := range prev {
				sum += recurrentRow[j] * h
			}

			gates[gate*g.outSize+o] = sigmoid(sum)
		}
	}

	for j := 0; j < g.outSize; j++ {
		g.resetHidden[j] = gates[gateReset*g.outSize+j] * prev[j]
	}

	for o := 0; o < g.outSize; o++ {
		sum := g.biases[gateCandidate*g.outSize+o]

		inputRow := g.inputRow(gateCandidate, o)
		for i, x := range g.storedInputs[t] {
			sum += inputRow[i] * x
		}

		recurrentRow := g.recurrentRow(gateCandidate, o)
		for j, rh := range g.resetHidden {
			sum += recurrentRow[j] * rh
		}

		candidate := tanh32(sum)
		gates[gateCandidate*g.outSize+o] = candidate

		update := gates[gateUpdate*g.outSize+o]
		hidden[o] = prev[o] + update*(candidate-prev[o])
	}

	g.stepCount++
	return hidden
}

// Backward consumes the most recent un-backpropagated step. grad holds the
// loss gradient of that step's output only.
func (g *GRU) Backward(grad []float32) []float32 {
	g.stepCount--
	t := g.stepCount

	input := g.storedInputs[t]
	gates := g.storedGates[t]

	prev := g.zeroState
	if t > 0 {
		prev = g.storedHidden[t-1]
	}

	// Pre-activation deltas for the update and candidate gates
	for o := 0; o < g.outSize; o++ {
		update := gates[gateUpdate*g.outSize+o]
		candidate := gates[gateCandidate*g.outSize+o]

		dh := grad[o] + g.dhCarry[o]

		dUpdate := dh * (candidate - prev[o])
		dCandidate := dh * update

		g.deltaBuf[gateUpdate*g.outSize+o] = dUpdate * update * (1 - update)
		g.deltaBuf[gateCandidate*g.outSize+o] = dCandidate * (1 - candidate*candidate)
	}

	// Gradient reaching the reset-scaled hidden state via the candidate
	zero(g.candidateSum)
	for o := 0; o < g.outSize; o++ {
		delta := g.deltaBuf[gateCandidate*g.outSize+o]
		recurrentRow := g.recurrentRow(gateCandidate, o)
		for j := range g.candidateSum {
			g.candidateSum[j] += delta * recurrentRow[j]
		}
	}

	for j := 0; j < g.outSize; j++ {
		reset := gates[gateReset*g.outSize+j]
		dReset := g.candidateSum[j] * prev[j]
		g.deltaBuf[gateReset*g.outSize+j] = dReset * reset * (1 - reset)

		g.resetHidden[j] = reset * prev[j]
	}

	zero(g.gradInBuf)
	zero(g.dhNext)

	for gate := 0; gate < gruGates; gate++ {
		recurrentInput := prev
		if gate == gateCandidate {
			recurrentInput = g.resetHidden
		}

		for o := 0; o < g.outSize; o++ {
			delta := g.deltaBuf[gate*g.outSize+o]
			g.gradBiases[gate*g.outSize+o] += delta

			inputRow := g.inputRow(gate, o)
			gradInputRow := g.gradInputRow(gate, o)
			for i, x := range input {
				gradInputRow[i] += delta * x
				g.gradInBuf[i] += delta * inputRow[i]
			}

			gradRecurrentRow := g.gradRecurrentRow(gate, o)
			for j, h := range recurrentInput {
				gradRecurrentRow[j] += delta * h
			}

			// The candidate's recurrent path reaches hPrev through the
			// reset gate and is added below.
			if gate != gateCandidate {
				recurrentRow := g.recurrentRow(gate, o)
				for j := range g.dhNext {
					g.dhNext[j] += delta * recurrentRow[j]
				}
			}
		}
	}

	for j := 0; j < g.outSize; j++ {
		update := gates[gateUpdate*g.outSize+j]
		reset := gates[gateReset*g.outSize+j]
		dh := grad[j] + g.dhCarry[j]

		g.dhNext[j] += dh*(1-update) + g.candidateSum[j]*reset
	}

	copy(g.dhCarry, g.dhNext)
	clipGradients(g.grads, gradNormCap)

	return g.gradInBuf
}

func (g *GRU) Params() []float32 { return g.params }

func (g *GRU) SetParams(params []float32) { copy(g.params, params) }

func (g *GRU) Gradients() []float32 { return g.grads }

func (g *GRU) ClearGradients() { zero(g.grads) }

// Reset discards stored steps and the carried hidden-state gradient.
func (g *GRU) Reset() {
	g.stepCount = 0
	zero(g.dhCarry)
}

func (g *GRU) InSize() int { return g.inSize }

func (g *GRU) OutSize() int { return g.outSize }
