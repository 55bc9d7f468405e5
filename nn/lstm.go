package nn

import (
	"fmt"
	"math/rand"
)

// Gate offsets inside the LSTM parameter blocks.
const (
	gateInput = iota
	gateForget
	gateCell
	gateOutput
	lstmGates
)

// LSTM is a long short-term memory cell advanced one step per Forward call.
// Parameters live in a single arena split into input weights
// (gates x outSize x inSize), recurrent weights (gates x outSize x outSize)
// and biases (gates x outSize), with the forget-gate biases starting at one.
//
// Like SimpleRNN, the cell stores per-step activations and carries its own
// hidden and cell state gradients across Backward calls.
type LSTM struct {
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
	storedCell   [][]float32
	storedGates  [][]float32 // (gates x outSize) per step
	stepCount    int

	zeroState []float32
	dhCarry   []float32
	dcCarry   []float32
	dhNext    []float32
	deltaBuf  []float32 // (gates x outSize) pre-activation deltas
	gradInBuf []float32
}

// NewLSTM builds a cell with Xavier-initialized weights, zero biases and
// forget-gate biases of one.
func NewLSTM(inSize, outSize int, rng *rand.Rand) *LSTM {
	if inSize <= 0 || outSize <= 0 {
		panic(fmt.Sprintf("nn: lstm cell with sizes %d -> %d", inSize, outSize))
	}

	inputLen := lstmGates * outSize * inSize
	recurrentLen := lstmGates * outSize * outSize
	biasLen := lstmGates * outSize

	l := &LSTM{
		inSize:    inSize,
		outSize:   outSize,
		params:    make([]float32, inputLen+recurrentLen+biasLen),
		grads:     make([]float32, inputLen+recurrentLen+biasLen),
		zeroState: make([]float32, outSize),
		dhCarry:   make([]float32, outSize),
		dcCarry:   make([]float32, outSize),
		dhNext:    make([]float32, outSize),
		deltaBuf:  make([]float32, lstmGates*outSize),
		gradInBuf: make([]float32, inSize),
	}

	l.inputWeights = l.params[:inputLen]
	l.recurrentWeights = l.params[inputLen : inputLen+recurrentLen]
	l.biases = l.params[inputLen+recurrentLen:]

	l.gradInputWeights = l.grads[:inputLen]
	l.gradRecurrentWeights = l.grads[inputLen : inputLen+recurrentLen]
	l.gradBiases = l.grads[inputLen+recurrentLen:]

	source := newRNG(rng)
	xavierFill(source, l.inputWeights, inSize, lstmGates*outSize)
	xavierFill(source, l.recurrentWeights, outSize, lstmGates*outSize)

	// Open forget gates keep early training from erasing the cell state
	for o := 0; o < outSize; o++ {
		l.biases[gateForget*outSize+o] = 1
	}

	return l
}

func (l *LSTM) inputRow(gate, o int) []float32 {
	offset := (gate*l.outSize + o) * l.inSize
	return l.inputWeights[offset : offset+l.inSize]
}

func (l *LSTM) gradInputRow(gate, o int) []float32 {
	offset := (gate*l.outSize + o) * l.inSize
	return l.gradInputWeights[offset : offset+l.inSize]
}

func (l *LSTM) recurrentRow(gate, o int) []float32 {
	offset := (gate*l.outSize + o) * l.outSize
	return l.recurrentWeights[offset : offset+l.outSize]
}

func (l *LSTM) gradRecurrentRow(gate, o int) []float32 {
	offset := (gate*l.outSize + o) * l.outSize
	return l.gradRecurrentWeights[offset : offset+l.outSize]
}

// Forward advances the cell one step and returns the new hidden state.
func (l *LSTM) Forward(input []float32) []float32 {
	t := l.stepCount
	l.storedInputs = storeStep(l.storedInputs, t, input, l.inSize)
	l.storedHidden = storeStep(l.storedHidden, t, nil, l.outSize)
	l.storedCell = storeStep(l.storedCell, t, nil, l.outSize)
	l.storedGates = storeStep(l.storedGates, t, nil, lstmGates*l.outSize)

	prevHidden, prevCell := l.zeroState, l.zeroState
	if t > 0 {
		prevHidden = l.storedHidden[t-1]
		prevCell = l.storedCell[t-1]
	}

	hidden := l.storedHidden[t]
	cell := l.storedCell[t]
	gates := l.storedGates[t]

	for o := 0; o < l.outSize; o++ {
		var pre [lstmGates]float32

		for gate := 0; gate < lstmGates; gate++ {
			sum := l.biases[gate*l.outSize+o]

			inputRow := l.inputRow(gate, o)
			for i, x := range l.storedInputs[t] {
				sum += inputRow[i] * x
			}

			recurrentRow := l.recurrentRow(gate, o)
			for j, h := range prevHidden {
				sum += recurrentRow[j] * h
			}

			pre[gate] = sum
		}

		inputGate := sigmoid(pre[gateInput])
		forgetGate := sigmoid(pre[gateForget])
		cellInput := tanh32(pre[gateCell])
		outputGate := sigmoid(pre[gateOutput])

		gates[gateInput*l.outSize+o] = inputGate
		gates[gateForget*l.outSize+o] = forgetGate
		gates[gateCell*l.outSize+o] = cellInput
		gates[gateOutput*l.outSize+o] = outputGate

		cell[o] = forgetGate*prevCell[o] + inputGate*cellInput
		hidden[o] = outputGate * tanh32(cell[o])
	}

	l.stepCount++
	return hidden
}

// Backward consumes the most recent un-backpropagated step. grad holds the
// loss gradient of that step's output only.
func (l *LSTM) Backward(grad []float32) []float32 {
	l.stepCount--
	t := l.stepCount

	input := l.storedInputs[t]
	cell := l.storedCell[t]
	gates := l.storedGates[t]

	prevHidden, prevCell := l.zeroState, l.zeroState
	if t > 0 {
		prevHidden = l.storedHidden[t-1]
		prevCell = l.storedCell[t-1]
	}

	for o := 0; o < l.outSize; o++ {
		inputGate := gates[gateInput*l.outSize+o]
		forgetGate := gates[gateForget*l.outSize+o]
		cellInput := gates[gateCell*l.outSize+o]
		outputGate := gates[gateOutput*l.outSize+o]

		tanhCell := tanh32(cell[o])
		dh := grad[o] + l.dhCarry[o]

		dOutput := dh * tanhCell
		dCell := dh*outputGate*(1-tanhCell*tanhCell) + l.dcCarry[o]

		dInput := dCell * cellInput
		dForget := dCell * prevCell[o]
		dCellInput := dCell * inputGate

		l.deltaBuf[gateInput*l.outSize+o] = dInput * inputGate * (1 - inputGate)
		l.deltaBuf[gateForget*l.outSize+o] = dForget * forgetGate * (1 - forgetGate)
		l.deltaBuf[gateCell*l.outSize+o] = dCellInput * (1 - cellInput*cellInput)
		l.deltaBuf[gateOutput*l.outSize+o] = dOutput * outputGate * (1 - outputGate)

		// Cell-state gradient carried to the previous step
		l.dcCarry[o] = dCell * forgetGate
	}

	zero(l.gradInBuf)
	zero(l.dhNext)

	for gate := 0; gate < lstmGates; gate++ {
		for o := 0; o < l.outSize; o++ {
			delta := l.deltaBuf[gate*l.outSize+o]
			l.gradBiases[gate*l.outSize+o] += delta

			inputRow := l.inputRow(gate, o)
			gradInputRow := l.gradInputRow(gate, o)
			for i, x := range input {
				gradInputRow[i] += delta * x
				l.gradInBuf[i] += delta * inputRow[i]
			}

			recurrentRow := l.recurrentRow(gate, o)
			gradRecurrentRow := l.gradRecurrentRow(gate, o)
			for j, h := range prevHidden {
				gradRecurrentRow[j] += delta * h
				l.dhNext[j] += delta * recurrentRow[j]
			}
		}
	}

	copy(l.dhCarry, l.dhNext)
	clipGradients(l.grads, gradNormCap)

	return l.gradInBuf
}

func (l *LSTM) Params() []float32 { return l.params }

func (l *LSTM) SetParams(params []float32) { copy(l.params, params) }

func (l *LSTM) Gradients() []float32 { return l.grads }

func (l *LSTM) ClearGradients() { zero(l.grads) }

// Reset discards stored steps and the carried state gradients.
func (l *LSTM) Reset() {
	l.stepCount = 0
	zero(l.dhCarry)
	zero(l.dcCarry)
}

func (l *LSTM) InSize() int { return l.inSize }

func (l *LSTM) OutSize() int { return l.outSize }
