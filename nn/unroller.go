package nn

import (
	"fmt"
)

// SequenceUnroller drives a recurrent cell across a fixed-length sequence,
// turning a per-step layer into a whole-sequence layer. Input is a flat
// (timeSteps x cell input) vector; the output is either every step's hidden
// state or only the final one.
//
// During Backward the unroller walks the steps in reverse, handing each step
// its own output gradient. The cell carries the recurrent gradient between
// steps internally.
type SequenceUnroller struct {
	base            Layer
	timeSteps       int
	returnSequences bool

	outputBuf    []float32
	gradInBuf    []float32
	zeroStepGrad []float32
}

// NewSequenceUnroller wraps a recurrent cell. With returnSequences the output
// holds every step's hidden state, otherwise only the last step's.
func NewSequenceUnroller(base Layer, timeSteps int, returnSequences bool) *SequenceUnroller {
	if timeSteps <= 0 {
		panic(fmt.Sprintf("nn: unroller over %d steps", timeSteps))
	}

	outLen := base.OutSize()
	if returnSequences {
		outLen = timeSteps * base.OutSize()
	}

	return &SequenceUnroller{
		base:            base,
		timeSteps:       timeSteps,
		returnSequences: returnSequences,
		outputBuf:       make([]float32, outLen),
		gradInBuf:       make([]float32, timeSteps*base.InSize()),
		zeroStepGrad:    make([]float32, base.OutSize()),
	}
}

func (u *SequenceUnroller) Forward(input []float32) []float32 {
	u.base.Reset()

	stepIn := u.base.InSize()
	stepOut := u.base.OutSize()

	for t := 0; t < u.timeSteps; t++ {
		out := u.base.Forward(input[t*stepIn : (t+1)*stepIn])

		if u.returnSequences {
			copy(u.outputBuf[t*stepOut:(t+1)*stepOut], out)
		} else if t == u.timeSteps-1 {
			copy(u.outputBuf, out)
		}
	}

	return u.outputBuf
}

func (u *SequenceUnroller) Backward(grad []float32) []float32 {
	stepIn := u.base.InSize()
	stepOut := u.base.OutSize()

	for t := u.timeSteps - 1; t >= 0; t-- {
		stepGrad := u.zeroStepGrad
		switch {
		case u.returnSequences:
			stepGrad = grad[t*stepOut : (t+1)*stepOut]
		case t == u.timeSteps-1:
			stepGrad = grad
		}

		dx := u.base.Backward(stepGrad)
		copy(u.gradInBuf[t*stepIn:(t+1)*stepIn], dx)
	}

	return u.gradInBuf
}

func (u *SequenceUnroller) Params() []float32 { return u.base.Params() }

func (u *SequenceUnroller) SetParams(params []float32) { u.base.SetParams(params) }

func (u *SequenceUnroller) Gradients() []float32 { return u.base.Gradients() }

func (u *SequenceUnroller) ClearGradients() { u.base.ClearGradients() }

func (u *SequenceUnroller) Reset() { u.base.Reset() }

func (u *SequenceUnroller) InSize() int { return u.timeSteps * u.base.InSize() }

func (u *SequenceUnroller) OutSize() int { return len(u.outputBuf) }

// TimeDistributed applies a stateless layer independently at every step of a
// sequence. The stored step inputs are replayed through the base layer
// during the backward pass, so the base only needs to remember its most
// recent forward call.
type TimeDistributed struct {
	base      Layer
	timeSteps int

	storedInput []float32
	outputBuf   []float32
	gradInBuf   []float32
}

// NewTimeDistributed wraps a per-step layer, usually a Dense projection on
// top of an unrolled recurrent stack.
func NewTimeDistributed(base Layer, timeSteps int) *TimeDistributed {
	if timeSteps <= 0 {
		panic(fmt.Sprintf("nn: time distributed layer over %d steps", timeSteps))
	}

	return &TimeDistributed{
		base:        base,
		timeSteps:   timeSteps,
		storedInput: make([]float32, timeSteps*base.InSize()),
		outputBuf:   make([]float32, timeSteps*base.OutSize()),
		gradInBuf:   make([]float32, timeSteps*base.InSize()),
	}
}

func (td *TimeDistributed) Forward(input []float32) []float32 {
	copy(td.storedInput, input)

	stepIn := td.base.InSize()
	stepOut := td.base.OutSize()

	for t := 0; t < td.timeSteps; t++ {
		out := td.base.Forward(td.storedInput[t*stepIn : (t+1)*stepIn])
		copy(td.outputBuf[t*stepOut:(t+1)*stepOut], out)
	}

	return td.outputBuf
}

func (td *TimeDistributed) Backward(grad []float32) []float32 {
	stepIn := td.base.InSize()
	stepOut := td.base.OutSize()

	for t := td.timeSteps - 1; t >= 0; t-- {
		// Replay the step input so the base layer backpropagates against
		// the right activation.
		td.base.Forward(td.storedInput[t*stepIn : (t+1)*stepIn])

		dx := td.base.Backward(grad[t*stepOut : (t+1)*stepOut])
		copy(td.gradInBuf[t*stepIn:(t+1)*stepIn], dx)
	}

	return td.gradInBuf
}

func (td *TimeDistributed) Params() []float32 { return td.base.Params() }

func (td *TimeDistributed) SetParams(params []float32) { td.base.SetParams(params) }

func (td *TimeDistributed) Gradients() []float32 { return td.base.Gradients() }

func (td *TimeDistributed) ClearGradients() { td.base.ClearGradients() }

func (td *TimeDistributed) Reset() { td.base.Reset() }

func (td *TimeDistributed) InSize() int { return td.timeSteps * td.base.InSize() }

func (td *TimeDistributed) OutSize() int { return td.timeSteps * td.base.OutSize() }
