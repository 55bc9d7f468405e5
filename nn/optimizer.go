package nn

import "math"

// Optimizer applies one update step to a parameter group. The trainer calls
// Step once per layer per mini-batch, with group identifying the layer so
// stateful optimizers can keep per-layer moments.
type Optimizer interface {
	Step(group int, params, grads []float32)
}

// SGD is plain stochastic gradient descent.
type SGD struct {
	LearningRate float64
}

func NewSGD(learningRate float64) *SGD {
	return &SGD{LearningRate: learningRate}
}

func (s *SGD) Step(_ int, params, grads []float32) {
	lr := float32(s.LearningRate)
	for i := range params {
		params[i] -= lr * grads[i]
	}
}

// Adam implements the Adam optimizer with bias-corrected first and second
// moment estimates, tracked independently per parameter group.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	state map[int]*adamState
}

type adamState struct {
	m []float32
	v []float32
	t int
}

// NewAdam returns an Adam optimizer with the usual moment decays
// (0.9, 0.999) and epsilon 1e-8.
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		state:        make(map[int]*adamState),
	}
}

func (a *Adam) Step(group int, params, grads []float32) {
	s, ok := a.state[group]
	if !ok {
		s = &adamState{
			m: make([]float32, len(params)),
			v: make([]float32, len(params)),
		}
		a.state[group] = s
	}

	s.t++
	correction1 := 1 - math.Pow(a.Beta1, float64(s.t))
	correction2 := 1 - math.Pow(a.Beta2, float64(s.t))

	for i := range params {
		g := float64(grads[i])

		m := a.Beta1*float64(s.m[i]) + (1-a.Beta1)*g
		v := a.Beta2*float64(s.v[i]) + (1-a.Beta2)*g*g
		s.m[i] = float32(m)
		s.v[i] = float32(v)

		mHat := m / correction1
		vHat := v / correction2

		params[i] -= float32(a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon))
	}
}
