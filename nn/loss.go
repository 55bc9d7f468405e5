package nn

import "fmt"

// Loss scores a prediction against its target and produces the gradient of
// the score with respect to the prediction.
type Loss interface {
	// Forward returns the scalar loss for one sample.
	Forward(pred, target []float32) float64
	// Backward writes dLoss/dPred into grad, which must match pred in length.
	Backward(pred, target, grad []float32)
}

// MSE is the mean squared error loss.
type MSE struct{}

func (MSE) Forward(pred, target []float32) float64 {
	if len(pred) != len(target) {
		panic(fmt.Sprintf("nn: mse over %d predictions and %d targets", len(pred), len(target)))
	}

	sum := 0.0
	for i := range pred {
		diff := float64(pred[i]) - float64(target[i])
		sum += diff * diff
	}
	return sum / float64(len(pred))
}

func (MSE) Backward(pred, target, grad []float32) {
	scale := 2 / float32(len(pred))
	for i := range pred {
		grad[i] = scale * (pred[i] - target[i])
	}
}
