package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkGradients validates every parameter gradient of a compiled model
// against a central finite difference of the loss. Targets should sit close
// to the model output so the gradients stay far below the recurrent clipping
// threshold.
func checkGradients(t *testing.T, model *Sequential, input, target []float32) {
	t.Helper()

	model.clearGradients()

	out := model.Forward(input)
	grad := make([]float32, len(out))
	model.loss.Backward(out, target, grad)
	model.backprop(grad)

	analytic := make([][]float32, len(model.layers))
	for li, layer := range model.layers {
		analytic[li] = append([]float32(nil), layer.Gradients()...)
	}

	const eps = 1e-2
	for li, layer := range model.layers {
		params := layer.Params()

		for pi := range params {
			orig := params[pi]

			params[pi] = orig + eps
			plus := model.loss.Forward(model.Forward(input), target)

			params[pi] = orig - eps
			minus := model.loss.Forward(model.Forward(input), target)

			params[pi] = orig

			numeric := (plus - minus) / (2 * eps)
			got := float64(analytic[li][pi])

			tol := 5e-3 + 0.05*math.Abs(numeric)
			require.InDelta(t, numeric, got, tol, "layer %d param %d", li, pi)
		}
	}
}

// shiftedTarget returns the model output nudged by delta, a target that
// keeps loss gradients small and smooth.
func shiftedTarget(model *Sequential, input []float32, delta float32) []float32 {
	out := model.Forward(input)
	target := make([]float32, len(out))
	for i, v := range out {
		target[i] = v + delta
	}
	return target
}

func requireAllFinite(t *testing.T, values []float32) {
	t.Helper()
	for i, v := range values {
		f := float64(v)
		require.False(t, math.IsNaN(f), "value %d is NaN", i)
		require.False(t, math.IsInf(f, 0), "value %d is Inf", i)
	}
}
