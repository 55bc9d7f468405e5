package nn

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func line(slope float32, n int) (inputs, targets [][]float32) {
	for i := 0; i < n; i++ {
		x := float32(i)/float32(n) - 0.5
		inputs = append(inputs, []float32{x})
		targets = append(targets, []float32{slope * x})
	}
	return inputs, targets
}

func TestFitLearnsLinearMap(t *testing.T) {
	model := NewSequential("line", NewDense(1, 1, rand.New(rand.NewSource(1))))
	model.Compile(NewSGD(0.5), MSE{})

	inputs, targets := line(2, 16)

	history, err := model.Fit(context.Background(), inputs, targets, FitConfig{
		Epochs:    40,
		BatchSize: 4,
		RNG:       rand.New(rand.NewSource(2)),
	})
	require.NoError(t, err)
	require.Equal(t, 40, history.Epochs())

	first := history["loss"][0]
	last := history.Final("loss")
	require.Less(t, last, first)
	require.Less(t, last, 0.01)
}

func TestFitRecordsValidationAndMetrics(t *testing.T) {
	model := NewSequential("metrics", NewDense(1, 2, rand.New(rand.NewSource(3))))
	model.Compile(NewAdam(0.01), MSE{})

	inputs := [][]float32{{0.1}, {0.2}, {0.3}}
	targets := [][]float32{{0, 0.1}, {0, 0.2}, {0, 0.3}}

	lastValue := Metric{
		Name: "last_value_mse",
		Fn: func(pred, target []float32) float64 {
			diff := float64(pred[len(pred)-1]) - float64(target[len(target)-1])
			return diff * diff
		},
	}

	history, err := model.Fit(context.Background(), inputs, targets, FitConfig{
		Epochs:     3,
		ValInputs:  inputs,
		ValTargets: targets,
		Metrics:    []Metric{lastValue},
	})
	require.NoError(t, err)

	require.Len(t, history["loss"], 3)
	require.Len(t, history["val_loss"], 3)
	require.Len(t, history["last_value_mse"], 3)
	require.Len(t, history["val_last_value_mse"], 3)

	require.False(t, history.Final("val_loss") < 0)
}

func TestFitValidatesArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ctx := context.Background()

	model := NewSequential("checks", NewDense(2, 1, rng))

	_, err := model.Fit(ctx, [][]float32{{1, 2}}, [][]float32{{1}}, FitConfig{Epochs: 1})
	require.ErrorIs(t, err, ErrNotCompiled)

	model.Compile(NewSGD(0.1), MSE{})

	_, err = model.Fit(ctx, nil, nil, FitConfig{Epochs: 1})
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = model.Fit(ctx, [][]float32{{1, 2}}, [][]float32{{1}, {2}}, FitConfig{Epochs: 1})
	require.ErrorIs(t, err, ErrSampleMismatch)

	_, err = model.Fit(ctx, [][]float32{{1, 2, 3}}, [][]float32{{1}}, FitConfig{Epochs: 1})
	require.ErrorIs(t, err, ErrSampleMismatch)

	_, err = model.Fit(ctx, [][]float32{{1, 2}}, [][]float32{{1, 5}}, FitConfig{Epochs: 1})
	require.ErrorIs(t, err, ErrSampleMismatch)

	_, err = model.Fit(ctx, [][]float32{{1, 2}}, [][]float32{{1}}, FitConfig{Epochs: 0})
	require.ErrorIs(t, err, ErrBadEpochs)
}

func TestFitStopsOnCancelledContext(t *testing.T) {
	model := NewSequential("cancelled", NewDense(1, 1, rand.New(rand.NewSource(5))))
	model.Compile(NewSGD(0.1), MSE{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs, targets := line(1, 8)
	history, err := model.Fit(ctx, inputs, targets, FitConfig{Epochs: 10})

	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, history.Epochs())
}

func TestFitEarlyStopping(t *testing.T) {
	model := NewSequential("early", NewDense(1, 1, rand.New(rand.NewSource(6))))
	model.Compile(NewSGD(0.001), MSE{})

	inputs, targets := line(1, 8)

	// The first epoch always improves on +Inf; with an unreachable
	// threshold every later epoch counts as bad
	stopping := &EarlyStopping{Patience: 2, Threshold: 1e9}

	history, err := model.Fit(context.Background(), inputs, targets, FitConfig{
		Epochs:    50,
		Callbacks: []Callback{stopping},
	})
	require.NoError(t, err)
	require.True(t, stopping.ShouldStop())
	require.Equal(t, 3, history.Epochs())
}

func TestPredictBatchReturnsCopies(t *testing.T) {
	model := NewSequential("copies", NewDense(1, 2, rand.New(rand.NewSource(7))))

	outputs := model.PredictBatch([][]float32{{0.5}, {-0.5}})
	require.Len(t, outputs, 2)
	require.NotEqual(t, outputs[0], outputs[1])

	// Outputs survive later forward passes
	snapshot := append([]float32(nil), outputs[0]...)
	model.Forward([]float32{3})
	require.Equal(t, snapshot, outputs[0])
}

func TestEvaluate(t *testing.T) {
	model := NewSequential("eval", NewDense(1, 1, rand.New(rand.NewSource(8))))

	_, err := model.Evaluate([][]float32{{1}}, [][]float32{{1}})
	require.ErrorIs(t, err, ErrNotCompiled)

	model.Compile(NewSGD(0.1), MSE{})
	model.layers[0].SetParams([]float32{1, 0}) // identity

	loss, err := model.Evaluate([][]float32{{1}, {2}}, [][]float32{{1}, {4}})
	require.NoError(t, err)
	require.InDelta(t, 2, loss, 1e-6) // (0 + 4) / 2

	_, err = model.Evaluate(nil, nil)
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestSummaryListsLayers(t *testing.T) {
	model := NewSequential("summary",
		NewSequenceUnroller(NewSimpleRNN(2, 3, rand.New(rand.NewSource(9))), 4, true),
		NewDense(12, 2, rand.New(rand.NewSource(10))),
	)

	summary := model.Summary()
	require.Contains(t, summary, `model "summary"`)
	require.Contains(t, summary, "total params:")
	require.Contains(t, summary, "params=26") // dense: 12*2+2
}
