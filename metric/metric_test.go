package metric

import (
	"testing"

	"github.com/forecastlab/forecastlab/core"
	"github.com/stretchr/testify/require"
)

func TestMSE(t *testing.T) {
	require.InDelta(t, 0, MSE([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	require.InDelta(t, 1, MSE([]float32{1, 2}, []float32{2, 1}), 1e-9)
	require.InDelta(t, 4.5, MSE([]float32{0, 0}, []float32{3, 0}), 1e-9)
	require.InDelta(t, 0, MSE(nil, nil), 1e-9)

	require.Panics(t, func() { MSE([]float32{1}, []float32{1, 2}) })
}

func TestLastStepMSE(t *testing.T) {
	lastStep := LastStepMSE(2)

	pred := []float32{9, 9, 9, 1, 2}
	target := []float32{0, 0, 0, 2, 4}

	// Only the trailing two values count: ((1-2)^2 + (2-4)^2) / 2
	require.InDelta(t, 2.5, lastStep(pred, target), 1e-9)
}

func TestBatchMSE(t *testing.T) {
	pred := core.NewSeriesBatch(2, 2, 1)
	target := core.NewSeriesBatch(2, 2, 1)
	target.Set(0, 0, 0, 2)

	mse, err := BatchMSE(pred, target)
	require.NoError(t, err)
	require.InDelta(t, 1, mse, 1e-9)

	_, err = BatchMSE(pred, core.NewSeriesBatch(2, 3, 1))
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestSquaredErrors(t *testing.T) {
	pred := core.NewSeriesBatch(2, 2, 1)
	target := core.NewSeriesBatch(2, 2, 1)
	target.Set(1, 0, 0, 1)
	target.Set(1, 1, 0, 3)

	errs, err := SquaredErrors(pred, target)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	require.InDelta(t, 0, errs[0], 1e-9)
	require.InDelta(t, 5, errs[1], 1e-9)

	_, err = SquaredErrors(pred, core.NewSeriesBatch(1, 2, 1))
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestMeanAndStd(t *testing.T) {
	require.InDelta(t, 2, Mean([]float64{1, 2, 3}), 1e-9)
	require.Zero(t, Mean(nil))

	require.InDelta(t, 1, Std([]float64{1, 2, 3}), 1e-9)
	require.Zero(t, Std([]float64{5}))
}

func TestBootstrap(t *testing.T) {
	values := []float64{4, 4, 4, 4}

	// Every resample of a constant sample is the constant itself
	interval := Bootstrap(values, Mean, 200, 0.95)
	require.InDelta(t, 4, interval.Mean, 1e-9)
	require.InDelta(t, 4, interval.Lower, 1e-9)
	require.InDelta(t, 4, interval.Upper, 1e-9)
	require.InDelta(t, 0, interval.StdDev, 1e-9)
}

func TestBootstrapSpread(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i % 5)
	}

	interval := Bootstrap(values, Mean, 500, 0.95)
	require.LessOrEqual(t, interval.Lower, interval.Mean)
	require.LessOrEqual(t, interval.Mean, interval.Upper)
	require.Greater(t, interval.StdDev, 0.0)

	// The interval brackets the sample mean of 2
	require.InDelta(t, 2, interval.Mean, 0.5)
}

func TestBootstrapEmpty(t *testing.T) {
	interval := Bootstrap(nil, Mean, 100, 0.95)
	require.Zero(t, interval)
}
