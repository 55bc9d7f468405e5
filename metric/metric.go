// Package metric provides the error measures and summary statistics used to
// score forecasting strategies.
package metric

import (
	"fmt"

	"github.com/forecastlab/forecastlab/core"
	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error between two equally sized vectors.
// It panics when the lengths differ.
func MSE(pred, target []float32) float64 {
	if len(pred) != len(target) {
		panic(fmt.Sprintf("metric: mse over %d predictions and %d targets", len(pred), len(target)))
	}
	if len(pred) == 0 {
		return 0
	}

	sum := 0.0
	for i := range pred {
		diff := float64(pred[i]) - float64(target[i])
		sum += diff * diff
	}
	return sum / float64(len(pred))
}

// LastStepMSE returns a metric scoring only the trailing size values of each
// vector. Sequence models emit a full forecast per input step; the trailing
// block is the forecast of the last step.
func LastStepMSE(size int) func(pred, target []float32) float64 {
	return func(pred, target []float32) float64 {
		return MSE(pred[len(pred)-size:], target[len(target)-size:])
	}
}

// BatchMSE returns the mean squared error over every value of two batches
// with identical dimensions.
func BatchMSE(pred, target *core.SeriesBatch) (float64, error) {
	if err := checkDims(pred, target); err != nil {
		return 0, err
	}

	sum := 0.0
	for b := 0; b < pred.Batch(); b++ {
		predRow, targetRow := pred.Row(b), target.Row(b)
		for i := range predRow {
			diff := float64(predRow[i]) - float64(targetRow[i])
			sum += diff * diff
		}
	}
	return sum / float64(pred.Len()), nil
}

// SquaredErrors returns the mean squared error of every series in the batch,
// in batch order.
func SquaredErrors(pred, target *core.SeriesBatch) ([]float64, error) {
	if err := checkDims(pred, target); err != nil {
		return nil, err
	}

	errs := make([]float64, pred.Batch())
	for b := range errs {
		errs[b] = MSE(pred.Row(b), target.Row(b))
	}
	return errs, nil
}

func checkDims(pred, target *core.SeriesBatch) error {
	pb, ps, pf := pred.Dims()
	tb, ts, tf := target.Dims()

	if pb != tb || ps != ts || pf != tf {
		return fmt.Errorf("%w: predictions are (%d,%d,%d), targets are (%d,%d,%d)",
			core.ErrShapeMismatch, pb, ps, pf, tb, ts, tf)
	}
	return nil
}

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Std calculates the standard deviation of the values.
func Std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}
