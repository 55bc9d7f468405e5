package forecast

import (
	"context"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/metric"
)

// NaiveStrategy repeats each series' last observed point across the whole
// forecast horizon. It trains nothing and sets the benchmark floor every
// model has to beat.
type NaiveStrategy struct {
	base
}

func (s *NaiveStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inputs := data.ValidationInputs()
	targets := data.ValidationTargets()
	n := s.cfg.InputSteps()
	f := s.cfg.Features

	pred := core.NewSeriesBatch(inputs.Batch(), s.cfg.Horizon, f)
	for b := 0; b < inputs.Batch(); b++ {
		last := inputs.Row(b)[(n-1)*f : n*f]
		row := pred.Row(b)
		for k := 0; k < s.cfg.Horizon; k++ {
			copy(row[k*f:(k+1)*f], last)
		}
	}

	loss, err := metric.BatchMSE(pred, targets)
	if err != nil {
		return nil, err
	}
	return &Result{Loss: loss, Prediction: pred}, nil
}
