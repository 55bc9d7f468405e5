package forecast

import (
	"context"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/metric"
	"github.com/forecastlab/forecastlab/nn"
)

// IterativeStrategy trains a stacked recurrent network to predict only the
// next point, then rolls the forecast forward by sliding the input window
// over its own predictions one step at a time. Errors compound across the
// horizon, which is exactly the failure mode the vector strategies avoid.
type IterativeStrategy struct {
	base
}

func (s *IterativeStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	cfg := s.cfg
	n := cfg.InputSteps()
	m := cfg.Horizon
	f := cfg.Features

	rng := s.rng()
	model := nn.NewSequential(s.Name(),
		nn.NewSequenceUnroller(nn.NewSimpleRNN(f, cfg.Units, rng), n, true),
		nn.NewSequenceUnroller(nn.NewSimpleRNN(cfg.Units, cfg.Units, rng), n, false),
		nn.NewDense(cfg.Units, f, rng),
	)
	model.Compile(nn.NewAdam(cfg.LearningRate), nn.MSE{})

	history, err := model.Fit(ctx, data.TrainInputs().Rows(), firstStepRows(data.TrainTargets()), nn.FitConfig{
		Epochs:     cfg.Epochs,
		ValInputs:  data.ValidationInputs().Rows(),
		ValTargets: firstStepRows(data.ValidationTargets()),
		Callbacks:  s.callbacks(),
		RNG:        rng,
	})
	if err != nil {
		return nil, err
	}

	// Extend each validation series one step at a time, feeding every
	// prediction back in as the newest observation.
	inputs := data.ValidationInputs()
	seq := core.NewSeriesBatch(inputs.Batch(), cfg.Steps, f)
	for b := 0; b < inputs.Batch(); b++ {
		copy(seq.Row(b)[:n*f], inputs.Row(b))
	}
	for step := 0; step < m; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for b := 0; b < seq.Batch(); b++ {
			row := seq.Row(b)
			next := model.Predict(row[step*f : (step+n)*f])
			copy(row[(n+step)*f:(n+step+1)*f], next)
		}
	}

	pred := seq.SliceSteps(n, cfg.Steps)
	loss, err := metric.BatchMSE(pred, data.ValidationTargets())
	if err != nil {
		return nil, err
	}
	return &Result{Loss: loss, Prediction: pred, History: history}, nil
}
