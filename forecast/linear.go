package forecast

import (
	"context"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/nn"
)

// LinearStrategy flattens each input window into one feature vector and fits
// a single dense projection onto the whole forecast window.
type LinearStrategy struct {
	base
}

func (s *LinearStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	cfg := s.cfg
	n := cfg.InputSteps()
	m := cfg.Horizon
	f := cfg.Features

	rng := s.rng()
	model := nn.NewSequential(s.Name(), nn.NewDense(n*f, m*f, rng))
	model.Compile(nn.NewAdam(cfg.LearningRate), nn.MSE{})

	history, err := model.Fit(ctx, data.TrainInputs().Rows(), data.TrainTargets().Rows(), nn.FitConfig{
		Epochs:     cfg.Epochs,
		ValInputs:  data.ValidationInputs().Rows(),
		ValTargets: data.ValidationTargets().Rows(),
		Callbacks:  s.callbacks(),
		RNG:        rng,
	})
	if err != nil {
		return nil, err
	}

	pred, err := core.SeriesBatchFromRows(model.PredictBatch(data.ValidationInputs().Rows()), m, f)
	if err != nil {
		return nil, err
	}
	return &Result{Loss: history.Final("val_loss"), Prediction: pred, History: history}, nil
}
