package forecast

import (
	"context"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/nn"
)

// VectorStrategy trains the same stacked recurrent network as the iterative
// strategy but emits the whole forecast window in one shot from the final
// hidden state.
type VectorStrategy struct {
	base
}

func (s *VectorStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	cfg := s.cfg
	n := cfg.InputSteps()
	m := cfg.Horizon
	f := cfg.Features

	rng := s.rng()
	model := nn.NewSequential(s.Name(),
		nn.NewSequenceUnroller(nn.NewSimpleRNN(f, cfg.Units, rng), n, true),
		nn.NewSequenceUnroller(nn.NewSimpleRNN(cfg.Units, cfg.Units, rng), n, false),
		nn.NewDense(cfg.Units, m*f, rng),
	)
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
