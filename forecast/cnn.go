package forecast

import (
	"context"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/metric"
	"github.com/forecastlab/forecastlab/nn"
)

// cnnDilations doubles the dilation rate through each half of the stack,
// giving the top layer a receptive field that spans the whole input window.
var cnnDilations = []int{1, 2, 4, 8, 1, 2, 4, 8}

// CNNStrategy stacks dilated causal convolutions into a WaveNet-style
// forecaster. It trains on the same per-step sequence targets as the
// recurrent sequence models and reads its forecast from the last step.
type CNNStrategy struct {
	base
}

func (s *CNNStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	cfg := s.cfg
	n := cfg.InputSteps()
	m := cfg.Horizon
	f := cfg.Features
	hidden := m * 2

	rng := s.rng()
	layers := make([]nn.Layer, 0, len(cnnDilations)+1)
	channels := f
	for _, dilation := range cnnDilations {
		layers = append(layers, nn.NewCausalConv1D(n, channels, hidden, 2, dilation, nn.ReLU, rng))
		channels = hidden
	}
	layers = append(layers, nn.NewCausalConv1D(n, channels, m*f, 1, 1, nn.Linear, rng))

	model := nn.NewSequential(s.Name(), layers...)
	model.Compile(nn.NewAdam(cfg.SeqLearningRate), nn.MSE{})

	trainTargets, err := data.TrainSequenceTargets()
	if err != nil {
		return nil, err
	}
	valTargets, err := data.ValidationSequenceTargets()
	if err != nil {
		return nil, err
	}

	history, err := model.Fit(ctx, data.TrainInputs().Rows(), trainTargets.Rows(), nn.FitConfig{
		Epochs:     cfg.Epochs,
		ValInputs:  data.ValidationInputs().Rows(),
		ValTargets: valTargets.Rows(),
		Metrics:    []nn.Metric{{Name: "last_time_step_mse", Fn: metric.LastStepMSE(m * f)}},
		Callbacks:  s.callbacks(),
		RNG:        rng,
	})
	if err != nil {
		return nil, err
	}

	rows := model.PredictBatch(data.ValidationInputs().Rows())
	pred, err := core.SeriesBatchFromRows(lastStepRows(rows, m*f), m, f)
	if err != nil {
		return nil, err
	}
	return &Result{Loss: history.Final("val_loss"), Prediction: pred, History: history}, nil
}
