package forecast

import (
	"context"
	"math/rand"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/metric"
	"github.com/forecastlab/forecastlab/nn"
)

// SequenceStrategy trains sequence-to-sequence models that emit a full
// horizon forecast at every input step instead of only after the last one.
// The extra gradient paths through the early steps stabilize training; only
// the final step's forecast is used at inference time. The recurrent cell is
// chosen by kind: simple RNN, LSTM or GRU.
type SequenceStrategy struct {
	base
}

func (s *SequenceStrategy) cell(in, out int, rng *rand.Rand) nn.Layer {
	switch s.kind {
	case LSTMSequence:
		return nn.NewLSTM(in, out, rng)
	case GRUSequence:
		return nn.NewGRU(in, out, rng)
	default:
		return nn.NewSimpleRNN(in, out, rng)
	}
}

func (s *SequenceStrategy) Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error) {
	cfg := s.cfg
	n := cfg.InputSteps()
	m := cfg.Horizon
	f := cfg.Features

	rng := s.rng()
	model := nn.NewSequential(s.Name(),
		nn.NewSequenceUnroller(s.cell(f, cfg.Units, rng), n, true),
		nn.NewSequenceUnroller(s.cell(cfg.Units, cfg.Units, rng), n, true),
		nn.NewTimeDistributed(nn.NewDense(cfg.Units, m*f, rng), n),
	)
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
