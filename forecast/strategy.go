package forecast

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/nn"
)

// Strategy produces a multi-step forecast for the validation partition of a
// dataset. Implementations are stateless between calls; each Forecast builds
// and trains its own model from the strategy's seed.
type Strategy interface {
	Kind() Kind
	Name() string
	Label() string
	Forecast(ctx context.Context, data *dataset.Dataset) (*Result, error)
}

// Result holds a strategy's forecast over the validation partition together
// with the loss it is ranked by. Prediction has one row per validation
// series, shaped (horizon, features). History is nil for strategies that do
// not train.
type Result struct {
	Loss       float64
	Prediction *core.SeriesBatch
	History    nn.History
}

// New builds the strategy for the given kind.
func New(kind Kind, cfg core.Config, log core.Logger) (Strategy, error) {
	b := base{kind: kind, cfg: cfg, log: log}
	switch kind {
	case Naive:
		return &NaiveStrategy{base: b}, nil
	case Linear:
		return &LinearStrategy{base: b}, nil
	case RNNIterative:
		return &IterativeStrategy{base: b}, nil
	case RNNVector:
		return &VectorStrategy{base: b}, nil
	case RNNSequence, LSTMSequence, GRUSequence:
		return &SequenceStrategy{base: b}, nil
	case CNNVector:
		return &CNNStrategy{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

type base struct {
	kind Kind
	cfg  core.Config
	log  core.Logger
}

func (b base) Kind() Kind    { return b.kind }
func (b base) Name() string  { return b.kind.String() }
func (b base) Label() string { return b.kind.Label() }

// rng returns the generator a strategy uses for weight initialization and
// epoch shuffling, seeded from the run configuration so repeated runs train
// the same model.
func (b base) rng() *rand.Rand {
	return rand.New(rand.NewSource(b.cfg.Seed))
}

func (b base) callbacks() []nn.Callback {
	return []nn.Callback{nn.NewEpochLogger(b.log, b.Name())}
}

// firstStepRows views the first forecast step of every row in the batch.
func firstStepRows(batch *core.SeriesBatch) [][]float32 {
	rows := make([][]float32, batch.Batch())
	f := batch.Features()
	for i := range rows {
		rows[i] = batch.Row(i)[:f]
	}
	return rows
}

// lastStepRows trims per-step sequence outputs down to the final step's
// block of width values per row.
func lastStepRows(rows [][]float32, width int) [][]float32 {
	out := make([][]float32, len(rows))
	for i, row := range rows {
		out[i] = row[len(row)-width:]
	}
	return out
}
