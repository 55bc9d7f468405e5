package dataset

import (
	"fmt"

	"github.com/forecastlab/forecastlab/core"
)

// Dataset wraps a generated series batch and exposes the windows used for
// training and evaluation. The first InputSteps points of every series form
// the model input, the remaining Horizon points the forecast target, and the
// batch rows are partitioned into training, validation and test sets.
type Dataset struct {
	cfg    core.Config
	series *core.SeriesBatch

	inputs  *core.SeriesBatch // (batch, input steps, features)
	targets *core.SeriesBatch // (batch, horizon, features)

	trainInputs      *core.SeriesBatch
	validationInputs *core.SeriesBatch
	testInputs       *core.SeriesBatch

	trainTargets      *core.SeriesBatch
	validationTargets *core.SeriesBatch
	testTargets       *core.SeriesBatch

	seqTargets *core.SeriesBatch // lazily built (batch, input steps, horizon*features)
}

// New validates the series against the configuration and precomputes the
// input and target windows with their batch partitions.
func New(cfg core.Config, series *core.SeriesBatch) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if series == nil || series.Batch() == 0 {
		return nil, core.ErrEmptyBatch
	}

	batch, steps, features := series.Dims()
	if batch != cfg.BatchSize || steps != cfg.Steps || features != cfg.Features {
		return nil, fmt.Errorf("%w: series is (%d,%d,%d), config wants (%d,%d,%d)",
			core.ErrShapeMismatch, batch, steps, features, cfg.BatchSize, cfg.Steps, cfg.Features)
	}

	n := cfg.InputSteps()
	d := &Dataset{
		cfg:     cfg,
		series:  series,
		inputs:  series.SliceSteps(0, n),
		targets: series.SliceSteps(n, cfg.Steps),
	}

	inputParts, err := d.inputs.Split(cfg.TrainingSize, cfg.ValidationSize, cfg.TestSize)
	if err != nil {
		return nil, err
	}
	d.trainInputs, d.validationInputs, d.testInputs = inputParts[0], inputParts[1], inputParts[2]

	targetParts, err := d.targets.Split(cfg.TrainingSize, cfg.ValidationSize, cfg.TestSize)
	if err != nil {
		return nil, err
	}
	d.trainTargets, d.validationTargets, d.testTargets = targetParts[0], targetParts[1], targetParts[2]

	return d, nil
}

// Config returns the configuration the dataset was built with.
func (d *Dataset) Config() core.Config { return d.cfg }

// Series returns the full generated batch.
func (d *Dataset) Series() *core.SeriesBatch { return d.series }

// Inputs returns the input window of every series.
func (d *Dataset) Inputs() *core.SeriesBatch { return d.inputs }

// Targets returns the forecast window of every series.
func (d *Dataset) Targets() *core.SeriesBatch { return d.targets }

// TrainInputs returns the training partition of the input windows.
func (d *Dataset) TrainInputs() *core.SeriesBatch { return d.trainInputs }

// ValidationInputs returns the validation partition of the input windows.
func (d *Dataset) ValidationInputs() *core.SeriesBatch { return d.validationInputs }

// TestInputs returns the test partition of the input windows.
func (d *Dataset) TestInputs() *core.SeriesBatch { return d.testInputs }

// TrainTargets returns the training partition of the forecast windows.
func (d *Dataset) TrainTargets() *core.SeriesBatch { return d.trainTargets }

// ValidationTargets returns the validation partition of the forecast windows.
func (d *Dataset) ValidationTargets() *core.SeriesBatch { return d.validationTargets }

// TestTargets returns the test partition of the forecast windows.
func (d *Dataset) TestTargets() *core.SeriesBatch { return d.testTargets }

// SequenceTargets returns the step-aligned targets for sequence-to-sequence
// training, built once and cached.
func (d *Dataset) SequenceTargets() (*core.SeriesBatch, error) {
	if d.seqTargets == nil {
		seq, err := SequenceTargets(d.series, d.cfg.InputSteps(), d.cfg.Horizon)
		if err != nil {
			return nil, err
		}
		d.seqTargets = seq
	}
	return d.seqTargets, nil
}

// TrainSequenceTargets returns the training partition of the sequence targets.
func (d *Dataset) TrainSequenceTargets() (*core.SeriesBatch, error) {
	seq, err := d.SequenceTargets()
	if err != nil {
		return nil, err
	}
	return seq.SliceBatch(0, d.cfg.TrainingSize), nil
}

// ValidationSequenceTargets returns the validation partition of the sequence
// targets.
func (d *Dataset) ValidationSequenceTargets() (*core.SeriesBatch, error) {
	seq, err := d.SequenceTargets()
	if err != nil {
		return nil, err
	}
	from := d.cfg.TrainingSize
	return seq.SliceBatch(from, from+d.cfg.ValidationSize), nil
}

// SequenceTargets builds the per-step forecast targets used by the
// sequence-to-sequence strategies. For every input step t the target row
// holds the next horizon points flattened feature-major, so
//
//	target[b, t, (k-1)*features+f] = series[b, t+k, f]  for k in 1..horizon.
//
// The input steps plus the horizon must cover the series exactly.
func SequenceTargets(series *core.SeriesBatch, inputSteps, horizon int) (*core.SeriesBatch, error) {
	batch, steps, features := series.Dims()

	if inputSteps <= 0 || horizon <= 0 || inputSteps+horizon != steps {
		return nil, fmt.Errorf("%w: %d input steps + %d horizon over %d steps",
			core.ErrBadWindow, inputSteps, horizon, steps)
	}

	out := core.NewSeriesBatch(batch, inputSteps, horizon*features)
	for b := 0; b < batch; b++ {
		row := series.Row(b)
		outRow := out.Row(b)

		for t := 0; t < inputSteps; t++ {
			for k := 1; k <= horizon; k++ {
				src := (t + k) * features
				dst := t*horizon*features + (k-1)*features
				copy(outRow[dst:dst+features], row[src:src+features])
			}
		}
	}

	return out, nil
}
