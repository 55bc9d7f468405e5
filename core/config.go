package core

import (
	"fmt"
	"time"
)

// Config holds the dataset geometry and training hyperparameters shared by
// every forecasting strategy.
//
// A batch row is a generated series of Steps points with Features values per
// point. The first InputSteps points of a row are the model input and the
// last Horizon points are the forecast target. Rows are partitioned into
// training, validation and test sets in that order.
type Config struct {
	Steps     int // points per generated series
	BatchSize int // number of generated series
	Horizon   int // forecast length in points
	Features  int // values per point

	TrainingSize   int
	ValidationSize int
	TestSize       int

	Epochs int
	Units  int // hidden size of the recurrent layers

	LearningRate    float64 // linear, iterative and vector strategies
	SeqLearningRate float64 // sequence-to-sequence and convolutional strategies

	Seed int64

	// TrainTimeout bounds the wall time of a single strategy run.
	// Zero disables the limit.
	TrainTimeout time.Duration
}

// DefaultConfig returns the canonical benchmark configuration.
func DefaultConfig() Config {
	return Config{
		Steps:           200,
		BatchSize:       1350,
		Horizon:         50,
		Features:        2,
		TrainingSize:    900,
		ValidationSize:  300,
		TestSize:        150,
		Epochs:          20,
		Units:           20,
		LearningRate:    0.001,
		SeqLearningRate: 0.01,
		Seed:            42,
	}
}

// InputSteps returns the number of points fed to a model per series.
func (c Config) InputSteps() int {
	return c.Steps - c.Horizon
}

// Validate checks the configuration invariants before any data is generated.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size %d", ErrEmptyBatch, c.BatchSize)
	}

	if c.Steps <= 0 || c.Horizon <= 0 {
		return fmt.Errorf("%w: steps %d, horizon %d", ErrBadWindow, c.Steps, c.Horizon)
	}

	// At least one input step must remain ahead of the forecast window
	if c.Horizon >= c.Steps {
		return fmt.Errorf("%w: horizon %d leaves no input steps out of %d", ErrBadWindow, c.Horizon, c.Steps)
	}

	if c.Features <= 0 {
		return fmt.Errorf("%w: features %d", ErrShapeMismatch, c.Features)
	}

	if c.TrainingSize <= 0 || c.ValidationSize <= 0 || c.TestSize < 0 {
		return fmt.Errorf("%w: training %d, validation %d, test %d",
			ErrBadSplit, c.TrainingSize, c.ValidationSize, c.TestSize)
	}

	if sum := c.TrainingSize + c.ValidationSize + c.TestSize; sum != c.BatchSize {
		return fmt.Errorf("%w: %d+%d+%d = %d, batch size %d",
			ErrBadSplit, c.TrainingSize, c.ValidationSize, c.TestSize, sum, c.BatchSize)
	}

	if c.Epochs <= 0 {
		return fmt.Errorf("invalid epochs: %d", c.Epochs)
	}

	if c.Units <= 0 {
		return fmt.Errorf("invalid hidden units: %d", c.Units)
	}

	if c.LearningRate <= 0 || c.SeqLearningRate <= 0 {
		return fmt.Errorf("invalid learning rates: %v, %v", c.LearningRate, c.SeqLearningRate)
	}

	return nil
}
