package nn

import (
	"fmt"
	"math"

	"github.com/forecastlab/forecastlab/core"
)

// Callback observes the training loop. logs holds the epoch's recorded
// values under the same keys as History.
type Callback interface {
	OnTrainBegin()
	OnEpochEnd(epoch int, logs map[string]float64)
	OnTrainEnd()
}

// stopper is implemented by callbacks that can end training early.
type stopper interface {
	ShouldStop() bool
}

// BaseCallback provides no-op implementations so callbacks only override
// what they need.
type BaseCallback struct{}

func (BaseCallback) OnTrainBegin()                      {}
func (BaseCallback) OnEpochEnd(int, map[string]float64) {}
func (BaseCallback) OnTrainEnd()                        {}

// EarlyStopping halts training after Patience epochs without the monitored
// value improving by more than Threshold. Monitor defaults to "loss".
type EarlyStopping struct {
	BaseCallback

	Patience  int
	Threshold float64
	Monitor   string

	best      float64
	badEpochs int
	stopped   bool
}

func (e *EarlyStopping) OnTrainBegin() {
	e.best = math.Inf(1)
	e.badEpochs = 0
	e.stopped = false
}

func (e *EarlyStopping) OnEpochEnd(_ int, logs map[string]float64) {
	monitor := e.Monitor
	if monitor == "" {
		monitor = "loss"
	}

	value, ok := logs[monitor]
	if !ok {
		return
	}

	if e.best-value > e.Threshold {
		e.best = value
		e.badEpochs = 0
		return
	}

	e.badEpochs++
	if e.badEpochs >= e.Patience {
		e.stopped = true
	}
}

// ShouldStop reports whether training should end after the current epoch.
func (e *EarlyStopping) ShouldStop() bool { return e.stopped }

// EpochLogger emits one debug line per epoch through the given logger.
type EpochLogger struct {
	BaseCallback

	log  core.Logger
	name string
}

func NewEpochLogger(log core.Logger, name string) *EpochLogger {
	return &EpochLogger{log: log, name: name}
}

func (l *EpochLogger) OnEpochEnd(epoch int, logs map[string]float64) {
	if l.log == nil {
		return
	}

	entry := l.log.WithField("model", l.name)
	if valLoss, ok := logs["val_loss"]; ok {
		entry = entry.WithField("val_loss", fmt.Sprintf("%.6f", valLoss))
	}

	entry.Debugf("epoch %d loss %.6f", epoch, logs["loss"])
}
