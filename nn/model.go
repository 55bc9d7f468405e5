package nn

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// DefaultBatchSize is used when FitConfig does not set one.
const DefaultBatchSize = 32

// Metric is a named per-sample score averaged over each epoch and, when a
// validation set is configured, over the validation set.
type Metric struct {
	Name string
	Fn   func(pred, target []float32) float64
}

// FitConfig controls a training run.
type FitConfig struct {
	Epochs    int
	BatchSize int // defaults to DefaultBatchSize

	// Optional validation set evaluated after every epoch.
	ValInputs  [][]float32
	ValTargets [][]float32

	Metrics   []Metric
	Callbacks []Callback

	// RNG shuffles the sample order between epochs when set.
	RNG *rand.Rand
}

// Sequential chains layers into a model trained with backpropagation.
// Models are not safe for concurrent use.
type Sequential struct {
	name   string
	layers []Layer

	loss     Loss
	opt      Optimizer
	compiled bool

	gradBuf []float32
}

// NewSequential builds a model from at least one layer.
func NewSequential(name string, layers ...Layer) *Sequential {
	if len(layers) == 0 {
		panic("nn: model without layers")
	}

	return &Sequential{name: name, layers: layers}
}

// Compile attaches the optimizer and loss required for training.
func (m *Sequential) Compile(opt Optimizer, loss Loss) {
	m.loss = loss
	m.opt = opt
	m.compiled = true
}

// Name returns the model name.
func (m *Sequential) Name() string { return m.name }

// Forward runs the input through every layer and returns a view of the last
// layer's output buffer, valid until the next call.
func (m *Sequential) Forward(input []float32) []float32 {
	out := input
	for _, layer := range m.layers {
		out = layer.Forward(out)
	}
	return out
}

// Predict is Forward under the name callers outside training read naturally.
func (m *Sequential) Predict(input []float32) []float32 {
	return m.Forward(input)
}

// PredictBatch runs every input through the model and returns owned copies
// of the outputs.
func (m *Sequential) PredictBatch(inputs [][]float32) [][]float32 {
	outputs := make([][]float32, len(inputs))
	for i, input := range inputs {
		out := m.Forward(input)
		outputs[i] = append([]float32(nil), out...)
	}
	return outputs
}

// Evaluate returns the mean loss over a labelled set.
func (m *Sequential) Evaluate(inputs, targets [][]float32) (float64, error) {
	if !m.compiled {
		return 0, ErrNotCompiled
	}
	if len(inputs) != len(targets) {
		return 0, fmt.Errorf("%w: %d inputs, %d targets", ErrSampleMismatch, len(inputs), len(targets))
	}
	if len(inputs) == 0 {
		return 0, ErrNoSamples
	}

	loss, _ := m.score(inputs, targets, nil)
	return loss, nil
}

// Fit trains the model with mini-batch gradient descent. Parameter gradients
// are accumulated per sample, averaged over the mini-batch and handed to the
// optimizer layer by layer. The context is checked between batches, so a
// cancelled training run returns the history recorded so far together with
// the context error.
func (m *Sequential) Fit(ctx context.Context, inputs, targets [][]float32, cfg FitConfig) (History, error) {
	history := History{}

	if !m.compiled {
		return history, ErrNotCompiled
	}
	if len(inputs) == 0 {
		return history, ErrNoSamples
	}
	if len(inputs) != len(targets) {
		return history, fmt.Errorf("%w: %d inputs, %d targets", ErrSampleMismatch, len(inputs), len(targets))
	}
	if len(cfg.ValInputs) != len(cfg.ValTargets) {
		return history, fmt.Errorf("%w: %d validation inputs, %d validation targets",
			ErrSampleMismatch, len(cfg.ValInputs), len(cfg.ValTargets))
	}
	if cfg.Epochs <= 0 {
		return history, fmt.Errorf("%w: %d", ErrBadEpochs, cfg.Epochs)
	}

	if in, want := len(inputs[0]), m.layers[0].InSize(); in != want {
		return history, fmt.Errorf("%w: sample width %d, model input %d", ErrSampleMismatch, in, want)
	}
	if out, want := len(targets[0]), m.layers[len(m.layers)-1].OutSize(); out != want {
		return history, fmt.Errorf("%w: target width %d, model output %d", ErrSampleMismatch, out, want)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	m.gradBuf = make([]float32, m.layers[len(m.layers)-1].OutSize())

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	for _, cb := range cfg.Callbacks {
		cb.OnTrainBegin()
	}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.RNG != nil {
			cfg.RNG.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		epochLoss := 0.0
		metricSums := make([]float64, len(cfg.Metrics))

		for start := 0; start < len(order); start += batchSize {
			if err := ctx.Err(); err != nil {
				return history, err
			}

			end := start + batchSize
			if end > len(order) {
				end = len(order)
			}
			batch := order[start:end]

			m.clearGradients()

			for _, idx := range batch {
				out := m.Forward(inputs[idx])

				epochLoss += m.loss.Forward(out, targets[idx])
				for mi, metric := range cfg.Metrics {
					metricSums[mi] += metric.Fn(out, targets[idx])
				}

				m.loss.Backward(out, targets[idx], m.gradBuf)
				m.backprop(m.gradBuf)
			}

			m.step(len(batch))
		}

		logs := map[string]float64{}

		history.record("loss", epochLoss/float64(len(order)))
		logs["loss"] = history.Final("loss")

		for mi, metric := range cfg.Metrics {
			value := metricSums[mi] / float64(len(order))
			history.record(metric.Name, value)
			logs[metric.Name] = value
		}

		if len(cfg.ValInputs) > 0 {
			valLoss, valMetrics := m.score(cfg.ValInputs, cfg.ValTargets, cfg.Metrics)

			history.record("val_loss", valLoss)
			logs["val_loss"] = valLoss

			for mi, metric := range cfg.Metrics {
				key := "val_" + metric.Name
				history.record(key, valMetrics[mi])
				logs[key] = valMetrics[mi]
			}
		}

		stop := false
		for _, cb := range cfg.Callbacks {
			cb.OnEpochEnd(epoch, logs)
			if s, ok := cb.(stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if stop {
			break
		}
	}

	for _, cb := range cfg.Callbacks {
		cb.OnTrainEnd()
	}

	return history, nil
}

// score returns the mean loss and mean metric values over a labelled set.
func (m *Sequential) score(inputs, targets [][]float32, metrics []Metric) (float64, []float64) {
	lossSum := 0.0
	metricSums := make([]float64, len(metrics))

	for i := range inputs {
		out := m.Forward(inputs[i])
		lossSum += m.loss.Forward(out, targets[i])
		for mi, metric := range metrics {
			metricSums[mi] += metric.Fn(out, targets[i])
		}
	}

	n := float64(len(inputs))
	for mi := range metricSums {
		metricSums[mi] /= n
	}
	return lossSum / n, metricSums
}

// backprop pushes a loss gradient backwards through every layer.
func (m *Sequential) backprop(grad []float32) {
	cur := grad
	for i := len(m.layers) - 1; i >= 0; i-- {
		cur = m.layers[i].Backward(cur)
	}
}

func (m *Sequential) clearGradients() {
	for _, layer := range m.layers {
		layer.ClearGradients()
	}
}

// step averages the accumulated gradients over the batch and applies one
// optimizer update per layer.
func (m *Sequential) step(batchSize int) {
	inv := 1 / float32(batchSize)

	for li, layer := range m.layers {
		grads := layer.Gradients()
		for i := range grads {
			grads[i] *= inv
		}
		m.opt.Step(li, layer.Params(), grads)
	}
}

// Summary renders a per-layer parameter table.
func (m *Sequential) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "model %q\n", m.name)

	total := 0
	for i, layer := range m.layers {
		count := len(layer.Params())
		total += count
		fmt.Fprintf(&sb, "  %2d %-24T in=%-7d out=%-7d params=%d\n",
			i, layer, layer.InSize(), layer.OutSize(), count)
	}

	fmt.Fprintf(&sb, "  total params: %d", total)
	return sb.String()
}
