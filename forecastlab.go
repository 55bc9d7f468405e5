// Package forecastlab benchmarks forecasting strategies against each other
// on synthetic multi-feature time series, from a naive baseline up to
// recurrent and convolutional sequence models.
package forecastlab

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/dataset"
	"github.com/forecastlab/forecastlab/forecast"
	"github.com/forecastlab/forecastlab/metric"
	"github.com/forecastlab/forecastlab/nn"
	"github.com/forecastlab/forecastlab/plot"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

// StrategyResult captures one strategy's outcome for the run summary.
type StrategyResult struct {
	Kind          forecast.Kind
	Name          string
	Loss          float64
	History       nn.History
	SquaredErrors []float64
	Elapsed       time.Duration
}

// Lab wires the dataset, the strategies and the chart into one benchmark run.
type Lab struct {
	cfg          core.Config
	log          core.Logger
	chart        *plot.Chart
	kinds        []forecast.Kind
	trainTimeout time.Duration

	data    *dataset.Dataset
	results []StrategyResult
}

// Option is a functional option for configuring a Lab instance
type Option func(*Lab)

// WithLogger overrides the environment-configured default logger
func WithLogger(log core.Logger) Option {
	return func(lab *Lab) {
		lab.log = log
	}
}

// WithChart attaches a chart that collects the target and forecast curves
func WithChart(chart *plot.Chart) Option {
	return func(lab *Lab) {
		lab.chart = chart
	}
}

// WithStrategies restricts the run to the given strategy kinds
func WithStrategies(kinds ...forecast.Kind) Option {
	return func(lab *Lab) {
		lab.kinds = kinds
	}
}

// WithTrainTimeout caps each strategy's training time; zero disables the cap
func WithTrainTimeout(timeout time.Duration) Option {
	return func(lab *Lab) {
		lab.trainTimeout = timeout
	}
}

// NewLab creates a benchmark run over the given configuration
func NewLab(cfg core.Config, options ...Option) (*Lab, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lab := &Lab{
		cfg:          cfg,
		log:          DefaultLog,
		kinds:        forecast.All(),
		trainTimeout: defaultTrainTimeout,
	}
	if cfg.TrainTimeout > 0 {
		lab.trainTimeout = cfg.TrainTimeout
	}

	// Apply all options
	for _, option := range options {
		option(lab)
	}

	return lab, nil
}

// Run generates the dataset, then trains and evaluates every configured
// strategy in order, printing one loss line per strategy.
func (l *Lab) Run(ctx context.Context) error {
	l.log.WithFields(map[string]any{
		"batch":    l.cfg.BatchSize,
		"steps":    l.cfg.Steps,
		"features": l.cfg.Features,
	}).Info("Generating series")

	series := dataset.NewGenerator(l.cfg.Seed, l.cfg.Features).Generate(l.cfg.BatchSize, l.cfg.Steps)
	data, err := dataset.New(l.cfg, series)
	if err != nil {
		return err
	}
	l.data = data

	// The first chart curve is the data every forecast is judged against.
	if l.chart != nil {
		if err := l.chart.AddCurve("target data", data.ValidationTargets().Curve(0, 0)); err != nil {
			return err
		}
	}

	l.results = l.results[:0]
	progressBar := progressbar.Default(int64(len(l.kinds)))
	for _, kind := range l.kinds {
		strategy, err := forecast.New(kind, l.cfg, l.log)
		if err != nil {
			return err
		}

		result, elapsed, err := l.runStrategy(ctx, strategy)
		if err != nil {
			return fmt.Errorf("%s: %w", strategy.Name(), err)
		}

		fmt.Printf("%s loss: %v\n", strategy.Name(), result.Loss)

		squaredErrors, err := metric.SquaredErrors(result.Prediction, data.ValidationTargets())
		if err != nil {
			return err
		}

		l.results = append(l.results, StrategyResult{
			Kind:          kind,
			Name:          strategy.Name(),
			Loss:          result.Loss,
			History:       result.History,
			SquaredErrors: squaredErrors,
			Elapsed:       elapsed,
		})

		if l.chart != nil {
			if err := l.chart.AddCurve(strategy.Label(), result.Prediction.Curve(0, 0)); err != nil {
				return err
			}
		}

		if err := progressBar.Add(1); err != nil {
			l.log.Warnf("update progressbar fail: %v", err)
		}
	}

	return nil
}

// runStrategy forecasts under the configured training deadline.
func (l *Lab) runStrategy(ctx context.Context, strategy forecast.Strategy) (*forecast.Result, time.Duration, error) {
	if l.trainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.trainTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := strategy.Forecast(ctx, l.data)
	return result, time.Since(start), err
}

// Results returns the per-strategy outcomes of the last Run.
func (l *Lab) Results() []StrategyResult {
	return l.results
}

// Summary displays a results table, the error distribution of the best
// strategy and bootstrap confidence intervals per strategy in stdout
func (l *Lab) Summary() {
	if len(l.results) == 0 {
		fmt.Println("no results to summarize")
		return
	}

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Strategy", "Epochs", "Train Loss", "Val Loss", "Last-Step MSE", "Time"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	best := l.results[0]
	for _, result := range l.results {
		if result.Loss < best.Loss {
			best = result
		}

		table.Append([]string{
			result.Name,
			strconv.Itoa(result.History.Epochs()),
			fmtLoss(result.History.Final("loss")),
			fmtLoss(result.History.Final("val_loss")),
			fmtLoss(result.History.Final("val_last_time_step_mse")),
			result.Elapsed.Round(time.Millisecond).String(),
		})
	}
	table.Render()

	fmt.Println(buffer.String())

	fmt.Printf("------ SQUARED ERRORS: %s -------\n", best.Name)
	hist := histogram.Hist(15, best.SquaredErrors)
	histogram.Fprint(os.Stdout, hist, histogram.Linear(10))
	fmt.Println()

	fmt.Println("------ CONFIDENCE INTERVAL (95%) -------")
	for _, result := range l.results {
		interval := metric.Bootstrap(result.SquaredErrors, metric.Mean, 10000, 0.95)
		fmt.Printf("%-36s MSE: %.5f (%.5f ~ %.5f)\n",
			result.Name, interval.Mean, interval.Lower, interval.Upper)
	}

	fmt.Println()
}

// fmtLoss renders optional history values, using a dash when absent.
func fmtLoss(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.5f", v)
}
