// Package plot serves the benchmark's forecast curves as an interactive
// chart page and renders them to PNG.
package plot

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/StudioSol/set"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/forecastlab/forecastlab/core"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Curve is a named series drawn on the chart. Offset shifts the curve right
// along the step axis so warmup-trimmed overlays stay aligned with the curve
// they are derived from.
type Curve struct {
	Label  string               `json:"label"`
	Offset int                  `json:"offset"`
	Color  string               `json:"color,omitempty"`
	Values core.Series[float64] `json:"values"`
}

// IndicatorMetric is a single drawable series produced by an indicator.
type IndicatorMetric struct {
	Name   string
	Color  string
	Style  string
	Values core.Series[float64]
}

// Indicator derives overlay series from the chart's reference curve.
type Indicator interface {
	Name() string
	Warmup() int
	Load(values core.Series[float64])
	Metrics() []IndicatorMetric
}

// Chart handles the visualization of forecast data
type Chart struct {
	sync.Mutex
	port          int
	debug         bool
	horizon       int
	labels        *set.LinkedHashSetString
	curves        map[string]Curve
	indicators    []Indicator
	scriptContent string
	indexHTML     *template.Template
	log           core.Logger
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(chart *Chart) {
		chart.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(chart *Chart) {
		chart.debug = true
	}
}

// WithHorizon sets the number of forecast steps shown on the x axis
func WithHorizon(steps int) Option {
	return func(chart *Chart) {
		chart.horizon = steps
	}
}

// WithIndicators adds overlay indicators derived from the reference curve
func WithIndicators(indicators ...Indicator) Option {
	return func(chart *Chart) {
		chart.indicators = indicators
	}
}

// NewChart creates a new chart instance with the provided options
func NewChart(log core.Logger, options ...Option) (*Chart, error) {
	chart := &Chart{
		port:   8080,
		log:    log,
		labels: set.NewLinkedHashSetString(),
		curves: make(map[string]Curve),
	}

	// Apply all options
	for _, option := range options {
		option(chart)
	}

	// Parse chart HTML template
	var err error
	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	// Read and transpile chart JavaScript
	chartJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpileChartJS := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})

	if len(transpileChartJS.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpileChartJS.Errors)
	}

	chart.scriptContent = string(transpileChartJS.Code)

	return chart, nil
}

// GetPort returns the configured port
func (c *Chart) GetPort() int {
	return c.port
}

// AddCurve registers a named curve. Labels must be unique; the first
// registered curve is the reference data indicators derive from.
func (c *Chart) AddCurve(label string, values core.Series[float64]) error {
	c.Lock()
	defer c.Unlock()

	if c.labels.InArray(label) {
		return fmt.Errorf("%w: %q", core.ErrDuplicateCurve, label)
	}

	c.labels.Add(label)
	c.curves[label] = Curve{Label: label, Values: values}
	return nil
}

// Curves returns the registered curves in insertion order, followed by the
// overlay curves the indicators derive from the reference curve.
func (c *Chart) Curves() []Curve {
	c.Lock()
	defer c.Unlock()
	return c.allCurves()
}

func (c *Chart) allCurves() []Curve {
	curves := make([]Curve, 0, len(c.curves))
	for label := range c.labels.Iter() {
		curves = append(curves, c.curves[label])
	}
	return append(curves, c.indicatorCurves()...)
}

func (c *Chart) indicatorCurves() []Curve {
	if len(c.indicators) == 0 || len(c.curves) == 0 {
		return nil
	}

	var ref Curve
	for label := range c.labels.Iter() {
		ref = c.curves[label]
		break
	}

	var curves []Curve
	for _, indicator := range c.indicators {
		indicator.Load(ref.Values)
		for _, metric := range indicator.Metrics() {
			label := metric.Name
			if label == "" {
				label = indicator.Name()
			}

			curves = append(curves, Curve{
				Label:  label,
				Offset: ref.Offset + indicator.Warmup(),
				Color:  metric.Color,
				Values: metric.Values,
			})
		}
	}

	return curves
}

// RegisterHandlers registers all necessary handlers on the HTTP server
func (c *Chart) RegisterHandlers(server HTTPServer) {
	// Register static file handler
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	// The transpiled script shadows the embedded source file
	server.RegisterHandler("/assets/js/main.js", c.handleScript)

	// Register API handlers
	server.RegisterHandler("/health", c.handleHealth)
	server.RegisterHandler("/data", c.handleData)
	server.RegisterHandler("/chart.png", c.handleChartPNG)
	server.RegisterHandler("/", c.handleIndex)
}
