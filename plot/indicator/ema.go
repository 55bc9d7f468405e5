package indicator

import (
	"fmt"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/plot"

	"github.com/markcheno/go-talib"
)

// EMA creates a new Exponential Moving Average overlay
// period: the number of steps averaged per point
// color: the color to use for the overlay line
func EMA(period int, color string) plot.Indicator {
	return &ema{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type ema struct {
	BaseIndicator
	Values core.Series[float64]
}

// Warmup returns the number of steps consumed before the first value
func (e ema) Warmup() int { return e.Period }

// Name returns the formatted name of the indicator
func (e ema) Name() string { return fmt.Sprintf("EMA(%d)", e.Period) }

// Metrics returns the visual representation of the indicator
func (e ema) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		CreateMetric("line", e.Color, e.Values, e.Name()),
	}
}

// Load calculates the indicator values from the reference curve
func (e *ema) Load(values core.Series[float64]) {
	if !Validate(values, e.Period) {
		return
	}

	e.Values = Trim(talib.Ema(values, e.Period), e.Period)
}
