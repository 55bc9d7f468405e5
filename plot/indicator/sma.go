package indicator

import (
	"fmt"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/plot"

	"github.com/markcheno/go-talib"
)

// SMA creates a new Simple Moving Average overlay
// period: the number of steps averaged per point
// color: the color to use for the overlay line
func SMA(period int, color string) plot.Indicator {
	return &sma{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type sma struct {
	BaseIndicator
	Values core.Series[float64]
}

// Warmup returns the number of steps consumed before the first value
func (s sma) Warmup() int {
	return s.Period
}

// Name returns the formatted name of the indicator
func (s sma) Name() string {
	return fmt.Sprintf("SMA(%d)", s.Period)
}

// Load calculates the indicator values from the reference curve
func (s *sma) Load(values core.Series[float64]) {
	if !Validate(values, s.Period) {
		return
	}

	s.Values = Trim(talib.Sma(values, s.Period), s.Period)
}

// Metrics returns the visual representation of the indicator
func (s sma) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		CreateMetric("line", s.Color, s.Values, s.Name()),
	}
}
