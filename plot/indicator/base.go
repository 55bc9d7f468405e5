// Package indicator provides smoothing overlays derived from chart curves.
package indicator

import (
	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/plot"
)

// BaseIndicator provides common configuration for all indicators
type BaseIndicator struct {
	Period int
	Color  string
}

// CreateMetric creates a standard indicator metric
func CreateMetric(style, color string, values core.Series[float64], name ...string) plot.IndicatorMetric {
	metric := plot.IndicatorMetric{
		Style:  style,
		Color:  color,
		Values: values,
	}

	if len(name) > 0 {
		metric.Name = name[0]
	}

	return metric
}

// Validate checks if the series has enough points for the indicator period
func Validate(values core.Series[float64], period int) bool {
	return values.Length() >= period
}

// Trim drops the warmup prefix so overlays start at their first defined point
func Trim(values core.Series[float64], period int) core.Series[float64] {
	if period <= 0 || values.Length() <= period {
		return values
	}
	return values[period:]
}
