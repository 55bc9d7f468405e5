package indicator

import (
	"fmt"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/plot"

	"github.com/markcheno/go-talib"
)

func BollingerBands(period int, stdDeviation float64, upDnBandColor, midBandColor string) plot.Indicator {
	return &bollingerBands{
		Period:        period,
		StdDeviation:  stdDeviation,
		UpDnBandColor: upDnBandColor,
		MidBandColor:  midBandColor,
	}
}

type bollingerBands struct {
	Period        int
	StdDeviation  float64
	UpDnBandColor string
	MidBandColor  string
	UpperBand     core.Series[float64]
	MiddleBand    core.Series[float64]
	LowerBand     core.Series[float64]
}

func (bb bollingerBands) Warmup() int {
	return bb.Period
}

func (bb bollingerBands) Name() string {
	return fmt.Sprintf("BB(%d, %.2f)", bb.Period, bb.StdDeviation)
}

func (bb *bollingerBands) Load(values core.Series[float64]) {
	if !Validate(values, bb.Period) {
		return
	}

	upper, mid, lower := talib.BBands(values, bb.Period, bb.StdDeviation, bb.StdDeviation, talib.EMA)
	bb.UpperBand = Trim(upper, bb.Period)
	bb.MiddleBand = Trim(mid, bb.Period)
	bb.LowerBand = Trim(lower, bb.Period)
}

func (bb bollingerBands) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		CreateMetric("line", bb.UpDnBandColor, bb.UpperBand, fmt.Sprintf("BB(%d) upper", bb.Period)),
		CreateMetric("line", bb.MidBandColor, bb.MiddleBand, fmt.Sprintf("BB(%d) mid", bb.Period)),
		CreateMetric("line", bb.UpDnBandColor, bb.LowerBand, fmt.Sprintf("BB(%d) lower", bb.Period)),
	}
}
