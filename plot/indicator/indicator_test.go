package indicator

import (
	"testing"

	"github.com/forecastlab/forecastlab/core"
	"github.com/stretchr/testify/require"
)

func TestSMAOverlay(t *testing.T) {
	overlay := SMA(3, "#1450c8")
	require.Equal(t, "SMA(3)", overlay.Name())
	require.Equal(t, 3, overlay.Warmup())

	overlay.Load(core.Series[float64]{1, 2, 3, 4, 5, 6})

	metrics := overlay.Metrics()
	require.Len(t, metrics, 1)
	require.Equal(t, "SMA(3)", metrics[0].Name)
	require.Equal(t, "#1450c8", metrics[0].Color)
	require.InDeltaSlice(t, []float64{3, 4, 5}, metrics[0].Values, 1e-9)
}

func TestEMAOverlayOnConstantSeries(t *testing.T) {
	overlay := EMA(3, "#c81e1e")
	require.Equal(t, "EMA(3)", overlay.Name())

	overlay.Load(core.Series[float64]{2, 2, 2, 2, 2})

	metrics := overlay.Metrics()
	require.Len(t, metrics, 1)
	require.InDeltaSlice(t, []float64{2, 2}, metrics[0].Values, 1e-9)
}

func TestOverlaySkipsShortSeries(t *testing.T) {
	overlay := SMA(5, "#1450c8")
	overlay.Load(core.Series[float64]{1, 2})

	metrics := overlay.Metrics()
	require.Len(t, metrics, 1)
	require.Empty(t, metrics[0].Values)
}

func TestBollingerBandsOnConstantSeries(t *testing.T) {
	overlay := BollingerBands(3, 2, "#7828a0", "#3c3c3c")
	require.Equal(t, "BB(3, 2.00)", overlay.Name())
	require.Equal(t, 3, overlay.Warmup())

	overlay.Load(core.Series[float64]{2, 2, 2, 2, 2})

	metrics := overlay.Metrics()
	require.Len(t, metrics, 3)
	require.Equal(t, "BB(3) upper", metrics[0].Name)
	require.Equal(t, "BB(3) mid", metrics[1].Name)
	require.Equal(t, "BB(3) lower", metrics[2].Name)
	for _, metric := range metrics {
		require.InDeltaSlice(t, []float64{2, 2}, metric.Values, 1e-9)
	}
}

func TestTrimKeepsShortAndZeroPeriodSeries(t *testing.T) {
	values := core.Series[float64]{1, 2, 3}

	require.Equal(t, values, Trim(values, 0))
	require.Equal(t, values, Trim(values, 5))
	require.Equal(t, core.Series[float64]{3}, Trim(values, 2))
}
