package plot

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/forecastlab/forecastlab/core"
	logadapter "github.com/forecastlab/forecastlab/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testChart(t *testing.T, options ...Option) *Chart {
	t.Helper()

	nop := zerolog.Nop()
	chart, err := NewChart(logadapter.NewAdapter(&nop), options...)
	require.NoError(t, err)
	return chart
}

// stubIndicator shifts the reference curve by a fixed warmup so overlay
// plumbing can be checked without talib.
type stubIndicator struct {
	loaded core.Series[float64]
}

func (s *stubIndicator) Name() string { return "stub(2)" }
func (s *stubIndicator) Warmup() int  { return 2 }

func (s *stubIndicator) Load(values core.Series[float64]) {
	s.loaded = values[2:]
}

func (s *stubIndicator) Metrics() []IndicatorMetric {
	return []IndicatorMetric{{Name: "stub(2)", Color: "#ff0000", Style: "line", Values: s.loaded}}
}

func TestAddCurveRejectsDuplicateLabels(t *testing.T) {
	chart := testChart(t)

	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1, 2, 3}))
	err := chart.AddCurve("target data", core.Series[float64]{4, 5, 6})
	require.ErrorIs(t, err, core.ErrDuplicateCurve)
}

func TestCurvesKeepInsertionOrder(t *testing.T) {
	chart := testChart(t)

	labels := []string{"target data", "naive prediction", "linear prediction"}
	for i, label := range labels {
		require.NoError(t, chart.AddCurve(label, core.Series[float64]{float64(i)}))
	}

	curves := chart.Curves()
	require.Len(t, curves, len(labels))
	for i, curve := range curves {
		require.Equal(t, labels[i], curve.Label)
	}
}

func TestIndicatorOverlaysFollowReferenceCurve(t *testing.T) {
	stub := &stubIndicator{}
	chart := testChart(t, WithIndicators(stub))

	ref := core.Series[float64]{1, 2, 3, 4, 5}
	require.NoError(t, chart.AddCurve("target data", ref))
	require.NoError(t, chart.AddCurve("naive prediction", core.Series[float64]{5, 5, 5, 5, 5}))

	curves := chart.Curves()
	require.Len(t, curves, 3)

	overlay := curves[2]
	require.Equal(t, "stub(2)", overlay.Label)
	require.Equal(t, 2, overlay.Offset)
	require.Equal(t, "#ff0000", overlay.Color)
	require.Equal(t, core.Series[float64]{3, 4, 5}, overlay.Values)
}

func TestHealthReportsReadiness(t *testing.T) {
	chart := testChart(t)

	rec := httptest.NewRecorder()
	chart.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1}))

	rec = httptest.NewRecorder()
	chart.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDataEndpointServesCurves(t *testing.T) {
	chart := testChart(t, WithHorizon(3))
	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1, 2, 3}))
	require.NoError(t, chart.AddCurve("vector prediction", core.Series[float64]{1.5, 2.5, 3.5}))

	rec := httptest.NewRecorder()
	chart.handleData(rec, httptest.NewRequest(http.MethodGet, "/data", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Horizon int     `json:"horizon"`
		Curves  []Curve `json:"curves"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 3, payload.Horizon)
	require.Len(t, payload.Curves, 2)
	require.Equal(t, "target data", payload.Curves[0].Label)
	require.Equal(t, core.Series[float64]{1.5, 2.5, 3.5}, payload.Curves[1].Values)
}

func TestRegisteredRoutesServeChartPage(t *testing.T) {
	chart := testChart(t)
	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1, 2}))

	server := NewStandardHTTPServer()
	chart.RegisterHandlers(server)

	ts := httptest.NewServer(server.mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	page, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(page), "<canvas")

	res, err = http.Get(ts.URL + "/assets/js/main.js")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/javascript", res.Header.Get("Content-Type"))

	script, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NotEmpty(t, script)
}

func TestSavePNGWritesFigure(t *testing.T) {
	chart := testChart(t)
	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1, 2, 3, 2, 1}))
	require.NoError(t, chart.AddCurve("naive prediction", core.Series[float64]{1, 1, 1, 1, 1}))

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, chart.SavePNG(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestChartPNGEndpoint(t *testing.T) {
	chart := testChart(t)
	require.NoError(t, chart.AddCurve("target data", core.Series[float64]{1, 2, 3}))

	rec := httptest.NewRecorder()
	chart.handleChartPNG(rec, httptest.NewRequest(http.MethodGet, "/chart.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Body.Bytes())
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#ff8000")
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), c.R)
	require.Equal(t, uint8(0x80), c.G)
	require.Equal(t, uint8(0x00), c.B)

	c, err = parseHexColor("#f80")
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), c.R)
	require.Equal(t, uint8(0x88), c.G)

	_, err = parseHexColor("")
	require.Error(t, err)
}
