package plot

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// linePalette cycles through the colors assigned to curves that do not
// carry one of their own. The first entry belongs to the reference data.
var linePalette = []color.RGBA{
	{R: 60, G: 60, B: 60, A: 255},
	{R: 20, G: 80, B: 200, A: 255},
	{R: 200, G: 30, B: 30, A: 255},
	{R: 40, G: 140, B: 40, A: 255},
	{R: 210, G: 120, B: 20, A: 255},
	{R: 120, G: 40, B: 160, A: 255},
	{R: 0, G: 150, B: 160, A: 255},
	{R: 190, G: 50, B: 120, A: 255},
	{R: 110, G: 90, B: 30, A: 255},
}

// figure renders every registered curve into a single comparison plot.
func (c *Chart) figure() (*gplot.Plot, error) {
	curves := c.Curves()

	p := gplot.New()
	p.Title.Text = "forecast comparison"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	maxStep := 0
	for i, curve := range curves {
		if curve.Values.Length() == 0 {
			continue
		}
		if last := curve.Offset + curve.Values.Length() - 1; last > maxStep {
			maxStep = last
		}

		pts := make(plotter.XYs, curve.Values.Length())
		for j, v := range curve.Values {
			pts[j].X = float64(curve.Offset + j)
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to draw curve %q: %w", curve.Label, err)
		}
		line.Color = curveColor(curve, i)
		line.Width = vg.Points(1.2)
		if i == 0 {
			// the reference curve reads first
			line.Width = vg.Points(2)
		}
		p.Add(line)
		p.Legend.Add(curve.Label, line)
	}

	p.Legend.Top = true
	p.X.Tick.Marker = stepTicker{max: maxStep}
	return p, nil
}

// SavePNG writes the comparison figure to path, so a headless run still
// produces the artifact.
func (c *Chart) SavePNG(path string) error {
	p, err := c.figure()
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// WritePNG renders the comparison figure into w.
func (c *Chart) WritePNG(w io.Writer) error {
	p, err := c.figure()
	if err != nil {
		return err
	}

	writer, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return err
	}

	_, err = writer.WriteTo(w)
	return err
}

func curveColor(curve Curve, i int) color.Color {
	if rgba, err := parseHexColor(curve.Color); err == nil {
		return rgba
	}
	return linePalette[i%len(linePalette)]
}

// parseHexColor reads #rgb and #rrggbb notations.
func parseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	switch len(s) {
	case 7:
		_, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
		return c, err
	case 4:
		_, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 0x11
		c.G *= 0x11
		c.B *= 0x11
		return c, err
	default:
		return c, fmt.Errorf("invalid color %q", s)
	}
}

// stepTicker puts a tick on every forecast step, thinning the labels when
// the axis would get crowded.
type stepTicker struct {
	max int
}

func (t stepTicker) Ticks(min, max float64) []gplot.Tick {
	stride := 1
	if t.max >= 20 {
		stride = 5
	}

	var ticks []gplot.Tick
	for i := 0; i <= t.max; i++ {
		v := float64(i)
		if v < min || v > max {
			continue
		}

		tick := gplot.Tick{Value: v}
		if i%stride == 0 {
			tick.Label = strconv.Itoa(i)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}
