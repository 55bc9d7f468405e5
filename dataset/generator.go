// Package dataset generates the synthetic series benchmark data and derives
// the input, target and sequence-target windows the forecasting strategies
// train on.
package dataset

import (
	"math"
	"math/rand"

	"github.com/forecastlab/forecastlab/core"
)

// Generator produces batches of synthetic multivariate series. Every series
// is the sum of two sine waves with randomly drawn frequency and phase plus
// uniform noise, repeated across all features. A generator with the same
// seed always produces the same batch.
type Generator struct {
	features int
	rng      *rand.Rand
}

// NewGenerator returns a generator seeded for reproducible batches.
func NewGenerator(seed int64, features int) *Generator {
	return &Generator{
		features: features,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a batch of series, each steps points long over the
// time interval [0, 1].
func (g *Generator) Generate(batch, steps int) *core.SeriesBatch {
	series := core.NewSeriesBatch(batch, steps, g.features)

	scale := 0.0
	if steps > 1 {
		scale = 1 / float64(steps-1)
	}

	for b := 0; b < batch; b++ {
		freq1 := g.rng.Float64()
		freq2 := g.rng.Float64()
		offset1 := g.rng.Float64()
		offset2 := g.rng.Float64()

		for t := 0; t < steps; t++ {
			tm := float64(t) * scale

			value := 0.5 * math.Sin((tm-offset1)*(freq1*10+10))
			value += 0.2 * math.Sin((tm-offset2)*(freq2*20+20))
			value += 0.1 * (g.rng.Float64() - 0.5)

			for f := 0; f < g.features; f++ {
				series.Set(b, t, f, float32(value))
			}
		}
	}

	return series
}
