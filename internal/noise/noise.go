// Package noise wraps opensimplex with fractal Brownian motion, which is
// what gives coastlines and biome fields their organic variation.
package noise

import (
	"github.com/ojrac/opensimplex-go"

	"islandforge/internal/rng"
)

// Params control the octave stack. Frequency scales the input coordinates
// of the first octave; lacunarity multiplies frequency per octave and gain
// multiplies amplitude per octave.
type Params struct {
	Octaves    int
	Frequency  float64
	Amplitude  float64
	Lacunarity float64
	Gain       float64
}

// DefaultParams is a moderate four-octave stack suitable for coastline
// perturbation at island scale.
var DefaultParams = Params{
	Octaves:    4,
	Frequency:  0.05,
	Amplitude:  1.0,
	Lacunarity: 2.0,
	Gain:       0.5,
}

// Field is an immutable FBM noise field. It is seeded from a cloned RNG so
// that sampling never perturbs the stream used by the rest of the pipeline.
type Field struct {
	os     opensimplex.Noise
	params Params
}

// NewField seeds the field by drawing once from a clone of r. The caller's
// stream is untouched.
func NewField(r *rng.RNG, p Params) *Field {
	if p.Octaves <= 0 {
		p.Octaves = 1
	}
	if p.Lacunarity == 0 {
		p.Lacunarity = 2.0
	}
	if p.Gain == 0 {
		p.Gain = 0.5
	}
	if p.Frequency == 0 {
		p.Frequency = 1.0
	}
	seed := r.Clone().Int64()
	return &Field{os: opensimplex.New(seed), params: p}
}

// Eval2 returns the FBM value at (x, y), normalized to [-1, 1].
func (f *Field) Eval2(x, y float64) float64 {
	freq := f.params.Frequency
	amp := f.params.Amplitude
	var sum, norm float64
	for o := 0; o < f.params.Octaves; o++ {
		sum += amp * f.os.Eval2(x*freq, y*freq)
		norm += amp
		freq *= f.params.Lacunarity
		amp *= f.params.Gain
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
