package island

import (
	"context"
	"math"

	"islandforge/internal/noise"
	"islandforge/internal/rng"
)

// Mask is the continuous landness field over the grid. Values are in [0,1];
// a tile is land when its value exceeds 0.5. Immutable after construction.
type Mask struct {
	W, H int
	v    []float64
}

func (m *Mask) At(x, y int) float64 {
	return m.v[y*m.W+x]
}

func (m *Mask) IsLand(x, y int) bool {
	return m.v[y*m.W+x] > 0.5
}

// buildMask combines a radial falloff with FBM perturbation and a
// smoothstep shoreline. It yields between scan lines via ctx.
func buildMask(ctx context.Context, cfg Config, r *rng.RNG) (*Mask, error) {
	w, h := cfg.Grid.Width, cfg.Grid.Height
	m := &Mask{W: w, H: h, v: make([]float64, w*h)}

	field := noise.NewField(r, noise.Params{
		Octaves:    cfg.Mask.Octaves,
		Frequency:  cfg.Mask.NoiseFrequency,
		Amplitude:  1.0,
		Lacunarity: 2.0,
		Gain:       0.5,
	})

	cx := float64(w) / 2
	cy := float64(h) / 2
	soft := cfg.Mask.ShoreSoftness
	lo, hi := 0.5-soft/2, 0.5+soft/2

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			falloff := 1 - math.Sqrt(dx*dx+dy*dy)/cfg.Mask.Radius
			if falloff <= 0 {
				continue
			}
			v := falloff - cfg.Mask.NoiseAmplitude*field.Eval2(float64(x), float64(y))
			m.v[y*w+x] = smoothstep(lo, hi, v)
		}
	}
	return m, nil
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
