package island

import (
	"math"

	"islandforge/internal/rng"
)

// RegionSeed is one Voronoi site. Position is in grid coordinates and is
// only mutated by the relaxer.
type RegionSeed struct {
	ID   int
	Rule Rule
	X, Y float64
}

// Template geometry, in normalized island-local space [-1,1]:
// ALL seeds cluster in a disk in the south-west quadrant, UNIQUE seeds run
// along a diagonal chain from the north-west corner toward the south-east
// edge, PURE seeds sit on an arc in the north-east quadrant. Every base
// position gets independent jitter afterwards.
const (
	allClusterX      = -0.45
	allClusterY      = -0.45
	allClusterRadius = 0.35

	uniqueStartX = -0.7
	uniqueStartY = 0.7
	uniqueEndX   = 0.65
	uniqueEndY   = -0.55

	pureArcX      = 0.45
	pureArcY      = 0.45
	pureArcRadius = 0.4
	pureArcFrom   = -math.Pi / 4
	pureArcTo     = 3 * math.Pi / 4

	seedJitter = 0.06
)

// planSeeds lays out all region seeds. Order (and therefore region id
// numbering) is fixed: ALL, UNIQUE, PURE.
func planSeeds(cfg Config, r *rng.RNG) []RegionSeed {
	seeds := make([]RegionSeed, 0, cfg.Layout.AllCount+cfg.Layout.UniqueCount+cfg.Layout.PureCount)
	id := 0

	for i := 0; i < cfg.Layout.AllCount; i++ {
		// Uniform-area disk sampling: sqrt on the radial draw.
		angle := r.Next() * 2 * math.Pi
		dist := math.Sqrt(r.Next()) * allClusterRadius
		nx := allClusterX + math.Cos(angle)*dist
		ny := allClusterY + math.Sin(angle)*dist
		seeds = append(seeds, makeSeed(cfg, r, id, RuleAll, nx, ny))
		id++
	}

	for i := 0; i < cfg.Layout.UniqueCount; i++ {
		t := 0.0
		if cfg.Layout.UniqueCount > 1 {
			t = float64(i) / float64(cfg.Layout.UniqueCount-1)
		}
		nx := uniqueStartX + (uniqueEndX-uniqueStartX)*t
		ny := uniqueStartY + (uniqueEndY-uniqueStartY)*t
		seeds = append(seeds, makeSeed(cfg, r, id, RuleUnique, nx, ny))
		id++
	}

	for i := 0; i < cfg.Layout.PureCount; i++ {
		t := 0.0
		if cfg.Layout.PureCount > 1 {
			t = float64(i) / float64(cfg.Layout.PureCount-1)
		}
		angle := pureArcFrom + (pureArcTo-pureArcFrom)*t
		nx := pureArcX + math.Cos(angle)*pureArcRadius*0.5
		ny := pureArcY + math.Sin(angle)*pureArcRadius*0.5
		seeds = append(seeds, makeSeed(cfg, r, id, RulePure, nx, ny))
		id++
	}

	return seeds
}

// makeSeed jitters the normalized position and applies the single linear
// mapping from island-local space to grid coordinates. Normalized ±1 maps
// to half the mask radius so seeds land well inside the coastline.
func makeSeed(cfg Config, r *rng.RNG, id int, rule Rule, nx, ny float64) RegionSeed {
	nx += (r.Next()*2 - 1) * seedJitter
	ny += (r.Next()*2 - 1) * seedJitter

	cx := float64(cfg.Grid.Width) / 2
	cy := float64(cfg.Grid.Height) / 2
	scale := cfg.Mask.Radius / 2

	return RegionSeed{
		ID:   id,
		Rule: rule,
		X:    clampF(cx+nx*scale, 0, float64(cfg.Grid.Width-1)),
		Y:    clampF(cy+ny*scale, 0, float64(cfg.Grid.Height-1)),
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
