package archipelago

import (
	"fmt"
	"math"
	"sort"

	"islandforge/internal/noise"
	"islandforge/internal/rng"
)

// influenceFactor extends an island's footprint beyond its radius for
// height blending and spatial indexing.
const influenceFactor = 1.5

// IslandSpec is one placed landmass. Immutable after placement except for
// Chunks, which is computed once during indexing.
type IslandSpec struct {
	ID         int
	CenterX    float64
	CenterY    float64
	Radius     float64
	PeakHeight float64
	Biome      int // index into Config.Biomes
	SubBiomes  []string
	// Elevation thresholds as fractions of the radius: inside Core the
	// primary biome holds, between Core and Mid the first sub-biome bands
	// in, beyond Mid the shore band.
	CoreFrac float64
	MidFrac  float64
	// NoiseLabel derives this island's private noise streams.
	NoiseLabel string
	// Chunks is the set of chunk keys this island can influence.
	Chunks []ChunkKey
}

func (s *IslandSpec) footprint() float64 {
	return s.Radius * influenceFactor
}

func (s *IslandSpec) distTo(x, y float64) float64 {
	dx := x - s.CenterX
	dy := y - s.CenterY
	return math.Sqrt(dx*dx + dy*dy)
}

// placeIslands samples candidate centers and keeps, per island, the
// candidate maximizing the minimum distance to everything already placed.
// Candidates below the spacing floor are rejected; when no candidate
// survives, the island is simply not added (best-effort packing).
func placeIslands(cfg Config, r *rng.RNG, biomeField *noise.Field) []*IslandSpec {
	var placed []*IslandSpec
	w, h := cfg.worldWidth(), cfg.worldHeight()

	for i := 0; i < cfg.IslandCount; i++ {
		radius := cfg.RadiusMin + r.Next()*(cfg.RadiusMax-cfg.RadiusMin)

		bestX, bestY := 0.0, 0.0
		bestScore := -1.0
		for a := 0; a < cfg.PlacementAttempts; a++ {
			// Keep the whole footprint inside the world.
			fp := radius * influenceFactor
			cx := fp + r.Next()*(w-2*fp)
			cy := fp + r.Next()*(h-2*fp)

			score := math.Inf(1)
			for _, p := range placed {
				if d := p.distTo(cx, cy); d < score {
					score = d
				}
			}
			if score > bestScore {
				bestX, bestY, bestScore = cx, cy, score
			}
		}
		if len(placed) > 0 && bestScore < cfg.MinIslandSpacing {
			continue
		}

		// Spatially-coherent biome sampling: nearby islands land in the
		// same noise band and therefore tend toward similar biomes.
		bn := biomeField.Eval2(bestX, bestY) // [-1,1]
		biome := int(clamp01((bn+1)/2) * float64(len(cfg.Biomes)))
		if biome >= len(cfg.Biomes) {
			biome = len(cfg.Biomes) - 1
		}
		def := cfg.Biomes[biome]

		spec := &IslandSpec{
			ID:         len(placed),
			CenterX:    bestX,
			CenterY:    bestY,
			Radius:     radius,
			PeakHeight: radius * 0.25 * def.HeightMult * (0.8 + 0.4*r.Next()),
			Biome:      biome,
			SubBiomes:  append([]string(nil), def.SubBiomes...),
			CoreFrac:   0.35 + 0.1*r.Next(),
			MidFrac:    0.7 + 0.1*r.Next(),
			NoiseLabel: fmt.Sprintf("island_%d", len(placed)),
		}
		placed = append(placed, spec)
	}
	return placed
}

// computeInfluencedChunks fills spec.Chunks with every chunk key whose area
// intersects the island footprint. Computed once; sorted for deterministic
// streaming order.
func computeInfluencedChunks(cfg Config, spec *IslandSpec) {
	fp := spec.footprint()
	size := float64(cfg.ChunkSize)
	minCX := int(math.Floor((spec.CenterX - fp) / size))
	maxCX := int(math.Floor((spec.CenterX + fp) / size))
	minCY := int(math.Floor((spec.CenterY - fp) / size))
	maxCY := int(math.Floor((spec.CenterY + fp) / size))

	spec.Chunks = spec.Chunks[:0]
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			if cx < 0 || cy < 0 || cx >= cfg.WorldChunksX || cy >= cfg.WorldChunksY {
				continue
			}
			// Circle vs chunk rect test.
			x0, y0 := float64(cx)*size, float64(cy)*size
			nx := clampF(spec.CenterX, x0, x0+size)
			ny := clampF(spec.CenterY, y0, y0+size)
			dx, dy := spec.CenterX-nx, spec.CenterY-ny
			if dx*dx+dy*dy <= fp*fp {
				spec.Chunks = append(spec.Chunks, ChunkKey{CX: cx, CY: cy})
			}
		}
	}
	sort.Slice(spec.Chunks, func(i, j int) bool { return spec.Chunks[i].less(spec.Chunks[j]) })
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

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
