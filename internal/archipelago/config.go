// Package archipelago generates several independent landmasses across a
// chunked world: spaced island placement, a quadtree over footprints,
// lazily generated chunks with blended multi-island height and biome
// fields, LRU-bounded chunk caching and a priority-filtered block export.
package archipelago

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the terminal validation error class for this package.
var ErrInvalidConfig = errors.New("archipelago: invalid config")

// BiomeDef keys the per-layer material table and the height character of
// islands carrying this biome.
type BiomeDef struct {
	Name       string   `json:"name" yaml:"name"`
	HeightMult float64  `json:"height_mult" yaml:"height_mult"`
	SubBiomes  []string `json:"sub_biomes" yaml:"sub_biomes"`
	// Special biomes earn an export priority bonus.
	Special bool `json:"special,omitempty" yaml:"special,omitempty"`

	Surface    string `json:"surface" yaml:"surface"`
	Subsurface string `json:"subsurface" yaml:"subsurface"`
	Deep       string `json:"deep" yaml:"deep"`
	// Ore is sprinkled into the deep layer in deterministic pockets.
	Ore string `json:"ore,omitempty" yaml:"ore,omitempty"`
}

// PriorityWeights order the block export. The ranking (surface > center
// proximity > rare material > special biome) is load-bearing; the exact
// numbers are tunable.
type PriorityWeights struct {
	Surface         float64 `json:"surface" yaml:"surface"`
	CenterProximity float64 `json:"center_proximity" yaml:"center_proximity"`
	RareMaterial    float64 `json:"rare_material" yaml:"rare_material"`
	SpecialBiome    float64 `json:"special_biome" yaml:"special_biome"`
}

var defaultPriority = PriorityWeights{
	Surface:         8,
	CenterProximity: 4,
	RareMaterial:    2,
	SpecialBiome:    1,
}

// Config describes one archipelago world. Immutable after validation.
type Config struct {
	// World extent in chunks per axis.
	WorldChunksX int `json:"world_chunks_x" yaml:"world_chunks_x"`
	WorldChunksY int `json:"world_chunks_y" yaml:"world_chunks_y"`
	// ChunkSize is the cell edge of one square chunk.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
	SeaLevel  int `json:"sea_level" yaml:"sea_level"`

	IslandCount       int     `json:"island_count" yaml:"island_count"`
	MinIslandSpacing  float64 `json:"min_island_spacing" yaml:"min_island_spacing"`
	RadiusMin         float64 `json:"radius_min" yaml:"radius_min"`
	RadiusMax         float64 `json:"radius_max" yaml:"radius_max"`
	PlacementAttempts int     `json:"placement_attempts" yaml:"placement_attempts"`

	// ChunkCacheCeiling bounds live chunks; the least recently touched
	// chunk is evicted above it.
	ChunkCacheCeiling int `json:"chunk_cache_ceiling" yaml:"chunk_cache_ceiling"`
	// InitialChunks is how many chunks the INITIAL_CHUNKS phase generates
	// before streaming takes over.
	InitialChunks int `json:"initial_chunks" yaml:"initial_chunks"`

	Biomes   []BiomeDef      `json:"biomes" yaml:"biomes"`
	Priority PriorityWeights `json:"priority" yaml:"priority"`
}

// Validate checks the config and returns a normalized copy. Defaults are
// filled only for fields with a documented default; everything else invalid
// is terminal.
func (c Config) Validate() (Config, error) {
	if c.WorldChunksX <= 0 || c.WorldChunksY <= 0 {
		return c, fmt.Errorf("%w: world %dx%d chunks", ErrInvalidConfig, c.WorldChunksX, c.WorldChunksY)
	}
	if c.IslandCount <= 0 {
		return c, fmt.Errorf("%w: island count %d", ErrInvalidConfig, c.IslandCount)
	}
	if c.RadiusMin <= 0 || c.RadiusMax < c.RadiusMin {
		return c, fmt.Errorf("%w: radius range [%v,%v]", ErrInvalidConfig, c.RadiusMin, c.RadiusMax)
	}
	if c.MinIslandSpacing < 0 {
		return c, fmt.Errorf("%w: negative island spacing", ErrInvalidConfig)
	}
	if len(c.Biomes) == 0 {
		return c, fmt.Errorf("%w: no biomes", ErrInvalidConfig)
	}
	out := c
	out.Biomes = make([]BiomeDef, len(c.Biomes))
	copy(out.Biomes, c.Biomes)
	for i, b := range out.Biomes {
		if b.Name == "" || b.Surface == "" || b.Subsurface == "" || b.Deep == "" {
			return c, fmt.Errorf("%w: biome %d incomplete", ErrInvalidConfig, i)
		}
		if b.HeightMult <= 0 {
			out.Biomes[i].HeightMult = 1
		}
	}
	if out.ChunkSize <= 0 {
		out.ChunkSize = 16
	}
	if out.PlacementAttempts <= 0 {
		out.PlacementAttempts = 12
	}
	if out.ChunkCacheCeiling <= 0 {
		out.ChunkCacheCeiling = 64
	}
	if out.InitialChunks <= 0 {
		out.InitialChunks = 16
	}
	if out.Priority == (PriorityWeights{}) {
		out.Priority = defaultPriority
	}
	return out, nil
}

// worldWidth and worldHeight are the world extent in cells.
func (c Config) worldWidth() float64  { return float64(c.WorldChunksX * c.ChunkSize) }
func (c Config) worldHeight() float64 { return float64(c.WorldChunksY * c.ChunkSize) }
