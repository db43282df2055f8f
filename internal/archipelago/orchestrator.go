package archipelago

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"islandforge/internal/noise"
	"islandforge/internal/rng"
)

// Phase is the orchestrator state machine position.
type Phase int

const (
	PhasePlacingIslands Phase = iota + 1
	PhaseIndexing
	PhaseInitialChunks
	PhaseStreaming
	PhasePostProcess
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePlacingIslands:
		return "PLACING_ISLANDS"
	case PhaseIndexing:
		return "INDEXING"
	case PhaseInitialChunks:
		return "INITIAL_CHUNKS"
	case PhaseStreaming:
		return "STREAMING"
	case PhasePostProcess:
		return "POST_PROCESS"
	case PhaseDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// Event is one progress notification for an external observer.
type Event struct {
	RunID       string `json:"run_id"`
	Phase       string `json:"phase"`
	Cursor      int    `json:"cursor"`
	TotalChunks int    `json:"total_chunks"`
	Islands     int    `json:"islands"`
	Blocks      int    `json:"blocks"`
	Evictions   int    `json:"evictions"`
}

// Orchestrator drives one archipelago generation run. It owns the chunk
// cache exclusively; a run is cancellable via context and resumable from
// its chunk cursor, and resuming reproduces the uninterrupted result.
type Orchestrator struct {
	cfg   Config
	seed  string
	runID string
	r     *rng.RNG

	biomeField  *noise.Field
	continental *noise.Field
	regional    *noise.Field
	local       *noise.Field
	micro       *noise.Field

	islands []*IslandSpec
	qt      *Quadtree
	cache   *chunkCache

	// order is the deterministic streaming order over every influenced
	// chunk; cursor is the resume point within it.
	order  []ChunkKey
	cursor int
	phase  Phase

	// blockCounts survives eviction so export totals stay exact.
	blockCounts map[ChunkKey]int
	totalBlocks int

	progress func(Event)
}

// New validates the config and prepares all seed-derived noise fields.
// Every stream is partitioned by label up front so later work cannot
// perturb the draw order.
func New(cfg Config, seed string) (*Orchestrator, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	base := rng.New(seed)
	o := &Orchestrator{
		cfg:         cfg,
		seed:        seed,
		runID:       uuid.NewString(),
		r:           base.Sub("placement"),
		cache:       newChunkCache(cfg.ChunkCacheCeiling),
		blockCounts: make(map[ChunkKey]int),
		phase:       PhasePlacingIslands,
	}
	o.biomeField = noise.NewField(base.Sub("biome"), noise.Params{Octaves: 2, Frequency: 0.002, Amplitude: 1, Lacunarity: 2, Gain: 0.5})
	o.continental = noise.NewField(base.Sub("continental"), noise.Params{Octaves: 2, Frequency: 0.004, Amplitude: 1, Lacunarity: 2, Gain: 0.5})
	o.regional = noise.NewField(base.Sub("regional"), noise.Params{Octaves: 3, Frequency: 0.02, Amplitude: 1, Lacunarity: 2, Gain: 0.5})
	o.local = noise.NewField(base.Sub("local"), noise.Params{Octaves: 3, Frequency: 0.08, Amplitude: 1, Lacunarity: 2, Gain: 0.5})
	o.micro = noise.NewField(base.Sub("micro"), noise.Params{Octaves: 2, Frequency: 0.3, Amplitude: 1, Lacunarity: 2, Gain: 0.5})
	return o, nil
}

// OnProgress registers the observer hook. Must be set before Run.
func (o *Orchestrator) OnProgress(fn func(Event)) { o.progress = fn }

func (o *Orchestrator) RunID() string { return o.runID }

func (o *Orchestrator) Phase() Phase { return o.phase }

func (o *Orchestrator) Cursor() int { return o.cursor }

func (o *Orchestrator) TotalChunks() int { return len(o.order) }

func (o *Orchestrator) Islands() []*IslandSpec { return o.islands }

func (o *Orchestrator) TotalBlocks() int { return o.totalBlocks }

func (o *Orchestrator) CacheEvictions() int { return o.cache.evictions }

func (o *Orchestrator) emit() {
	if o.progress == nil {
		return
	}
	o.progress(Event{
		RunID:       o.runID,
		Phase:       o.phase.String(),
		Cursor:      o.cursor,
		TotalChunks: len(o.order),
		Islands:     len(o.islands),
		Blocks:      o.totalBlocks,
		Evictions:   o.cache.evictions,
	})
}

// Run advances the state machine until DONE or until ctx is cancelled.
// A cancelled run keeps its cursor; calling Run again resumes and yields
// the same result as an uninterrupted run.
func (o *Orchestrator) Run(ctx context.Context) error {
	for o.phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("archipelago: %s: %w", o.phase, err)
		}
		switch o.phase {
		case PhasePlacingIslands:
			o.islands = placeIslands(o.cfg, o.r, o.biomeField)
			o.phase = PhaseIndexing

		case PhaseIndexing:
			seen := make(map[ChunkKey]bool)
			o.order = o.order[:0]
			for _, s := range o.islands {
				computeInfluencedChunks(o.cfg, s)
				for _, k := range s.Chunks {
					if !seen[k] {
						seen[k] = true
						o.order = append(o.order, k)
					}
				}
			}
			sort.Slice(o.order, func(i, j int) bool { return o.order[i].less(o.order[j]) })
			o.qt = buildQuadtree(qrect{0, 0, o.cfg.worldWidth(), o.cfg.worldHeight()}, o.islands)
			o.phase = PhaseInitialChunks

		case PhaseInitialChunks:
			limit := o.cfg.InitialChunks
			if limit > len(o.order) {
				limit = len(o.order)
			}
			if err := o.stream(ctx, limit); err != nil {
				return err
			}
			o.phase = PhaseStreaming

		case PhaseStreaming:
			if err := o.stream(ctx, len(o.order)); err != nil {
				return err
			}
			o.phase = PhasePostProcess

		case PhasePostProcess:
			// Working maps beyond the ceiling are already evicted; totals
			// are final once every chunk has been touched.
			o.phase = PhaseDone
		}
		o.emit()
	}
	return nil
}

// streamEmitEvery is how many chunks pass between progress events while
// streaming, so observers see a live cursor on long runs.
const streamEmitEvery = 8

// stream touches chunks in order until the cursor reaches upto.
func (o *Orchestrator) stream(ctx context.Context, upto int) error {
	for o.cursor < upto {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("archipelago: %s at chunk %d: %w", o.phase, o.cursor, err)
		}
		o.touch(o.order[o.cursor])
		o.cursor++
		if o.cursor%streamEmitEvery == 0 {
			o.emit()
		}
	}
	return nil
}

// touch makes sure a chunk is generated and counted exactly once.
func (o *Orchestrator) touch(key ChunkKey) *Chunk {
	if ch, ok := o.cache.get(key); ok {
		return ch
	}
	ch := o.generateChunk(key)
	if _, counted := o.blockCounts[key]; !counted {
		o.blockCounts[key] = len(ch.Blocks)
		o.totalBlocks += len(ch.Blocks)
	}
	o.cache.put(ch)
	return ch
}

// generateChunk is a pure function of (seed, key): height, then biome,
// then materials, strictly in that order per cell. Evicted chunks come
// back bit-identical through this path.
func (o *Orchestrator) generateChunk(key ChunkKey) *Chunk {
	size := o.cfg.ChunkSize
	ch := newChunk(key, size)
	chunkRNG := rng.New(o.seed, fmt.Sprintf("chunk_%d_%d", key.CX, key.CY))

	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			wx := float64(key.CX*size+cx) + 0.5
			wy := float64(key.CY*size+cy) + 0.5
			idx := cy*size + cx

			influencers := o.qt.QueryPoint(wx, wy)
			if len(influencers) == 0 {
				continue
			}

			// Blended height: cubic-falloff weighted average of each
			// island's dome profile.
			var num, den float64
			owner := influencers[0]
			ownerT := owner.distTo(wx, wy) / owner.footprint()
			for _, s := range influencers {
				t := s.distTo(wx, wy) / s.footprint()
				if t >= 1 {
					continue
				}
				w := (1 - t) * (1 - t) * (1 - t)
				num += w * s.PeakHeight * (1 - t*t)
				den += w
				if t < ownerT {
					owner, ownerT = s, t
				}
			}
			if den == 0 {
				continue
			}
			h := num / den

			// Four octave bands of surface detail, attenuated toward the
			// footprint edge so coasts stay smooth.
			edge := 1 - ownerT
			h += edge * (3*o.continental.Eval2(wx, wy) +
				1.5*o.regional.Eval2(wx, wy) +
				0.75*o.local.Eval2(wx, wy) +
				0.3*o.micro.Eval2(wx, wy))

			surfaceZ := o.cfg.SeaLevel + int(h)
			ch.Heights[idx] = h
			if surfaceZ <= o.cfg.SeaLevel {
				continue
			}

			biome := o.biomeFor(owner, wx, wy)
			ch.Biomes[idx] = int16(biome)
			def := o.cfg.Biomes[biome]

			wxi := key.CX*size + cx
			wyi := key.CY*size + cy
			bottom := surfaceZ - 3
			if bottom < o.cfg.SeaLevel-2 {
				bottom = o.cfg.SeaLevel - 2
			}
			for z := bottom; z <= surfaceZ; z++ {
				blk := Block{
					X:          wxi,
					Y:          wyi,
					Z:          z,
					IslandID:   owner.ID,
					CenterDist: ownerT,
					Biome:      biome,
				}
				switch {
				case z == surfaceZ:
					blk.Material = def.Surface
					blk.Surface = true
				case surfaceZ-z <= 2:
					blk.Material = def.Subsurface
				default:
					blk.Material = def.Deep
					if def.Ore != "" && chunkRNG.Next() < 0.05 {
						blk.Material = def.Ore
						blk.Rare = true
					}
				}
				ch.Blocks = append(ch.Blocks, blk)
			}
		}
	}
	ch.Generated = true
	return ch
}

// biomeFor applies sub-biome banding by normalized distance from the owning
// island's center. Sub-biome names resolve against the biome table; names
// that do not resolve keep the island's primary biome.
func (o *Orchestrator) biomeFor(owner *IslandSpec, wx, wy float64) int {
	nd := owner.distTo(wx, wy) / owner.Radius
	switch {
	case nd <= owner.CoreFrac:
		return owner.Biome
	case nd <= owner.MidFrac:
		return o.resolveBiome(owner, 0)
	default:
		return o.resolveBiome(owner, 1)
	}
}

func (o *Orchestrator) resolveBiome(owner *IslandSpec, band int) int {
	if band >= len(owner.SubBiomes) {
		return owner.Biome
	}
	name := owner.SubBiomes[band]
	for i, b := range o.cfg.Biomes {
		if b.Name == name {
			return i
		}
	}
	return owner.Biome
}
