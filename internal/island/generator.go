package island

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"islandforge/internal/rng"
)

// RegionInfo summarizes one region of the result.
type RegionInfo struct {
	ID   int  `json:"id"`
	Rule Rule `json:"rule"`
}

// Stats are the degraded-but-valid outcomes of a run. They are reported,
// never raised as errors.
type Stats struct {
	LandTiles        int `json:"land_tiles"`
	ForcedPlacements int `json:"forced_placements"`
	OrphanTiles      int `json:"orphan_tiles"`
}

// DebugPayload carries the intermediate fields for external visualization.
// Only populated when Config.Debug is set.
type DebugPayload struct {
	Mask       *Mask
	Seeds      []RegionSeed
	Assignment []int32
}

// Result is the complete output of one generation run.
type Result struct {
	RunID      string          `json:"run_id"`
	Seed       string          `json:"seed"`
	Placements []TilePlacement `json:"placements"`
	Regions    []RegionInfo    `json:"regions"`
	Stats      Stats           `json:"stats"`
	Debug      *DebugPayload   `json:"-"`
}

// Digest hashes the placement stream. Two deterministic runs of the same
// (config, seed) produce the same digest.
func (res *Result) Digest() string {
	h := sha256.New()
	var b [8]byte
	for _, p := range res.Placements {
		binary.LittleEndian.PutUint64(b[:], uint64(int64(p.X)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(int64(p.Y)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(int64(p.Z)))
		h.Write(b[:])
		h.Write([]byte(p.Material))
		binary.LittleEndian.PutUint64(b[:], uint64(int64(p.RegionID)))
		h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Generate runs the full single-island pipeline. It is a pure function of
// (cfg, seed) apart from the uuid run id; cancelling ctx aborts the run
// without exposing partial output.
func Generate(ctx context.Context, cfg Config, seed string) (*Result, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	var r *rng.RNG
	if cfg.IslandID != "" {
		r = rng.New(seed, cfg.IslandID)
	} else {
		r = rng.New(seed)
	}

	mask, err := buildMask(ctx, cfg, r)
	if err != nil {
		return nil, fmt.Errorf("island: mask: %w", err)
	}

	seeds := planSeeds(cfg, r)
	relaxSeeds(cfg, mask, seeds)
	assign := assignRegions(mask, seeds)
	orphans := repairConnectivity(assign, seeds)

	pass := newPlacementPass(cfg, r, seeds)
	res := &Result{
		RunID: uuid.NewString(),
		Seed:  seed,
		Stats: Stats{OrphanTiles: orphans},
	}
	for _, s := range seeds {
		res.Regions = append(res.Regions, RegionInfo{ID: s.ID, Rule: s.Rule})
	}

	for y := 0; y < assign.H; y++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("island: placement: %w", err)
		}
		for x := 0; x < assign.W; x++ {
			id := assign.at(x, y)
			if id < 0 {
				continue
			}
			tp, err := pass.place(x, y, id)
			if err != nil {
				return nil, err
			}
			res.Placements = append(res.Placements, tp)
		}
	}
	res.Stats.LandTiles = len(res.Placements)
	res.Stats.ForcedPlacements = pass.forced

	if cfg.Debug {
		res.Debug = &DebugPayload{
			Mask:       mask,
			Seeds:      append([]RegionSeed(nil), seeds...),
			Assignment: append([]int32(nil), assign.id...),
		}
	}
	return res, nil
}

// Placer is the host world-store write primitive. Place returns false when
// the position is occupied and the host declines the write; the generator
// only counts that, it never interprets it.
type Placer interface {
	Place(x, y, z int, material string) bool
}

// Commit pushes every placement into the host store in batches of
// Grid.CommitBatch, yielding to ctx between batches. Returns the number of
// placements the store declined.
func Commit(ctx context.Context, res *Result, batch int, store Placer) (declined int, err error) {
	if batch <= 0 {
		batch = 256
	}
	for i, p := range res.Placements {
		if i%batch == 0 {
			if err := ctx.Err(); err != nil {
				return declined, fmt.Errorf("island: commit: %w", err)
			}
		}
		if !store.Place(p.X, p.Y, p.Z, p.Material) {
			declined++
		}
	}
	return declined, nil
}
