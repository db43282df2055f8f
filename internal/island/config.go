// Package island implements the single-island generation pipeline: landness
// mask, region seed layout, Lloyd relaxation, Voronoi assignment,
// connectivity repair and rule-driven tile placement.
package island

import (
	"errors"
	"fmt"
)

// Rule governs how materials are chosen within a region.
type Rule string

const (
	RuleAll    Rule = "ALL"
	RulePure   Rule = "PURE"
	RuleUnique Rule = "UNIQUE"
)

// priority orders rules for deterministic Voronoi tie-breaking:
// PURE > UNIQUE > ALL.
func (r Rule) priority() int {
	switch r {
	case RulePure:
		return 3
	case RuleUnique:
		return 2
	case RuleAll:
		return 1
	}
	return 0
}

func (r Rule) valid() bool {
	return r == RuleAll || r == RulePure || r == RuleUnique
}

// PaletteEntry is one weighted material of the common tier. Clean marks
// materials eligible to be the single material of a PURE region.
type PaletteEntry struct {
	Material string  `json:"material" yaml:"material"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Clean    bool    `json:"clean,omitempty" yaml:"clean,omitempty"`
}

// Palette holds the three material tiers. Exotic and Fallback are ordered:
// the UNIQUE rule tries them front to back.
type Palette struct {
	Common   []PaletteEntry `json:"common" yaml:"common"`
	Exotic   []string       `json:"exotic" yaml:"exotic"`
	Fallback []string       `json:"fallback" yaml:"fallback"`
}

// Contains reports whether id belongs to any tier.
func (p Palette) Contains(id string) bool {
	for _, e := range p.Common {
		if e.Material == id {
			return true
		}
	}
	for _, m := range p.Exotic {
		if m == id {
			return true
		}
	}
	for _, m := range p.Fallback {
		if m == id {
			return true
		}
	}
	return false
}

// Grid describes the tile lattice and how results map into world space.
type Grid struct {
	Width   int `json:"width" yaml:"width"`
	Height  int `json:"height" yaml:"height"`
	OriginX int `json:"origin_x" yaml:"origin_x"`
	OriginY int `json:"origin_y" yaml:"origin_y"`
	// Level is the vertical coordinate every placement is committed at.
	Level int `json:"level" yaml:"level"`
	// CommitBatch is the number of placements committed to the host store
	// per batch before yielding.
	CommitBatch int `json:"commit_batch" yaml:"commit_batch"`
}

// MaskParams shape the landness field.
type MaskParams struct {
	Radius         float64 `json:"radius" yaml:"radius"`
	NoiseFrequency float64 `json:"noise_frequency" yaml:"noise_frequency"`
	NoiseAmplitude float64 `json:"noise_amplitude" yaml:"noise_amplitude"`
	Octaves        int     `json:"octaves" yaml:"octaves"`
	ShoreSoftness  float64 `json:"shore_softness" yaml:"shore_softness"`
}

// LayoutParams shape region seeding and repair.
type LayoutParams struct {
	AllCount               int     `json:"all_count" yaml:"all_count"`
	PureCount              int     `json:"pure_count" yaml:"pure_count"`
	UniqueCount            int     `json:"unique_count" yaml:"unique_count"`
	UniqueNoRepeatDistance float64 `json:"unique_no_repeat_distance" yaml:"unique_no_repeat_distance"`
	RelaxIterations        int     `json:"relax_iterations" yaml:"relax_iterations"`
}

// Config is the immutable input of one generation run.
type Config struct {
	// IslandID is the optional seed sub-identifier; two runs with the same
	// seed and IslandID are bit-identical.
	IslandID string       `json:"island_id,omitempty" yaml:"island_id,omitempty"`
	Mask     MaskParams   `json:"mask" yaml:"mask"`
	Layout   LayoutParams `json:"layout" yaml:"layout"`
	Palette  Palette      `json:"palette" yaml:"palette"`
	Grid     Grid         `json:"grid" yaml:"grid"`
	// Debug requests the raw mask, seed list and assignment map on the
	// result. Off by default to avoid the memory cost.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// ErrInvalidConfig is the terminal validation error class. Generation never
// starts on an invalid config.
var ErrInvalidConfig = errors.New("island: invalid config")

// Validate checks the config and returns a normalized copy. The only
// silent corrections allowed are filling an empty fallback tier from the
// common tier and clamping non-positive common weights to 1.
func (c Config) Validate() (Config, error) {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return c, fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	if c.Mask.Radius <= 0 {
		return c, fmt.Errorf("%w: mask radius %v", ErrInvalidConfig, c.Mask.Radius)
	}
	if len(c.Palette.Common) == 0 {
		return c, fmt.Errorf("%w: empty common palette", ErrInvalidConfig)
	}
	if c.Layout.AllCount < 0 || c.Layout.PureCount < 0 || c.Layout.UniqueCount < 0 {
		return c, fmt.Errorf("%w: negative region count", ErrInvalidConfig)
	}
	if c.Layout.AllCount+c.Layout.PureCount+c.Layout.UniqueCount == 0 {
		return c, fmt.Errorf("%w: zero regions", ErrInvalidConfig)
	}
	if c.Layout.UniqueNoRepeatDistance < 0 {
		return c, fmt.Errorf("%w: negative unique no-repeat distance", ErrInvalidConfig)
	}
	if c.Layout.RelaxIterations < 0 {
		return c, fmt.Errorf("%w: negative relax iterations", ErrInvalidConfig)
	}

	// Normalized copy. Slices are rebuilt so the caller's config stays
	// untouched.
	out := c
	out.Palette.Common = make([]PaletteEntry, len(c.Palette.Common))
	copy(out.Palette.Common, c.Palette.Common)
	for i := range out.Palette.Common {
		if out.Palette.Common[i].Material == "" {
			return c, fmt.Errorf("%w: common palette entry %d has empty material", ErrInvalidConfig, i)
		}
		if out.Palette.Common[i].Weight <= 0 {
			out.Palette.Common[i].Weight = 1
		}
	}
	out.Palette.Exotic = append([]string(nil), c.Palette.Exotic...)
	out.Palette.Fallback = append([]string(nil), c.Palette.Fallback...)
	if len(out.Palette.Fallback) == 0 {
		out.Palette.Fallback = []string{out.Palette.Common[0].Material}
	}

	if out.Mask.Octaves <= 0 {
		out.Mask.Octaves = 4
	}
	if out.Mask.NoiseFrequency <= 0 {
		out.Mask.NoiseFrequency = 0.06
	}
	if out.Mask.NoiseAmplitude < 0 {
		return c, fmt.Errorf("%w: negative noise amplitude", ErrInvalidConfig)
	}
	if out.Mask.NoiseAmplitude == 0 {
		out.Mask.NoiseAmplitude = 0.25
	}
	if out.Mask.ShoreSoftness <= 0 || out.Mask.ShoreSoftness > 1 {
		out.Mask.ShoreSoftness = 0.2
	}
	if out.Grid.CommitBatch <= 0 {
		out.Grid.CommitBatch = 256
	}
	return out, nil
}
