package island

import (
	"fmt"
	"math"

	"islandforge/internal/rng"
)

// TilePlacement is the unit of output: one material committed at one world
// position. Append-only; never mutated after creation.
type TilePlacement struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Z        int    `json:"z"`
	Material string `json:"material"`
	RegionID int    `json:"region_id"`
	Rule     Rule   `json:"rule"`
	// Forced marks a UNIQUE last-resort placement that could not satisfy
	// the no-repeat distance.
	Forced bool `json:"forced,omitempty"`
}

// placementPass owns all per-run placement state: the PURE choice per
// region and the UNIQUE usage tracking. State is explicit here rather than
// captured in closures so ownership is obvious.
type placementPass struct {
	cfg   Config
	r     *rng.RNG
	rules map[int32]Rule

	commonMats    []string
	commonWeights []float64
	cleanMats     []string
	cleanWeights  []float64

	pureChoice map[int32]string
	uniqueUsed map[int32]map[string][][2]int

	forced int
}

func newPlacementPass(cfg Config, r *rng.RNG, seeds []RegionSeed) *placementPass {
	p := &placementPass{
		cfg:        cfg,
		r:          r,
		rules:      make(map[int32]Rule, len(seeds)),
		pureChoice: make(map[int32]string),
		uniqueUsed: make(map[int32]map[string][][2]int),
	}
	for _, s := range seeds {
		p.rules[int32(s.ID)] = s.Rule
	}
	for _, e := range cfg.Palette.Common {
		p.commonMats = append(p.commonMats, e.Material)
		p.commonWeights = append(p.commonWeights, e.Weight)
		if e.Clean {
			p.cleanMats = append(p.cleanMats, e.Material)
			p.cleanWeights = append(p.cleanWeights, e.Weight)
		}
	}
	return p
}

// place resolves the material for one assigned tile. Tiles are visited in
// row-major order by the generator, which fixes the RNG draw order.
func (p *placementPass) place(x, y int, regionID int32) (TilePlacement, error) {
	rule, ok := p.rules[regionID]
	if !ok {
		return TilePlacement{}, fmt.Errorf("island: tile (%d,%d) assigned to unknown region %d", x, y, regionID)
	}

	tp := TilePlacement{
		X:        p.cfg.Grid.OriginX + x,
		Y:        p.cfg.Grid.OriginY + y,
		Z:        p.cfg.Grid.Level,
		RegionID: int(regionID),
		Rule:     rule,
	}

	switch rule {
	case RuleAll:
		m, err := rng.Pick(p.r, p.commonMats, p.commonWeights)
		if err != nil {
			return TilePlacement{}, fmt.Errorf("island: common pick: %w", err)
		}
		tp.Material = m

	case RulePure:
		m, ok := p.pureChoice[regionID]
		if !ok {
			var err error
			if len(p.cleanMats) > 0 {
				m, err = rng.Pick(p.r, p.cleanMats, p.cleanWeights)
			} else {
				m, err = rng.Pick(p.r, p.commonMats, p.commonWeights)
			}
			if err != nil {
				return TilePlacement{}, fmt.Errorf("island: pure pick: %w", err)
			}
			p.pureChoice[regionID] = m
		}
		tp.Material = m

	case RuleUnique:
		m, forced := p.placeUnique(regionID, x, y)
		tp.Material = m
		tp.Forced = forced
		if forced {
			p.forced++
		}

	default:
		// Unreachable: rules are fixed at validation time.
		return TilePlacement{}, fmt.Errorf("island: unrecognized rule %q", rule)
	}
	return tp, nil
}

// placeUnique walks the exotic tier, then the fallback tier, accepting the
// first material whose previous placements in this region all sit at least
// UniqueNoRepeatDistance away. When nothing qualifies the first fallback
// material is forced so no tile is ever left unplaced.
func (p *placementPass) placeUnique(regionID int32, x, y int) (material string, forced bool) {
	used := p.uniqueUsed[regionID]
	if used == nil {
		used = make(map[string][][2]int)
		p.uniqueUsed[regionID] = used
	}

	for _, tier := range [2][]string{p.cfg.Palette.Exotic, p.cfg.Palette.Fallback} {
		for _, m := range tier {
			if p.farEnough(used[m], x, y) {
				used[m] = append(used[m], [2]int{x, y})
				return m, false
			}
		}
	}

	m := p.cfg.Palette.Fallback[0]
	used[m] = append(used[m], [2]int{x, y})
	return m, true
}

func (p *placementPass) farEnough(prev [][2]int, x, y int) bool {
	min := p.cfg.Layout.UniqueNoRepeatDistance
	for _, q := range prev {
		dx := float64(q[0] - x)
		dy := float64(q[1] - y)
		if math.Sqrt(dx*dx+dy*dy) < min {
			return false
		}
	}
	return true
}
