package archipelago

import (
	"fmt"
	"sort"
)

// ExportStats reports the block budget outcome. Truncation is not an
// error: filtered blocks are counted, never silently dropped.
type ExportStats struct {
	Total    int `json:"total"`
	Returned int `json:"returned"`
	Filtered int `json:"filtered"`
}

// priority scores one block for export filtering. The ranking is
// surface > center proximity > rare material > special biome; the exact
// weights are tunable config.
func (o *Orchestrator) priority(b Block) float64 {
	w := o.cfg.Priority
	p := w.CenterProximity * (1 - b.CenterDist)
	if b.Surface {
		p += w.Surface
	}
	if b.Rare {
		p += w.RareMaterial
	}
	if b.Biome >= 0 && b.Biome < len(o.cfg.Biomes) && o.cfg.Biomes[b.Biome].Special {
		p += w.SpecialBiome
	}
	return p
}

// GetAllBlocks exports every generated block, filtered to the highest
// priority `limit` entries when limit is positive and smaller than the
// total. Evicted chunks are regenerated on demand; the returned count plus
// the filtered count always equals the generated total.
func (o *Orchestrator) GetAllBlocks(limit int) ([]Block, ExportStats, error) {
	if o.phase != PhaseDone {
		return nil, ExportStats{}, fmt.Errorf("archipelago: export before DONE (phase %s)", o.phase)
	}

	blocks := make([]Block, 0, o.totalBlocks)
	for _, key := range o.order {
		ch := o.touch(key)
		blocks = append(blocks, ch.Blocks...)
	}

	stats := ExportStats{Total: len(blocks)}
	if limit <= 0 || limit >= len(blocks) {
		stats.Returned = len(blocks)
		return blocks, stats, nil
	}

	// Stable sort keeps the deterministic generation order among equal
	// priorities.
	sort.SliceStable(blocks, func(i, j int) bool {
		return o.priority(blocks[i]) > o.priority(blocks[j])
	})
	out := blocks[:limit]
	stats.Returned = limit
	stats.Filtered = stats.Total - limit
	return out, stats, nil
}
