package island

// relaxDamping is the fraction of the seed-to-centroid distance applied
// per Lloyd iteration.
const relaxDamping = 0.5

// relaxSeeds runs Lloyd relaxation: each round, every land tile votes for
// its nearest seed, then each seed moves a damped step toward the centroid
// of its voters. Seeds that attracted no tiles stay put. Mutates seeds in
// place.
func relaxSeeds(cfg Config, m *Mask, seeds []RegionSeed) {
	if cfg.Layout.RelaxIterations <= 0 || len(seeds) == 0 {
		return
	}

	sumX := make([]float64, len(seeds))
	sumY := make([]float64, len(seeds))
	count := make([]int, len(seeds))

	for iter := 0; iter < cfg.Layout.RelaxIterations; iter++ {
		for i := range seeds {
			sumX[i], sumY[i], count[i] = 0, 0, 0
		}
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				if !m.IsLand(x, y) {
					continue
				}
				i := nearestSeed(seeds, float64(x), float64(y))
				sumX[i] += float64(x)
				sumY[i] += float64(y)
				count[i]++
			}
		}
		for i := range seeds {
			if count[i] == 0 {
				continue
			}
			cx := sumX[i] / float64(count[i])
			cy := sumY[i] / float64(count[i])
			seeds[i].X = clampF(seeds[i].X+(cx-seeds[i].X)*relaxDamping, 0, float64(m.W-1))
			seeds[i].Y = clampF(seeds[i].Y+(cy-seeds[i].Y)*relaxDamping, 0, float64(m.H-1))
		}
	}
}

// nearestSeed uses the same metric and tie-break as the Voronoi assigner so
// relaxation and assignment agree on tile ownership.
func nearestSeed(seeds []RegionSeed, x, y float64) int {
	best := 0
	bestDist := distSq(seeds[0].X, seeds[0].Y, x, y)
	for i := 1; i < len(seeds); i++ {
		d := distSq(seeds[i].X, seeds[i].Y, x, y)
		switch {
		case d < bestDist:
			best, bestDist = i, d
		case d == bestDist && seeds[i].Rule.priority() > seeds[best].Rule.priority():
			best = i
		}
	}
	return best
}

func distSq(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
