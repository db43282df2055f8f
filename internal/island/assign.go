package island

// assignment maps every tile to a region id, or -1 for ocean. Built once by
// the Voronoi pass; only the connectivity repairer mutates it afterwards.
type assignment struct {
	W, H int
	id   []int32
}

func newAssignment(w, h int) *assignment {
	a := &assignment{W: w, H: h, id: make([]int32, w*h)}
	for i := range a.id {
		a.id[i] = -1
	}
	return a
}

func (a *assignment) at(x, y int) int32 { return a.id[y*a.W+x] }

func (a *assignment) set(x, y int, v int32) { a.id[y*a.W+x] = v }

// assignRegions labels every land tile with its nearest seed. Exact
// distance ties prefer the higher-priority rule (PURE > UNIQUE > ALL) so
// the result never depends on seed iteration order.
func assignRegions(m *Mask, seeds []RegionSeed) *assignment {
	a := newAssignment(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.IsLand(x, y) {
				continue
			}
			i := nearestSeed(seeds, float64(x), float64(y))
			a.set(x, y, int32(seeds[i].ID))
		}
	}
	return a
}
