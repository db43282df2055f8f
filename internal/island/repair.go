package island

// maxRingSearch bounds the expanding neighbor search for fragment tiles.
const maxRingSearch = 5

// repairConnectivity makes every region a single contiguous blob where
// possible. For each region it flood-fills (4-connected) its tiles, keeps
// the largest component and reassigns every tile of the minor components to
// the nearest different region found within an expanding ring search.
// Tiles with no neighboring region within the search radius keep their
// fragmented id; they are counted, not treated as errors.
func repairConnectivity(a *assignment, seeds []RegionSeed) (orphans int) {
	visited := make([]bool, len(a.id))

	for _, s := range seeds {
		id := int32(s.ID)
		for i := range visited {
			visited[i] = false
		}

		// Row-major discovery keeps component order deterministic.
		var components [][]int
		for y := 0; y < a.H; y++ {
			for x := 0; x < a.W; x++ {
				idx := y*a.W + x
				if visited[idx] || a.id[idx] != id {
					continue
				}
				components = append(components, floodFill(a, visited, x, y, id))
			}
		}
		if len(components) <= 1 {
			continue
		}

		// Keep the largest; earlier discovery wins size ties.
		largest := 0
		for i := 1; i < len(components); i++ {
			if len(components[i]) > len(components[largest]) {
				largest = i
			}
		}
		for i, comp := range components {
			if i == largest {
				continue
			}
			for _, idx := range comp {
				if !reassignTile(a, idx%a.W, idx/a.W, id) {
					orphans++
				}
			}
		}
	}
	return orphans
}

// floodFill collects the 4-connected component containing (x, y).
func floodFill(a *assignment, visited []bool, x, y int, id int32) []int {
	start := y*a.W + x
	visited[start] = true
	stack := []int{start}
	comp := []int{start}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := idx%a.W, idx/a.W
		for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= a.W || ny >= a.H {
				continue
			}
			nidx := ny*a.W + nx
			if visited[nidx] || a.id[nidx] != id {
				continue
			}
			visited[nidx] = true
			stack = append(stack, nidx)
			comp = append(comp, nidx)
		}
	}
	return comp
}

// reassignTile searches rings of growing radius for the nearest tile owned
// by a different region and adopts that region's id. Returns false when no
// neighbor exists within maxRingSearch.
func reassignTile(a *assignment, x, y int, fragID int32) bool {
	for radius := 1; radius <= maxRingSearch; radius++ {
		bestID := int32(-1)
		bestDist := 0.0
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				// Ring only: skip the interior already scanned.
				if maxAbs(dx, dy) != radius {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= a.W || ny >= a.H {
					continue
				}
				nid := a.at(nx, ny)
				if nid < 0 || nid == fragID {
					continue
				}
				d := float64(dx*dx + dy*dy)
				if bestID < 0 || d < bestDist {
					bestID, bestDist = nid, d
				}
			}
		}
		if bestID >= 0 {
			a.set(x, y, bestID)
			return true
		}
	}
	return false
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
