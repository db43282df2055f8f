package archipelago

import (
	"testing"

	"islandforge/internal/rng"
)

func randomIslands(n int, w, h float64, seed string) []*IslandSpec {
	r := rng.New(seed)
	out := make([]*IslandSpec, n)
	for i := range out {
		radius := 8 + r.Next()*24
		fp := radius * influenceFactor
		out[i] = &IslandSpec{
			ID:      i,
			CenterX: fp + r.Next()*(w-2*fp),
			CenterY: fp + r.Next()*(h-2*fp),
			Radius:  radius,
		}
	}
	return out
}

func TestQuadtree_MatchesBruteForce(t *testing.T) {
	const w, h = 512.0, 512.0
	islands := randomIslands(40, w, h, "qt-islands")
	qt := buildQuadtree(qrect{0, 0, w, h}, islands)

	r := rng.New("qt-queries")
	for q := 0; q < 500; q++ {
		x := r.Next() * w
		y := r.Next() * h

		var want []int
		for _, s := range islands {
			if s.distTo(x, y) <= s.footprint() {
				want = append(want, s.ID)
			}
		}
		got := qt.QueryPoint(x, y)
		if len(got) != len(want) {
			t.Fatalf("query (%v,%v): got %d islands, want %d", x, y, len(got), len(want))
		}
		for i, s := range got {
			if s.ID != want[i] {
				t.Fatalf("query (%v,%v): result %d is island %d, want %d", x, y, i, s.ID, want[i])
			}
		}
	}
}

func TestQuadtree_SubdividesPastLeafCapacity(t *testing.T) {
	islands := randomIslands(quadLeafCapacity*3, 512, 512, "qt-split")
	qt := buildQuadtree(qrect{0, 0, 512, 512}, islands)
	if qt.root.children == nil && len(qt.root.items) > quadLeafCapacity {
		t.Fatalf("root exceeded leaf capacity without subdividing")
	}
}

func TestQuadtree_EmptyIslandSet(t *testing.T) {
	qt := buildQuadtree(qrect{0, 0, 64, 64}, nil)
	if got := qt.QueryPoint(32, 32); len(got) != 0 {
		t.Fatalf("empty tree returned %d islands", len(got))
	}
}
