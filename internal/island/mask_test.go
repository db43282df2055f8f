package island

import (
	"context"
	"testing"

	"islandforge/internal/rng"
)

func buildTestMask(t *testing.T, seed string) (*Mask, Config) {
	t.Helper()
	cfg, err := testConfig().Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	m, err := buildMask(context.Background(), cfg, rng.New(seed))
	if err != nil {
		t.Fatalf("build mask: %v", err)
	}
	return m, cfg
}

func TestBuildMask_ValuesInRange(t *testing.T) {
	m, _ := buildTestMask(t, "mask-seed")
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if v := m.At(x, y); v < 0 || v > 1 {
				t.Fatalf("mask value out of [0,1] at (%d,%d): %v", x, y, v)
			}
		}
	}
}

func TestBuildMask_CenterLandCornersOcean(t *testing.T) {
	m, _ := buildTestMask(t, "mask-seed")
	if !m.IsLand(m.W/2, m.H/2) {
		t.Fatalf("grid center is not land")
	}
	for _, c := range [][2]int{{0, 0}, {m.W - 1, 0}, {0, m.H - 1}, {m.W - 1, m.H - 1}} {
		if m.IsLand(c[0], c[1]) {
			t.Fatalf("corner (%d,%d) is land", c[0], c[1])
		}
	}
}

func TestBuildMask_Deterministic(t *testing.T) {
	a, _ := buildTestMask(t, "mask-seed")
	b, _ := buildTestMask(t, "mask-seed")
	for i := range a.v {
		if a.v[i] != b.v[i] {
			t.Fatalf("mask diverged at index %d", i)
		}
	}
}

func TestBuildMask_Cancellation(t *testing.T) {
	cfg, err := testConfig().Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := buildMask(ctx, cfg, rng.New("x")); err == nil {
		t.Fatalf("cancelled build returned no error")
	}
}
