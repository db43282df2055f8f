package island

import (
	"testing"

	"islandforge/internal/rng"
)

func TestPlanSeeds_CountsAndOrder(t *testing.T) {
	cfg, _ := testConfig().Validate()
	seeds := planSeeds(cfg, rng.New("seeds"))

	counts := map[Rule]int{}
	for i, s := range seeds {
		if s.ID != i {
			t.Fatalf("seed %d has id %d", i, s.ID)
		}
		counts[s.Rule]++
	}
	if counts[RuleAll] != cfg.Layout.AllCount ||
		counts[RuleUnique] != cfg.Layout.UniqueCount ||
		counts[RulePure] != cfg.Layout.PureCount {
		t.Fatalf("seed counts %v do not match layout %+v", counts, cfg.Layout)
	}
}

func TestPlanSeeds_WithinGrid(t *testing.T) {
	cfg, _ := testConfig().Validate()
	for _, s := range planSeeds(cfg, rng.New("seeds")) {
		if s.X < 0 || s.Y < 0 || s.X > float64(cfg.Grid.Width-1) || s.Y > float64(cfg.Grid.Height-1) {
			t.Fatalf("seed %d out of grid: (%v,%v)", s.ID, s.X, s.Y)
		}
	}
}

func TestPlanSeeds_Deterministic(t *testing.T) {
	cfg, _ := testConfig().Validate()
	a := planSeeds(cfg, rng.New("seeds"))
	b := planSeeds(cfg, rng.New("seeds"))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seed %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlanSeeds_SingleSeedTemplatesDoNotDivideByZero(t *testing.T) {
	cfg, _ := testConfig().Validate()
	cfg.Layout.AllCount, cfg.Layout.PureCount, cfg.Layout.UniqueCount = 1, 1, 1
	seeds := planSeeds(cfg, rng.New("one"))
	if len(seeds) != 3 {
		t.Fatalf("want 3 seeds, got %d", len(seeds))
	}
}
