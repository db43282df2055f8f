package genconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const schemaDir = "../../schemas"

func TestLoadIsland_SampleConfigValidates(t *testing.T) {
	cfg, err := LoadIsland("../../configs/island.yaml", schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mask.Radius != 58 || cfg.Grid.Width != 128 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := cfg.Validate(); err != nil {
		t.Fatalf("semantic validation: %v", err)
	}
	if len(cfg.Palette.Exotic) != 3 {
		t.Fatalf("exotic tier: %v", cfg.Palette.Exotic)
	}
}

func TestLoadArchipelago_SampleConfigValidates(t *testing.T) {
	cfg, err := LoadArchipelago("../../configs/archipelago.yaml", schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IslandCount != 7 || len(cfg.Biomes) != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := cfg.Validate(); err != nil {
		t.Fatalf("semantic validation: %v", err)
	}
}

func TestLoadIsland_SchemaRejectsMissingRadius(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := `
mask:
  noise_amplitude: 0.2
layout:
  all_count: 1
palette:
  common:
    - { material: GRASS }
grid:
  width: 16
  height: 16
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadIsland(path, schemaDir); err == nil {
		t.Fatalf("schema accepted a config without mask.radius")
	}
}

func TestDigest_StableForSameFile(t *testing.T) {
	a, err := Digest("../../configs/island.yaml")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	b, err := Digest("../../configs/island.yaml")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if a != b || len(a) != 64 {
		t.Fatalf("unstable or malformed digest: %q vs %q", a, b)
	}
}

func TestLoadIsland_WithoutSchemaStillParses(t *testing.T) {
	cfg, err := LoadIsland("../../configs/island.yaml", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mask.Radius == 0 || len(cfg.Palette.Common) == 0 {
		t.Fatalf("config parsed empty: %+v", cfg)
	}
}
