package island

import (
	"errors"
	"testing"
)

func testConfig() Config {
	return Config{
		Mask: MaskParams{Radius: 58},
		Layout: LayoutParams{
			AllCount:               3,
			PureCount:              6,
			UniqueCount:            6,
			UniqueNoRepeatDistance: 5,
		},
		Palette: Palette{
			Common: []PaletteEntry{
				{Material: "GRASS", Weight: 6, Clean: true},
				{Material: "DIRT", Weight: 3, Clean: true},
				{Material: "STONE", Weight: 1},
			},
			Exotic:   []string{"CRYSTAL", "OBSIDIAN"},
			Fallback: []string{"GRAVEL"},
		},
		Grid: Grid{Width: 128, Height: 128, Level: 0},
	}
}

func TestValidate_RejectsDegenerateConfigs(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":        func(c *Config) { c.Grid.Width = 0 },
		"negative height":   func(c *Config) { c.Grid.Height = -4 },
		"zero radius":       func(c *Config) { c.Mask.Radius = 0 },
		"empty common":      func(c *Config) { c.Palette.Common = nil },
		"negative count":    func(c *Config) { c.Layout.PureCount = -1 },
		"zero regions":      func(c *Config) { c.Layout.AllCount, c.Layout.PureCount, c.Layout.UniqueCount = 0, 0, 0 },
		"negative distance": func(c *Config) { c.Layout.UniqueNoRepeatDistance = -2 },
		"empty material":    func(c *Config) { c.Palette.Common[0].Material = "" },
	}
	for name, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		if _, err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: want ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestValidate_FillsEmptyFallbackFromCommon(t *testing.T) {
	cfg := testConfig()
	cfg.Palette.Fallback = nil
	out, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(out.Palette.Fallback) != 1 || out.Palette.Fallback[0] != "GRASS" {
		t.Fatalf("fallback not defaulted from common tier: %v", out.Palette.Fallback)
	}
}

func TestValidate_FillsDocumentedDefaults(t *testing.T) {
	cfg := testConfig()
	out, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Grid.CommitBatch != 256 {
		t.Fatalf("commit batch not defaulted: %d", out.Grid.CommitBatch)
	}
	if out.Mask.Octaves != 4 || out.Mask.NoiseFrequency != 0.06 ||
		out.Mask.NoiseAmplitude != 0.25 || out.Mask.ShoreSoftness != 0.2 {
		t.Fatalf("mask defaults not filled: %+v", out.Mask)
	}
}

func TestValidate_ClampsNonPositiveWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Palette.Common[1].Weight = 0
	cfg.Palette.Common[2].Weight = -3
	out, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Palette.Common[1].Weight != 1 || out.Palette.Common[2].Weight != 1 {
		t.Fatalf("weights not clamped to 1: %+v", out.Palette.Common)
	}
	// The caller's config must stay untouched.
	if cfg.Palette.Common[2].Weight != -3 {
		t.Fatalf("validate mutated the input config")
	}
}
