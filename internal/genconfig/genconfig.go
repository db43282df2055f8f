// Package genconfig loads generation configs from yaml files and validates
// them against the JSON Schemas shipped under schemas/.
package genconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"islandforge/internal/archipelago"
	"islandforge/internal/island"
)

// LoadIsland reads a single-island config. When schemaDir is non-empty the
// raw document is validated against island_config.schema.json first, so
// malformed files fail with a schema path instead of a zero-value struct.
func LoadIsland(path, schemaDir string) (island.Config, error) {
	var cfg island.Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("genconfig: %w", err)
	}
	if schemaDir != "" {
		if err := validate(raw, filepath.Join(schemaDir, "island_config.schema.json")); err != nil {
			return cfg, err
		}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("genconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadArchipelago reads an archipelago config, optionally schema-validated.
func LoadArchipelago(path, schemaDir string) (archipelago.Config, error) {
	var cfg archipelago.Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("genconfig: %w", err)
	}
	if schemaDir != "" {
		if err := validate(raw, filepath.Join(schemaDir, "archipelago_config.schema.json")); err != nil {
			return cfg, err
		}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("genconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// Digest hashes the raw config file so logs and the run index can tie a
// run to the exact tuning it was generated with.
func Digest(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("genconfig: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// validate runs the yaml document through the compiled schema. The
// document is round-tripped through encoding/json because the validator
// expects json-decoded value types.
func validate(raw []byte, schemaPath string) error {
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("genconfig: compile %s: %w", schemaPath, err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("genconfig: %w", err)
	}
	jb, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("genconfig: %w", err)
	}
	if err := json.Unmarshal(jb, &doc); err != nil {
		return fmt.Errorf("genconfig: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("genconfig: schema: %w", err)
	}
	return nil
}
