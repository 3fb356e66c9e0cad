package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Grid.Rows != 5 || cfg.Grid.Columns != 5 {
		t.Fatalf("unexpected default grid: %+v", cfg.Grid)
	}
	if cfg.Grid.Threshold != 75 || cfg.Grid.DiffuseRatio != 8 || cfg.Grid.DecayEnabled {
		t.Fatalf("unexpected default grid dynamics: %+v", cfg.Grid)
	}
	if cfg.Develop.Profile != "standard" || cfg.Develop.Horizon != 1000 {
		t.Fatalf("unexpected default develop settings: %+v", cfg.Develop)
	}
	if cfg.Develop.Weight != 6.0 || cfg.Develop.Delay != 1 {
		t.Fatalf("unexpected default synapse settings: %+v", cfg.Develop)
	}
	if cfg.Run.Environment != "steady" || cfg.Run.Codec != "bucketed" || cfg.Run.Cycles != 1000 {
		t.Fatalf("unexpected default run settings: %+v", cfg.Run)
	}
	if cfg.Storage.Kind != "memory" {
		t.Fatalf("unexpected default storage: %+v", cfg.Storage)
	}
	if cfg.Batch.Seeds != 10 || cfg.Batch.Seed != 1 {
		t.Fatalf("unexpected default batch settings: %+v", cfg.Batch)
	}
	if cfg.Genome.Size != 10000 {
		t.Fatalf("unexpected default genome size: %d", cfg.Genome.Size)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := "grid:\n  threshold: 60\nstorage:\n  kind: sqlite\n  path: test.db\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load with override: %v", err)
	}
	if cfg.Grid.Threshold != 60 {
		t.Fatalf("override not applied: %+v", cfg.Grid)
	}
	if cfg.Grid.Rows != 5 || cfg.Grid.DiffuseRatio != 8 {
		t.Fatalf("defaults lost under partial override: %+v", cfg.Grid)
	}
	if cfg.Storage.Kind != "sqlite" || cfg.Storage.Path != "test.db" {
		t.Fatalf("storage override not applied: %+v", cfg.Storage)
	}
	if cfg.Develop.Horizon != 1000 {
		t.Fatalf("unrelated section changed: %+v", cfg.Develop)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero rows", func(c *Config) { c.Grid.Rows = 0 }, "grid"},
		{"zero diffuse ratio", func(c *Config) { c.Grid.DiffuseRatio = 0 }, "diffuse"},
		{"zero horizon", func(c *Config) { c.Develop.Horizon = 0 }, "horizon"},
		{"oversized interval", func(c *Config) { c.Engine.Interval = 70000 }, "interval"},
		{"zero cycles", func(c *Config) { c.Run.Cycles = 0 }, "cycles"},
		{"zero seeds", func(c *Config) { c.Batch.Seeds = 0 }, "seed"},
		{"bad storage kind", func(c *Config) { c.Storage.Kind = "postgres" }, "storage"},
	}
	for _, tc := range cases {
		cfg := *base
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Grid.Threshold = 80
	cfg.Output.Dir = "artifacts"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload written config: %v", err)
	}
	if loaded.Grid.Threshold != 80 || loaded.Output.Dir != "artifacts" {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
}
