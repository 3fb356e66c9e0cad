// Package config provides configuration loading and access for the
// development and run pipelines.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all pipeline configuration parameters.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Develop DevelopConfig `yaml:"develop"`
	Engine  EngineConfig  `yaml:"engine"`
	Run     RunConfig     `yaml:"run"`
	Batch   BatchConfig   `yaml:"batch"`
	Genome  GenomeConfig  `yaml:"genome"`
	Storage StorageConfig `yaml:"storage"`
	Output  OutputConfig  `yaml:"output"`
}

// GridConfig holds the development substrate parameters. The phenotypic
// factor count is not configured here: the dispatch profile is
// authoritative for it.
type GridConfig struct {
	Rows                 int  `yaml:"rows"`
	Columns              int  `yaml:"columns"`
	Regulating           int  `yaml:"regulating"`
	DefaultConcentration int  `yaml:"default_concentration"`
	Threshold            int  `yaml:"threshold"`
	DiffuseRatio         int  `yaml:"diffuse_ratio"`
	DecayStep            int  `yaml:"decay_step"`
	DecayEnabled         bool `yaml:"decay_enabled"`
}

// DevelopConfig holds growth parameters.
type DevelopConfig struct {
	Profile string  `yaml:"profile"` // dispatch profile name
	Horizon int     `yaml:"horizon"` // developmental ticks
	Weight  float64 `yaml:"weight"`  // initial synapse weight
	Delay   int     `yaml:"delay"`   // initial synapse delay
}

// EngineConfig holds spiking runtime parameters.
type EngineConfig struct {
	Interval       int  `yaml:"interval"` // timestamp spacing per sensor channel
	Plastic        bool `yaml:"plastic"`
	Check          bool `yaml:"check"` // validate invariants after every frame
	InputCapacity  int  `yaml:"input_capacity"`
	OutputCapacity int  `yaml:"output_capacity"`
}

// RunConfig holds closed-loop run parameters.
type RunConfig struct {
	Environment string `yaml:"environment"` // sensor-frame source name
	Codec       string `yaml:"codec"`       // frame translation name
	Cycles      int    `yaml:"cycles"`
}

// BatchConfig holds multi-seed development parameters.
type BatchConfig struct {
	Seeds   int    `yaml:"seeds"`   // number of genomes to develop
	Seed    uint64 `yaml:"seed"`    // base seed; genome i uses seed+i
	Workers int    `yaml:"workers"` // concurrent development sessions
}

// GenomeConfig holds genome generation parameters.
type GenomeConfig struct {
	Size int `yaml:"size"` // generated genome length in bytes
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Kind string `yaml:"kind"` // "memory" or "sqlite"
	Path string `yaml:"path"` // sqlite database file
}

// OutputConfig holds artifact export parameters.
type OutputConfig struct {
	Dir string `yaml:"dir"` // CSV/JSON artifact directory, empty disables
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct: only fields present in the
		// file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric ranges the config owns. Component names
// (profile, environment, codec) are validated at resolution time.
func (c *Config) Validate() error {
	if c.Grid.Rows < 1 || c.Grid.Columns < 1 {
		return fmt.Errorf("config: grid must be at least 1x1, got %dx%d", c.Grid.Rows, c.Grid.Columns)
	}
	if c.Grid.Regulating < 0 {
		return fmt.Errorf("config: regulating factor count must not be negative, got %d", c.Grid.Regulating)
	}
	if c.Grid.DiffuseRatio < 1 {
		return fmt.Errorf("config: diffuse ratio must be positive, got %d", c.Grid.DiffuseRatio)
	}
	if c.Develop.Horizon < 1 {
		return fmt.Errorf("config: development horizon must be positive, got %d", c.Develop.Horizon)
	}
	if c.Engine.Interval < 1 || c.Engine.Interval > 65535 {
		return fmt.Errorf("config: engine interval must fit a 16-bit timestamp, got %d", c.Engine.Interval)
	}
	if c.Run.Cycles < 1 {
		return fmt.Errorf("config: run cycles must be positive, got %d", c.Run.Cycles)
	}
	if c.Batch.Seeds < 1 {
		return fmt.Errorf("config: batch seed count must be positive, got %d", c.Batch.Seeds)
	}
	if c.Genome.Size < 1 {
		return fmt.Errorf("config: genome size must be positive, got %d", c.Genome.Size)
	}
	switch c.Storage.Kind {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("config: unsupported storage kind: %s", c.Storage.Kind)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
