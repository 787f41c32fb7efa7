package utils

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/torus-life/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the configuration for the simulation and its runner.
// JSON files give durations in nanoseconds, YAML files accept "400ms" style.
type Config struct {
	SideLength        int           `json:"side_length" yaml:"side_length"`
	InitialPopulation *int          `json:"initial_population,omitempty" yaml:"initial_population,omitempty"`
	Seed              uint64        `json:"seed" yaml:"seed"`
	AutoStart         bool          `json:"auto_start" yaml:"auto_start"`
	InitialDelay      time.Duration `json:"initial_delay" yaml:"initial_delay"`
	TickInterval      time.Duration `json:"tick_interval" yaml:"tick_interval"`
	UseParallel       bool          `json:"use_parallel" yaml:"use_parallel"`
	UseMemoryPool     bool          `json:"use_memory_pool" yaml:"use_memory_pool"`

	MaxGenerations      int    `json:"max_generations" yaml:"max_generations"`
	StagnationThreshold int    `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	StopOnExtinction    bool   `json:"stop_on_extinction" yaml:"stop_on_extinction"`
	Render              bool   `json:"render" yaml:"render"`
	LogLevel            string `json:"log_level" yaml:"log_level"`
	TelemetryPath       string `json:"telemetry_path" yaml:"telemetry_path"`
}

// DefaultConfig returns the embedded defaults
func DefaultConfig() Config {
	var config Config
	if err := yaml.Unmarshal(defaultsYAML, &config); err != nil {
		panic(errors.Wrap(err, "[DefaultConfig] failed to parse embedded defaults"))
	}
	return config
}

// LoadConfig overlays a YAML or JSON file on the defaults. Fields missing
// from the file keep their default value.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.Unmarshal(data, &config)
	default:
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Population returns the number of seeding draws, 2 x side when unset
func (c Config) Population() int {
	if c.InitialPopulation == nil {
		return model.DefaultPopulation(c.SideLength)
	}
	return *c.InitialPopulation
}

// Validate reports the first setting that makes the board unbuildable
func (c Config) Validate() error {
	if c.SideLength < 1 {
		return errors.Wrapf(model.ErrInvalidConfiguration, "[Validate] side_length must be >= 1, got %d", c.SideLength)
	}
	if c.Population() < 0 {
		return errors.Wrapf(model.ErrInvalidConfiguration, "[Validate] initial_population must be >= 0, got %d", c.Population())
	}
	if c.InitialDelay < 0 {
		return errors.Wrapf(model.ErrInvalidConfiguration, "[Validate] initial_delay must be >= 0, got %s", c.InitialDelay)
	}
	if c.TickInterval < 0 {
		return errors.Wrapf(model.ErrInvalidConfiguration, "[Validate] tick_interval must be >= 0, got %s", c.TickInterval)
	}
	return nil
}

// SlogLevel parses LogLevel, falling back to info
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WriteYAML saves the configuration next to a run's telemetry
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[WriteYAML] failed to marshal config")
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[WriteYAML] failed to write file: %+v", path)
	}
	return nil
}
