// Package config loads settings for the kvfifo command line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Log   Log   `json:"log" yaml:"log"`
	Queue Queue `json:"queue" yaml:"queue"`
	Chart Chart `json:"chart" yaml:"chart"`
}

// Log selects the level and format of the stderr logger.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Queue holds defaults for queues created by the script interpreter.
type Queue struct {
	// Capacity preallocates storage for this many entries.
	Capacity int `json:"capacity" yaml:"capacity"`
}

// Chart configures the hit list.
type Chart struct {
	// Top is the number of positions a summary lists.
	Top int `json:"top" yaml:"top"`
	// MaxID is the largest maximum a NEW line may announce.
	MaxID uint32 `json:"maxID" yaml:"maxID"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Log:   Log{Level: "info", Format: "text"},
		Chart: Chart{Top: 7, MaxID: 99999999},
	}
}

// Load reads configuration from a YAML or JSON file (by extension). If path
// is empty, returns defaults. Fields missing from the file keep their
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		err = yaml.Unmarshal(b, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings no tool can work with.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := parseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue.capacity must not be negative, got %d", c.Queue.Capacity)
	}
	if c.Chart.Top <= 0 {
		return fmt.Errorf("chart.top must be positive, got %d", c.Chart.Top)
	}
	if c.Chart.MaxID == 0 {
		return fmt.Errorf("chart.maxID must be positive")
	}
	return nil
}
