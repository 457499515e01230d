package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSamples = 100
	DefaultDtSecs  = 3600.0
)

// Config describes one simulation scenario. Params and Init are name-keyed
// the way model constructors expect them; missing required keys fail at
// model construction.
type Config struct {
	Model      string             `yaml:"model"`
	Integrator string             `yaml:"integrator"`
	Samples    int                `yaml:"samples"`
	DtSecs     float64            `yaml:"dt_secs"`
	Start      string             `yaml:"start,omitempty"`
	Params     map[string]float64 `yaml:"params"`
	Init       map[string]float64 `yaml:"init"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "sir",
		Integrator: "euler",
		Samples:    DefaultSamples,
		DtSecs:     DefaultDtSecs,
		Params:     map[string]float64{"beta": 0.0002, "gamma": 0.0001, "N": 1e7},
		Init:       map[string]float64{"S": 1e7 - 1, "I": 1, "R": 0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StartTime parses the optional start label. An empty value means the Unix
// epoch, matching the simulator default.
func (c *Config) StartTime() (time.Time, error) {
	if c.Start == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q: %w", c.Start, err)
	}
	return ts, nil
}
