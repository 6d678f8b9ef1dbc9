package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps      = 100
	DefaultWalks      = 100
	DefaultVolatility = 1.0
	DefaultStepSize   = 1.0
	DefaultAddr       = ":8080"
	DefaultMaxSteps   = 100000
	DefaultMaxWalks   = 10000
	DefaultMaxValues  = 10_000_000
)

type Config struct {
	Kind       walk.Kind     `yaml:"kind" json:"kind"`
	Steps      int           `yaml:"steps" json:"steps"`
	Start      float64       `yaml:"start" json:"start"`
	Drift      float64       `yaml:"drift" json:"drift"`
	Volatility float64       `yaml:"volatility" json:"volatility"`
	StepSize   float64       `yaml:"step_size" json:"step_size"`
	Walks      int           `yaml:"walks" json:"walks"`
	Bins       int           `yaml:"bins" json:"bins"`
	Seed       int64         `yaml:"seed" json:"seed"`
	Logging    LoggingConfig `yaml:"logging" json:"-"`
	Server     ServerConfig  `yaml:"server" json:"-"`
}

type LoggingConfig struct {
	// Level is "info", "debug" or "trace".
	Level string `yaml:"level"`
}

// ServerConfig bounds request size. MaxValues caps (steps+1)*walks for
// generated batches and the length of submitted terminal arrays.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	MaxSteps  int    `yaml:"max_steps"`
	MaxWalks  int    `yaml:"max_walks"`
	MaxValues int    `yaml:"max_values"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:       walk.KindGaussian,
		Steps:      DefaultSteps,
		Volatility: DefaultVolatility,
		StepSize:   DefaultStepSize,
		Walks:      DefaultWalks,
		Bins:       stats.DefaultBins,
		Logging:    LoggingConfig{Level: "info"},
		Server: ServerConfig{
			Addr:      DefaultAddr,
			MaxSteps:  DefaultMaxSteps,
			MaxWalks:  DefaultMaxWalks,
			MaxValues: DefaultMaxValues,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Params returns the walk parameters described by the config.
func (c *Config) Params() walk.Params {
	return walk.Params{
		Kind:       c.Kind,
		Steps:      c.Steps,
		Start:      c.Start,
		Drift:      c.Drift,
		Volatility: c.Volatility,
		StepSize:   c.StepSize,
	}
}

// Validate checks the walk parameters, walk count and bin count.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Walks < 1 {
		return &walk.ParamError{Field: "walks", Value: c.Walks, Reason: "must be at least 1"}
	}
	if c.Bins < 1 {
		return &walk.ParamError{Field: "bins", Value: c.Bins, Reason: "must be at least 1"}
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SweepParams lists the names accepted by Set.
var SweepParams = []string{"steps", "start", "drift", "volatility", "step_size", "walks", "bins"}

// Set assigns a numeric parameter by name. Integer parameters reject
// fractional and out-of-range values.
func (c *Config) Set(name string, value float64) error {
	var err error
	switch strings.ToLower(name) {
	case "steps":
		c.Steps, err = toInt("steps", value, c.Steps)
	case "start":
		c.Start = value
	case "drift":
		c.Drift = value
	case "volatility", "vol":
		c.Volatility = value
	case "step_size", "step-size":
		c.StepSize = value
	case "walks":
		c.Walks, err = toInt("walks", value, c.Walks)
	case "bins":
		c.Bins, err = toInt("bins", value, c.Bins)
	default:
		return fmt.Errorf("unknown parameter %q (available: %s)", name, strings.Join(SweepParams, ", "))
	}
	return err
}

// toInt returns cur unchanged alongside the error so a failed Set leaves
// the field as it was.
func toInt(field string, value float64, cur int) (int, error) {
	if math.IsNaN(value) || value != math.Trunc(value) {
		return cur, &walk.ParamError{Field: field, Value: value, Reason: "must be an integer"}
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return cur, &walk.ParamError{Field: field, Value: value, Reason: "out of range"}
	}
	return int(value), nil
}

// Get is the inverse of Set.
func (c *Config) Get(name string) (float64, error) {
	switch strings.ToLower(name) {
	case "steps":
		return float64(c.Steps), nil
	case "start":
		return c.Start, nil
	case "drift":
		return c.Drift, nil
	case "volatility", "vol":
		return c.Volatility, nil
	case "step_size", "step-size":
		return c.StepSize, nil
	case "walks":
		return float64(c.Walks), nil
	case "bins":
		return float64(c.Bins), nil
	}
	return 0, fmt.Errorf("unknown parameter %q (available: %s)", name, strings.Join(SweepParams, ", "))
}
