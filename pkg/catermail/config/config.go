package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cateringops/catermail/pkg/catermail/internalerr"
)

// Config is the full catermail configuration file.
type Config struct {
	Keywords   Keywords   `yaml:"keywords"`
	Heuristics Heuristics `yaml:"heuristics"`
	Poller     Poller     `yaml:"poller"`
}

// Keywords holds the classifier word tables. Any list left empty falls back
// to the compiled-in defaults.
type Keywords struct {
	MealBox        []string `yaml:"meal_box"`
	MealComponents []string `yaml:"meal_components"`
	ComponentSkip  []string `yaml:"component_skip"`
	LookaheadStops []string `yaml:"lookahead_stops"`
	Sauces         []string `yaml:"sauces"`
	SauceExclude   []string `yaml:"sauce_exclude"`
	Drinks         []string `yaml:"drinks"`
	DrinkContains  []string `yaml:"drink_contains"`
	Units          []string `yaml:"units"`
}

// Heuristics holds the meal-box lookahead tunables.
type Heuristics struct {
	SameLineLookahead           int `yaml:"same_line_lookahead"`
	SplitLineLookahead          int `yaml:"split_line_lookahead"`
	MaxConsecutiveNonComponents int `yaml:"max_consecutive_non_components"`
}

// Poller configures the background ingestion loop.
type Poller struct {
	IntervalMinutes int    `yaml:"interval_minutes"`
	SubjectFilter   string `yaml:"subject_filter"`
}

// Interval returns the polling interval as a duration, defaulting to 5
// minutes.
func (p Poller) Interval() time.Duration {
	if p.IntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// Load reads a YAML config file. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Heuristics.SameLineLookahead < 0 ||
		c.Heuristics.SplitLineLookahead < 0 ||
		c.Heuristics.MaxConsecutiveNonComponents < 0 {
		return fmt.Errorf("%w: lookahead bounds must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Poller.IntervalMinutes < 0 {
		return fmt.Errorf("%w: poller interval must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}
