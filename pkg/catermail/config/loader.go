package config

import (
	"github.com/cateringops/catermail/pkg/catermail/parse"
)

// Components holds parser components built from configuration.
type Components struct {
	Classifier *parse.Classifier
	Parser     *parse.Parser
	Poller     Poller
}

// Loader builds parser components from an optional config file.
type Loader struct {
	ConfigPath string
}

// Load reads the config file (or uses defaults) and returns initialized
// components.
func (l *Loader) Load() (*Components, error) {
	cfg, err := Load(l.ConfigPath)
	if err != nil {
		return nil, err
	}
	return Build(cfg), nil
}

// Build constructs parser components from an already-loaded config.
func Build(cfg *Config) *Components {
	kw := parse.DefaultKeywords()
	overlay(&kw.MealBox, cfg.Keywords.MealBox)
	overlay(&kw.MealComponents, cfg.Keywords.MealComponents)
	overlay(&kw.ComponentSkip, cfg.Keywords.ComponentSkip)
	overlay(&kw.LookaheadStops, cfg.Keywords.LookaheadStops)
	overlay(&kw.Sauces, cfg.Keywords.Sauces)
	overlay(&kw.SauceExclude, cfg.Keywords.SauceExclude)
	overlay(&kw.Drinks, cfg.Keywords.Drinks)
	overlay(&kw.DrinkContains, cfg.Keywords.DrinkContains)
	overlay(&kw.Units, cfg.Keywords.Units)

	heu := parse.Heuristics{
		SameLineLookahead:           cfg.Heuristics.SameLineLookahead,
		SplitLineLookahead:          cfg.Heuristics.SplitLineLookahead,
		MaxConsecutiveNonComponents: cfg.Heuristics.MaxConsecutiveNonComponents,
	}

	classifier := parse.NewClassifier(kw, heu)
	return &Components{
		Classifier: classifier,
		Parser:     parse.NewParser(classifier),
		Poller:     cfg.Poller,
	}
}

// overlay replaces dst when the config supplied a non-empty list.
func overlay(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
