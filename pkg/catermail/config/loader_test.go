package config

import (
	"testing"
)

func TestLoaderDefaults(t *testing.T) {
	l := &Loader{}
	comps, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comps.Classifier == nil || comps.Parser == nil {
		t.Fatalf("components = %+v", comps)
	}

	items := comps.Classifier.BuildItems([]string{"Gallon Freshly-Brewed Sweet Tea 2 $14.00"})
	if len(items.Drinks) != 1 {
		t.Errorf("default keyword tables not applied: %+v", items)
	}
}

func TestLoaderOverlay(t *testing.T) {
	path := writeConfig(t, `
keywords:
  drink_contains: [carafe]
`)
	l := &Loader{ConfigPath: path}
	comps, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	items := comps.Classifier.BuildItems([]string{
		"Carafe of Iced Tea 2 $14.00",
		"Gallon Fruit Punch 1 $12.00",
	})
	if len(items.Drinks) != 1 || items.Drinks[0].Name != "Carafe of Iced Tea" {
		t.Errorf("drinks = %v; overlay must replace the contains list", items.Drinks)
	}
	// The gallon entry was replaced away, so the punch is plain food now.
	if len(items.Food) != 1 {
		t.Errorf("food = %v", items.Food)
	}
}

func TestBuildKeepsDefaultsForEmptyLists(t *testing.T) {
	comps := Build(&Config{})

	items := comps.Classifier.BuildItems([]string{"Garlic Herb Ranch Sauce 4 $10.00"})
	if len(items.Sauces) != 1 {
		t.Errorf("sauces = %v; empty config lists must keep defaults", items.Sauces)
	}
}

func TestLoaderPropagatesConfigError(t *testing.T) {
	path := writeConfig(t, "heuristics:\n  same_line_lookahead: -2\n")
	l := &Loader{ConfigPath: path}
	if _, err := l.Load(); err == nil {
		t.Error("expected error from invalid config")
	}
}
