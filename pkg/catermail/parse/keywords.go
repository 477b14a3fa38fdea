package parse

// Keywords holds the category word lists the classifier routes items with.
// They are data, not code, so deployments can extend them (see the config
// package) without touching classifier logic.
type Keywords struct {
	// MealBox marks an item as a composite meal box when any entry appears
	// anywhere in its name.
	MealBox []string
	// MealComponents whitelists names accepted as meal-box sub-components
	// during lookahead, matched on word boundaries.
	MealComponents []string
	// ComponentSkip names lines the lookahead steps over without consuming
	// them or counting them against the stop condition.
	ComponentSkip []string
	// LookaheadStops ends component lookahead when matched.
	LookaheadStops []string
	// Sauces routes an item to the sauce bucket on substring match,
	// unless a SauceExclude entry also matches.
	Sauces       []string
	SauceExclude []string
	// Drinks routes an item to the drink bucket when its name starts with
	// an entry; DrinkContains routes on substring match.
	Drinks        []string
	DrinkContains []string
	// Units are size prefixes ("8oz", "1gal") that must not be mistaken
	// for quantities.
	Units []string
}

// DefaultKeywords returns the word lists tuned against the source
// platform's order emails.
func DefaultKeywords() Keywords {
	return Keywords{
		MealBox: []string{"meal", "box", "boxed", "package", "packaged"},
		MealComponents: []string{
			"nugget", "nuggets", "sandwich", "spicy", "deluxe", "grilled",
			"fried", "cool wrap", "kale", "chip", "chips", "cookie", "cookies",
			"brownie", "brownies", "fruit cup", "side salad", "pickle",
		},
		ComponentSkip:  []string{"sauce", "dressing"},
		LookaheadStops: []string{"tray", "meal", "box", "boxed", "package", "packaged", "gallon"},
		Sauces:         []string{"sauce", "dressing", "ketchup", "mayo", "honey", "jam"},
		SauceExclude:   []string{"gallon", "chips"},
		Drinks:         []string{"tea", "lemonade", "drink", "soda", "water", "juice", "milk", "coffee"},
		DrinkContains:  []string{"gallon"},
		Units:          []string{"oz", "lb", "lbs", "g", "kg", "ml", "l", "qt", "gal", "pt", "cup"},
	}
}

// Heuristics bounds the meal-box component lookahead. The defaults were
// tuned empirically against observed order emails; treat them as tunable,
// not contractual.
type Heuristics struct {
	// SameLineLookahead bounds the scan when the meal box carried its
	// quantity on its own line.
	SameLineLookahead int
	// SplitLineLookahead bounds the scan when the quantity wrapped to the
	// following line; these orders run longer in practice.
	SplitLineLookahead int
	// MaxConsecutiveNonComponents stops the scan after this many
	// non-component lines in a row.
	MaxConsecutiveNonComponents int
}

// DefaultHeuristics returns the lookahead bounds used in production.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		SameLineLookahead:           4,
		SplitLineLookahead:          10,
		MaxConsecutiveNonComponents: 2,
	}
}
