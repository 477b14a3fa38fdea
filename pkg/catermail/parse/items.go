package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Line shapes the source platform emits. Quantity and price sometimes trail
// the name, sometimes wrap to the next line; the rules below are tried in
// priority order per line, first match wins.
var (
	// "25 x Packaged Meal 25 $225.00"
	embeddedQtyRE = regexp.MustCompile(`(?i)^(\d+)\s+x\s+(.*?)\s+\d+\s*(?:\$[\d,.\-]+)?$`)
	// "Chocolate Chunk Cookie 12 $22.68"
	trailingQtyRE = regexp.MustCompile(`^(.*?)\s+(\d+)\s*(?:\$[\d,.\-]+)?$`)
	// "25 $125.00" or bare "25" on its own line
	qtyOnlyRE = regexp.MustCompile(`^(\d+)(?:\s*\$[\d,.\-]+)?$`)
	// "25 $" prefix: a price continuation, never an item
	priceOnlyRE  = regexp.MustCompile(`^\d+\s*\$`)
	hasQtyDollRE = regexp.MustCompile(`\d+\s*\$`)
	indentRE     = regexp.MustCompile(`^\s{2,}`)
)

// Classifier walks the lines of an items block and routes each recovered
// item into one of four buckets: food, drinks, sauces, meal boxes.
type Classifier struct {
	kw  Keywords
	heu Heuristics

	mealComponentRE *regexp.Regexp
	componentSkipRE *regexp.Regexp
	lookaheadStopRE *regexp.Regexp
	drinkPrefixRE   *regexp.Regexp
	unitPrefixRE    *regexp.Regexp
	sauceRepairRE   *regexp.Regexp
}

// NewClassifier compiles a classifier from keyword tables and lookahead
// bounds. Zero-valued heuristics fields fall back to the defaults.
func NewClassifier(kw Keywords, heu Heuristics) *Classifier {
	def := DefaultHeuristics()
	if heu.SameLineLookahead <= 0 {
		heu.SameLineLookahead = def.SameLineLookahead
	}
	if heu.SplitLineLookahead <= 0 {
		heu.SplitLineLookahead = def.SplitLineLookahead
	}
	if heu.MaxConsecutiveNonComponents <= 0 {
		heu.MaxConsecutiveNonComponents = def.MaxConsecutiveNonComponents
	}

	units := strings.Join(quoteAll(kw.Units), "|")
	return &Classifier{
		kw:              kw,
		heu:             heu,
		mealComponentRE: wordListRE(kw.MealComponents),
		componentSkipRE: wordListRE(kw.ComponentSkip),
		lookaheadStopRE: wordListRE(kw.LookaheadStops),
		drinkPrefixRE:   regexp.MustCompile(`(?i)^(?:` + strings.Join(quoteAll(kw.Drinks), "|") + `)`),
		unitPrefixRE:    regexp.MustCompile(`(?i)^\d+\s*(?:` + units + `)\s+`),
		sauceRepairRE:   regexp.MustCompile(`(?i)^(\d+)\s+x\s+(\d+)\s*(` + units + `)\s+(.*)$`),
	}
}

func wordListRE(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return regexp.MustCompile(`$^`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoteAll(words), "|") + `)\b`)
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

// BuildItems classifies item lines into buckets. It never fails: lines no
// rule can make sense of become standalone food items with quantity 1, and
// quantity/price continuation lines already consumed by a preceding item are
// the only lines dropped.
func (c *Classifier) BuildItems(lines []string) Items {
	return c.BuildItemsTraced(lines, NopLogger)
}

// BuildItemsTraced is BuildItems with parsing traces sent to log.
func (c *Classifier) BuildItemsTraced(lines []string, log Logger) Items {
	b := &itemBuilder{cls: c, cur: newCursor(lines), log: log}
	for !b.cur.done() {
		if b.cur.isConsumed(b.cur.pos) {
			log.Tracef("line %d consumed as meal component, skipping: %q", b.cur.pos, b.cur.current())
			b.cur.advance()
			continue
		}
		line := b.cur.current()
		for _, r := range rules {
			if r.apply(b, line) {
				log.Tracef("line %d matched rule %s: %q", b.cur.pos, r.name, line)
				break
			}
		}
		b.cur.advance()
	}
	return b.items
}

type itemBuilder struct {
	cls   *Classifier
	cur   *cursor
	items Items
	log   Logger
}

type rule struct {
	name  string
	apply func(b *itemBuilder, line string) bool
}

// Evaluated top to bottom; the first rule that handles the line wins. The
// last rule accepts anything that is not a bare quantity/price line, so every
// item line lands in exactly one bucket.
var rules = []rule{
	{"embedded-qty", (*itemBuilder).embeddedQty},
	{"trailing-qty", (*itemBuilder).trailingQty},
	{"indented-continuation", (*itemBuilder).indentedContinuation},
	{"split-line", (*itemBuilder).splitLine},
	{"fallback", (*itemBuilder).fallback},
}

// embeddedQty handles "<qty> x <name> <qty> [$<price>]" lines. Lines that
// open with a unit size such as "8oz Sauce" are left for later rules so the
// size is not misread as a quantity.
func (b *itemBuilder) embeddedQty(line string) bool {
	if b.cls.unitPrefixRE.MatchString(line) {
		return false
	}
	m := embeddedQtyRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	qty := parseQty(m[1])
	name := strings.TrimSpace(m[2])
	b.finishItem(name, qty, b.cur.pos+1, sameLinePolicy(b.cls.heu))
	return true
}

// trailingQty handles "<name> <qty> [$<price>]" on a single line.
func (b *itemBuilder) trailingQty(line string) bool {
	m := trailingQtyRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return false
	}
	b.finishItem(name, parseQty(m[2]), b.cur.pos+1, sameLinePolicy(b.cls.heu))
	return true
}

// indentedContinuation drops lines indented two or more spaces: they belong
// to the preceding composite and were either consumed by its expansion or are
// stray continuations, never standalone items.
func (b *itemBuilder) indentedContinuation(line string) bool {
	return indentRE.MatchString(line)
}

// splitLine handles a bare name whose quantity and price wrapped to the next
// line. The quantity line is consumed so it is never re-processed.
func (b *itemBuilder) splitLine(line string) bool {
	if hasQtyDollRE.MatchString(line) {
		return false
	}
	next, ok := b.cur.peek(b.cur.pos + 1)
	if !ok {
		return false
	}
	m := qtyOnlyRE.FindStringSubmatch(strings.TrimSpace(next))
	if m == nil {
		return false
	}
	b.cur.consume(b.cur.pos + 1)
	b.finishItem(strings.TrimSpace(line), parseQty(m[1]), b.cur.pos+2, splitLinePolicy(b.cls.heu))
	return true
}

// fallback pushes any remaining line as a standalone item with quantity 1.
// Bare quantity/price lines are continuations already accounted for and are
// the only lines dropped.
func (b *itemBuilder) fallback(line string) bool {
	trimmed := strings.TrimSpace(line)
	if qtyOnlyRE.MatchString(trimmed) {
		b.log.Tracef("line %d is a quantity/price continuation, dropping: %q", b.cur.pos, line)
		return true
	}
	b.push(trimmed, 1, false)
	return true
}

// lookaheadPolicy captures how far a meal-box component scan may run and
// whether a component's own quantity gates acceptance. Meal boxes whose
// quantity wrapped to the next line come from longer, messier orders, so
// their scan runs further but treats a quantity other than 1 as proof the
// line is a separate order item.
type lookaheadPolicy struct {
	maxScan int
	qtyGate bool
}

func sameLinePolicy(h Heuristics) lookaheadPolicy {
	return lookaheadPolicy{maxScan: h.SameLineLookahead}
}

func splitLinePolicy(h Heuristics) lookaheadPolicy {
	return lookaheadPolicy{maxScan: h.SplitLineLookahead, qtyGate: true}
}

// finishItem runs meal-box expansion for composite names and routes the
// result into a bucket.
func (b *itemBuilder) finishItem(name string, qty, lookFrom int, pol lookaheadPolicy) {
	if !containsAnyFold(name, b.cls.kw.MealBox) {
		b.push(name, qty, false)
		return
	}
	if composite, ok := b.expandMealBox(name, lookFrom, pol); ok {
		b.push(composite, qty, true)
		return
	}
	b.push(name, qty, true)
}

// expandMealBox collects the component lines that follow a meal-box entry.
// Indented lines win outright; otherwise a bounded forward scan accepts
// whitelisted component names, skips sauces and dressings without consuming
// them, and stops at another tray/meal/gallon item, at a component whose own
// quantity is not 1, or after too many consecutive non-component lines.
func (b *itemBuilder) expandMealBox(base string, start int, pol lookaheadPolicy) (string, bool) {
	var components []string

	j := start
	for j < len(b.cur.lines) && indentRE.MatchString(b.cur.lines[j]) {
		sub := strings.TrimSpace(b.cur.lines[j])
		if sub != "" && !priceOnlyRE.MatchString(sub) {
			components = append(components, sub)
			b.cur.consume(j)
			b.log.Tracef("meal box %q: indented component %q", base, sub)
		}
		j++
	}

	if len(components) == 0 {
		components = b.scanComponents(base, start, pol)
	}

	if len(components) == 0 {
		return "", false
	}
	return base + " w/ " + strings.Join(components, ", "), true
}

func (b *itemBuilder) scanComponents(base string, start int, pol lookaheadPolicy) []string {
	var components []string
	scanned := 0
	nonComponents := 0

	for j := start; j < len(b.cur.lines); j++ {
		if scanned >= pol.maxScan || nonComponents >= b.cls.heu.MaxConsecutiveNonComponents {
			break
		}
		line := strings.TrimSpace(b.cur.lines[j])
		if line == "" || priceOnlyRE.MatchString(line) {
			continue
		}

		name, qty := extractNameQty(line)
		if b.cls.componentSkipRE.MatchString(name) {
			// Sauces ride along between components; skip without
			// consuming and without counting toward the stop bound.
			nonComponents = 0
			continue
		}
		if b.cls.lookaheadStopRE.MatchString(name) && !strings.EqualFold(name, base) {
			b.log.Tracef("meal box %q: lookahead stopped at %q", base, name)
			break
		}
		if pol.qtyGate && qty > 0 && qty != 1 {
			// A real quantity other than 1 is a separate order line.
			b.log.Tracef("meal box %q: %q has qty %d, stopping", base, name, qty)
			break
		}

		if b.cls.mealComponentRE.MatchString(name) {
			components = append(components, name)
			b.cur.consume(j)
			nonComponents = 0
			b.log.Tracef("meal box %q: component %q (line %d)", base, name, j)
		} else {
			nonComponents++
		}
		scanned++
	}
	return components
}

// extractNameQty pulls the bare item name and, when present, its own
// quantity out of a candidate component line. qty is 0 when absent.
func extractNameQty(line string) (string, int) {
	if m := embeddedQtyRE.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), parseQty(m[1])
	}
	if m := trailingQtyRE.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), parseQty(m[2])
	}
	return line, 0
}

// push routes a finalized item into its bucket.
func (b *itemBuilder) push(name string, qty int, mealBox bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if qty < 1 {
		qty = 1
	}
	b.log.Tracef("pushing item %q qty %d (meal box: %v)", name, qty, mealBox)

	switch {
	case mealBox || containsAnyFold(name, b.cls.kw.MealBox):
		b.items.MealBoxes = append(b.items.MealBoxes, Item{Name: name, Qty: qty})
	case containsAnyFold(name, b.cls.kw.Sauces) && !containsAnyFold(name, b.cls.kw.SauceExclude):
		name, qty = b.repairSauceName(name, qty)
		b.items.Sauces = append(b.items.Sauces, Item{Name: name, Qty: qty})
	case containsAnyFold(name, b.cls.kw.DrinkContains) || b.cls.drinkPrefixRE.MatchString(name):
		b.items.Drinks = append(b.items.Drinks, Item{Name: name, Qty: qty})
	default:
		b.items.Food = append(b.items.Food, Item{Name: name, Qty: qty})
	}
}

// repairSauceName rewrites sauce names mangled into "N x M<unit> <name>"
// back to "M<unit> <name>" with N as the quantity.
func (b *itemBuilder) repairSauceName(name string, qty int) (string, int) {
	m := b.cls.sauceRepairRE.FindStringSubmatch(name)
	if m == nil {
		return name, qty
	}
	if n := parseQty(m[1]); n > 0 {
		qty = n
	}
	return m[2] + m[3] + " " + strings.TrimSpace(m[4]), qty
}

func parseQty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func containsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
