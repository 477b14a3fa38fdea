package parse

// cursor is the scan position over an items block. The meal-box expander and
// the outer classification loop share one cursor; lines consumed during
// lookahead are recorded here so the outer loop never re-processes them.
type cursor struct {
	lines    []string
	pos      int
	consumed map[int]bool
}

func newCursor(lines []string) *cursor {
	return &cursor{lines: lines, consumed: make(map[int]bool)}
}

func (c *cursor) done() bool { return c.pos >= len(c.lines) }

func (c *cursor) current() string { return c.lines[c.pos] }

func (c *cursor) advance() { c.pos++ }

func (c *cursor) consume(i int) { c.consumed[i] = true }

func (c *cursor) isConsumed(i int) bool { return c.consumed[i] }

// peek returns the line at index i, or false when i is out of range or the
// line was already consumed.
func (c *cursor) peek(i int) (string, bool) {
	if i < 0 || i >= len(c.lines) || c.consumed[i] {
		return "", false
	}
	return c.lines[i], true
}
