package parse

import (
	"regexp"
	"strings"
)

var (
	unicodeSpaceRE = regexp.MustCompile(`[\x{00A0}\x{2000}-\x{200F}\x{2028}\x{2029}]`)
	unsafeCharRE   = regexp.MustCompile(`[^\w\s@.,!?:;/'"()$%&*-]`)
	innerSpaceRE   = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw email text into canonical line-oriented form:
// line endings become LF, tabs and non-breaking spaces become plain spaces,
// characters outside a safe printable whitelist are dropped, and every line
// is trimmed with internal whitespace collapsed. Empty lines are removed.
// Never fails; empty input yields an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = unicodeSpaceRE.ReplaceAllString(text, " ")
	text = unsafeCharRE.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(innerSpaceRE.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
