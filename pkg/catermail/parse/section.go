package parse

import (
	"regexp"
	"strings"
)

var (
	customerBlockRE = regexp.MustCompile(`(?is)Customer Information(.*?)Item Name`)
	itemsHeaderRE   = regexp.MustCompile(`(?i)Item\s+Name\s+Quantity\s+(?:Qty\s+)?Price`)
	itemsFooterRE   = regexp.MustCompile(`(?i)(?:Subtotal|Tax|Total)\s+\$[\d.,]+`)
	headerEchoRE    = regexp.MustCompile(`(?i)^(quantity\s+qty\s+price|quantity\s+price|qty\s+price)$`)
	footerEchoRE    = regexp.MustCompile(`(?i)^(subtotal|tax|total)\b`)
)

// ExtractCustomerBlock returns the lines between the "Customer Information"
// header and the "Item Name" header. A missing header is a recognized
// format-mismatch outcome and yields nil, not an error.
func ExtractCustomerBlock(text string) []string {
	m := customerBlockRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ExtractItemsBlock returns the item listing that follows the
// "Item Name Quantity Price" header, truncated at the first
// Subtotal/Tax/Total marker. Missing header yields the empty string.
func ExtractItemsBlock(text string) string {
	loc := itemsHeaderRE.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	block := text[loc[1]:]

	if end := itemsFooterRE.FindStringIndex(block); end != nil {
		block = block[:end[0]]
	}
	return strings.TrimSpace(block)
}

// ItemLines splits an items block into cleaned candidate lines, dropping
// residual header echoes and Subtotal/Tax/Total leftovers. Leading spaces
// survive so indented continuation lines stay recognizable.
func ItemLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.ReplaceAll(line, " ", " ")
		line = strings.ReplaceAll(line, "®", "")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if headerEchoRE.MatchString(trimmed) || footerEchoRE.MatchString(trimmed) {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}
