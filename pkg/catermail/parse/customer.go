package parse

import (
	"regexp"
	"strings"
)

var (
	emailLineRE = regexp.MustCompile(`(?i)^[\w.%+-]+@[\w.-]+\.[a-z]{2,}$`)
	nonDigitRE  = regexp.MustCompile(`\D`)
)

// ParseCustomerBlock recovers customer fields from the lines of the customer
// block in a single forward pass. A line reading "special instructions"
// switches the scan into collection mode; everything after it is appended to
// SpecialInstructions. Fields that never match keep sentinel defaults.
func ParseCustomerBlock(lines []string) CustomerInfo {
	info := CustomerInfo{
		Name:       Unknown,
		Phone:      Unknown,
		Email:      Unknown,
		GuestCount: "N/A",
		PaperGoods: "No",
	}

	nameSet := false
	inInstructions := false
	for _, line := range lines {
		lower := strings.ToLower(line)

		if lower == "special instructions" {
			inInstructions = true
			continue
		}
		if inInstructions {
			if info.SpecialInstructions != "" {
				info.SpecialInstructions += "\n"
			}
			info.SpecialInstructions += line
			continue
		}

		switch {
		case strings.HasPrefix(lower, "guest count"):
			info.GuestCount = afterColon(line, "N/A")
		case strings.HasPrefix(lower, "paper goods"):
			info.PaperGoods = afterColon(line, "No")
		case emailLineRE.MatchString(line):
			info.Email = line
		case isPhoneLine(line):
			digits := nonDigitRE.ReplaceAllString(line, "")
			info.Phone = "+" + digits
		case !nameSet && !strings.Contains(lower, "customer information"):
			// First qualifying line wins; later name-like lines are ignored.
			info.Name = line
			nameSet = true
		}
	}

	return info
}

func afterColon(line, fallback string) string {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return fallback
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return fallback
	}
	return rest
}

// isPhoneLine reports whether a line reduces to 10 or more digits once
// everything non-numeric is stripped.
func isPhoneLine(line string) bool {
	digits := nonDigitRE.ReplaceAllString(line, "")
	return len(digits) >= 10
}
