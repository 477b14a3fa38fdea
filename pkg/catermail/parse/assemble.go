package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	pickupRE   = regexp.MustCompile(`(?i)Pickup Order`)
	dateTimeRE = regexp.MustCompile(`(?i)(?:(\w+)\s+)?(\d{1,2}/\d{1,2}/\d{4}).*?([\d:]+\s*(?:am|pm)?)`)
	clockRE    = regexp.MustCompile(`(?i)(\d+):(\d+)(?:\s*(am|pm))?`)
	deliveryRE = regexp.MustCompile(`(?i)Delivery Address\s*[:\s]*\n\s*([^\n]+(?:\n[^\n]+)*?)(?:\n\s*Customer Information|\n\s*$)`)
	totalRE    = regexp.MustCompile(`(?i)\bTotal\s*\$?([\d.,]+)`)
	starsRE    = regexp.MustCompile(`^\*+`)
)

// Assemble combines the extracted pieces of a normalized order message into
// one Order. Every field degrades independently: a date that fails to parse
// becomes the sentinel, a missing total becomes "$0.00", and a delivery
// order without a readable address gets "N/A". Assemble never fails.
func Assemble(text string, customer CustomerInfo, items Items) Order {
	order := Order{
		OrderType:   "Delivery",
		Date:        Unknown,
		Destination: "N/A",
		Customer:    customer,
		Items:       items,
		Total:       "$0.00",
	}
	if pickupRE.MatchString(text) {
		order.OrderType = "Pickup"
	}

	if m := dateTimeRE.FindStringSubmatch(text); m != nil {
		order.Date = normalizeDate(m[2])
		order.Time = formatTime12h(m[3])
	}

	if order.OrderType == "Delivery" {
		if m := deliveryRE.FindStringSubmatch(text); m != nil {
			dest := cleanField(strings.ReplaceAll(m[1], "\n", " "))
			if dest != "" {
				order.Destination = dest
			}
		}
	}

	if m := totalRE.FindStringSubmatch(text); m != nil {
		order.Total = "$" + m[1]
	}

	return order
}

// normalizeDate re-renders an M/D/YYYY date without zero padding.
func normalizeDate(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return date
	}
	return fmt.Sprintf("%d/%d/%d", month, day, year)
}

// formatTime12h renders a captured clock fragment as a canonical 12-hour
// display string. An unreadable fragment renders as midnight, matching the
// degraded behavior downstream consumers already rely on.
func formatTime12h(clock string) string {
	hours, minutes := 0, 0
	if m := clockRE.FindStringSubmatch(strings.ToLower(clock)); m != nil {
		hours, _ = strconv.Atoi(m[1])
		minutes, _ = strconv.Atoi(m[2])
		switch m[3] {
		case "pm":
			if hours < 12 {
				hours += 12
			}
		case "am":
			if hours == 12 {
				hours = 0
			}
		}
	}
	if hours > 23 {
		hours = 23
	}
	if minutes > 59 {
		minutes = 59
	}
	t := time.Date(2000, 1, 1, hours, minutes, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// cleanField strips leading sentinel stars and collapses whitespace.
func cleanField(s string) string {
	s = starsRE.ReplaceAllString(s, "")
	return strings.TrimSpace(innerSpaceRE.ReplaceAllString(s, " "))
}
