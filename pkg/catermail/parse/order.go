package parse

// Sentinel placeholder written when a field could not be extracted.
// Callers must treat it as "unknown", not as a real value.
const Unknown = "*"

// CustomerInfo holds the fields recovered from the customer block.
type CustomerInfo struct {
	Name                string
	Phone               string
	Email               string
	GuestCount          string
	PaperGoods          string
	SpecialInstructions string
}

// Item is a single parsed order line.
type Item struct {
	Name string
	Qty  int
}

// Items is the bucketed result of classifying an items block.
// Meal boxes carry composite names of the form
// "<base> w/ <component1>, <component2>" when sub-components were found.
type Items struct {
	Food      []Item
	Drinks    []Item
	Sauces    []Item
	MealBoxes []Item
}

// Len returns the total item count across all buckets.
func (it Items) Len() int {
	return len(it.Food) + len(it.Drinks) + len(it.Sauces) + len(it.MealBoxes)
}

// Order is the structured result of parsing one order message.
// Fields the parser could not recover hold sentinel defaults; an Order is
// always produced, however degraded.
type Order struct {
	OrderType   string // "Pickup" or "Delivery"
	Date        string // "M/D/YYYY", or Unknown
	Time        string // "3:04 PM", or empty
	Destination string // delivery orders only, "N/A" when absent
	Customer    CustomerInfo
	Items       Items
	Total       string // "$X.XX"
}
