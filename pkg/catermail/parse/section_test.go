package parse

import (
	"reflect"
	"testing"
)

const sampleOrder = `Incoming Catering Order
Pickup Order
Thursday 10/23/2025 11:30am
Customer Information
Jane Smith
+1 (555) 123-4567
jane.smith@example.com
Guest Count: 25
Paper Goods: Yes
Item Name Quantity Price
Chick-fil-A Chicken Sandwich 25 $112.25
Gallon Freshly-Brewed Sweet Tea 2 $14.00
Subtotal $126.25
Tax $8.84
Total $135.09`

func TestExtractCustomerBlock(t *testing.T) {
	lines := ExtractCustomerBlock(sampleOrder)
	want := []string{
		"Jane Smith",
		"+1 (555) 123-4567",
		"jane.smith@example.com",
		"Guest Count: 25",
		"Paper Goods: Yes",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ExtractCustomerBlock = %v, want %v", lines, want)
	}
}

func TestExtractCustomerBlockMissingHeader(t *testing.T) {
	if lines := ExtractCustomerBlock("no headers here"); lines != nil {
		t.Errorf("expected nil for missing header, got %v", lines)
	}
}

func TestExtractItemsBlock(t *testing.T) {
	block := ExtractItemsBlock(sampleOrder)
	want := "Chick-fil-A Chicken Sandwich 25 $112.25\nGallon Freshly-Brewed Sweet Tea 2 $14.00"
	if block != want {
		t.Errorf("ExtractItemsBlock = %q, want %q", block, want)
	}
}

func TestExtractItemsBlockQtyHeaderVariant(t *testing.T) {
	text := "Item Name Quantity Qty Price\nCookie 6 $11.34\nTotal $11.34"
	block := ExtractItemsBlock(text)
	if block != "Cookie 6 $11.34" {
		t.Errorf("ExtractItemsBlock = %q, want %q", block, "Cookie 6 $11.34")
	}
}

func TestExtractItemsBlockMissingHeader(t *testing.T) {
	if block := ExtractItemsBlock("Customer Information\nJane"); block != "" {
		t.Errorf("expected empty block, got %q", block)
	}
}

func TestExtractItemsBlockNoFooter(t *testing.T) {
	text := "Item Name Quantity Price\nCookie 6 $11.34"
	if block := ExtractItemsBlock(text); block != "Cookie 6 $11.34" {
		t.Errorf("ExtractItemsBlock = %q, want items despite missing footer", block)
	}
}

func TestItemLinesDropsEchoes(t *testing.T) {
	block := "Quantity Qty Price\nCookie 6 $11.34\nSubtotal leftovers\n\nTax note\nBrownie 2"
	got := ItemLines(block)
	want := []string{"Cookie 6 $11.34", "Brownie 2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemLines = %v, want %v", got, want)
	}
}

func TestItemLinesKeepsIndentation(t *testing.T) {
	got := ItemLines("Packaged Meal 5\n  Spicy Sandwich\n  Waffle Chips")
	want := []string{"Packaged Meal 5", "  Spicy Sandwich", "  Waffle Chips"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemLines = %v, want %v", got, want)
	}
}
