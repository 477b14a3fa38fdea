package parse

import "testing"

func TestParseCustomerBlockComplete(t *testing.T) {
	info := ParseCustomerBlock([]string{
		"Jane Smith",
		"+1 (555) 123-4567",
		"jane.smith@example.com",
		"Guest Count: 25",
		"Paper Goods: Yes",
	})

	if info.Name != "Jane Smith" {
		t.Errorf("Name = %q, want %q", info.Name, "Jane Smith")
	}
	if info.Phone != "+15551234567" {
		t.Errorf("Phone = %q, want %q", info.Phone, "+15551234567")
	}
	if info.Email != "jane.smith@example.com" {
		t.Errorf("Email = %q, want %q", info.Email, "jane.smith@example.com")
	}
	if info.GuestCount != "25" {
		t.Errorf("GuestCount = %q, want %q", info.GuestCount, "25")
	}
	if info.PaperGoods != "Yes" {
		t.Errorf("PaperGoods = %q, want %q", info.PaperGoods, "Yes")
	}
}

func TestParseCustomerBlockSentinelDefaults(t *testing.T) {
	info := ParseCustomerBlock(nil)

	if info.Name != Unknown || info.Phone != Unknown || info.Email != Unknown {
		t.Errorf("missing fields should be sentinels, got name=%q phone=%q email=%q",
			info.Name, info.Phone, info.Email)
	}
	if info.GuestCount != "N/A" {
		t.Errorf("GuestCount = %q, want N/A", info.GuestCount)
	}
	if info.PaperGoods != "No" {
		t.Errorf("PaperGoods = %q, want No", info.PaperGoods)
	}
	if info.SpecialInstructions != "" {
		t.Errorf("SpecialInstructions = %q, want empty", info.SpecialInstructions)
	}
}

func TestParseCustomerBlockSpecialInstructions(t *testing.T) {
	info := ParseCustomerBlock([]string{
		"Jane Smith",
		"Special Instructions",
		"Ring the back doorbell",
		"Leave with security",
	})

	want := "Ring the back doorbell\nLeave with security"
	if info.SpecialInstructions != want {
		t.Errorf("SpecialInstructions = %q, want %q", info.SpecialInstructions, want)
	}
	// Instruction lines must not leak into other fields.
	if info.Name != "Jane Smith" {
		t.Errorf("Name = %q, want %q", info.Name, "Jane Smith")
	}
}

func TestParseCustomerBlockInstructionsSwallowEverything(t *testing.T) {
	// Once in instructions mode, even email-shaped lines are collected.
	info := ParseCustomerBlock([]string{
		"special instructions",
		"contact me at other@example.com",
	})

	if info.Email != Unknown {
		t.Errorf("Email = %q, want sentinel", info.Email)
	}
	if info.SpecialInstructions != "contact me at other@example.com" {
		t.Errorf("SpecialInstructions = %q", info.SpecialInstructions)
	}
}

func TestParseCustomerBlockFirstNameWins(t *testing.T) {
	info := ParseCustomerBlock([]string{
		"Jane Smith",
		"Catering for the office",
	})

	if info.Name != "Jane Smith" {
		t.Errorf("Name = %q, want first qualifying line", info.Name)
	}
}

func TestParseCustomerBlockPhoneNormalization(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"(555) 123-4567 ext 89", "+555123456789"},
		{"5551234567", "+5551234567"},
		{"+1 555 123 4567", "+15551234567"},
	}
	for _, tt := range tests {
		info := ParseCustomerBlock([]string{tt.line})
		if info.Phone != tt.want {
			t.Errorf("phone for %q = %q, want %q", tt.line, info.Phone, tt.want)
		}
	}
}

func TestParseCustomerBlockShortNumberIsName(t *testing.T) {
	// Fewer than 10 digits is not a phone number; it becomes the name line.
	info := ParseCustomerBlock([]string{"555-1234"})
	if info.Phone != Unknown {
		t.Errorf("Phone = %q, want sentinel", info.Phone)
	}
	if info.Name != "555-1234" {
		t.Errorf("Name = %q, want the raw line", info.Name)
	}
}

func TestParseCustomerBlockGuestCountMissingValue(t *testing.T) {
	info := ParseCustomerBlock([]string{"Guest Count:"})
	if info.GuestCount != "N/A" {
		t.Errorf("GuestCount = %q, want N/A for empty value", info.GuestCount)
	}
}
