package utils

import "testing"

func TestValidCardNumber(t *testing.T) {
	cases := []struct {
		number string
		valid  bool
	}{
		{"4111111111111111", true},
		{"5500005555555559", true},
		{"378282246310005", true},
		{"4111111111111112", false},
		{"411111111111111a", false},
		{"4111", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidCardNumber(tc.number); got != tc.valid {
			t.Errorf("ValidCardNumber(%q) = %v, want %v", tc.number, got, tc.valid)
		}
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	if got := NormalizeCardNumber("4111 1111-1111 1111"); got != "4111111111111111" {
		t.Errorf("normalized = %q", got)
	}
}

func TestCardType(t *testing.T) {
	cases := map[string]string{
		"4111111111111111": "Visa",
		"5500005555555559": "Mastercard",
		"378282246310005":  "American Express",
		"6011000990139424": "Discover",
		"9999999999999999": "Card",
	}
	for number, want := range cases {
		if got := CardType(number); got != want {
			t.Errorf("CardType(%q) = %q, want %q", number, got, want)
		}
	}
}
