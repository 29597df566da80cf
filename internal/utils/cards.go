package utils

import (
	"strings"
	"unicode"
)

// NormalizeCardNumber strips spaces and dashes from a card number.
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidCardNumber runs the Luhn check on a normalized card number.
func ValidCardNumber(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		r := rune(number[i])
		if !unicode.IsDigit(r) {
			return false
		}
		digit := int(r - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// CardType guesses the network from the number prefix.
func CardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "Visa"
	case len(number) > 1 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "Mastercard"
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return "American Express"
	case strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65"):
		return "Discover"
	default:
		return "Card"
	}
}

// CardLast4 returns the last four digits of a normalized card number.
func CardLast4(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
