package extractor

import (
	"strings"
	"unicode"
)

// NormalizePhone rewrites national mobile numbers into "+<country code>..."
// form. Masked numbers ("*********036") and anything unrecognized are returned
// trimmed but otherwise verbatim.
func NormalizePhone(raw, countryCode string) string {
	trimmed := strings.TrimSpace(raw)
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, trimmed)

	plus := strings.HasPrefix(compact, "+")
	digits := strings.TrimPrefix(compact, "+")
	if digits == "" || !allDigits(digits) {
		return trimmed
	}

	switch {
	case plus:
		return "+" + digits
	case len(digits) == 12 && (strings.HasPrefix(digits, "2507") || strings.HasPrefix(digits, "2567")):
		return "+" + digits
	case len(digits) == 10 && strings.HasPrefix(digits, "07") && countryCode != "":
		return "+" + countryCode + digits[1:]
	}
	return trimmed
}

// looksLikePhone is true for values that carry digits, masked or not.
func looksLikePhone(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
