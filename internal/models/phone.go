package models

import "strings"

// NormalizePhone reduces a phone number to the canonical 10-digit form used
// for family uniqueness and import dedup. Non-digits are stripped and a
// leading US country code 1 is dropped. Returns "" when the result is not
// exactly 10 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	return digits
}
