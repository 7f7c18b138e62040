package utils

import (
	"regexp"
	"strings"
)

// The API receives country code and subscriber number separately and
// concatenates them, so the combined value only gets a loose shape check:
// leading '+' followed by 2-15 digits. Carrier-level validation is left
// to the SMS gateway.
var loosePhoneRegex = regexp.MustCompile(`^\+\d{2,15}$`)

func IsValidPhone(number string) bool { return loosePhoneRegex.MatchString(number) }

// FormatPhone joins a country code and subscriber number into a single
// E.164-like string. The country code may arrive with or without the
// leading '+'.
func FormatPhone(countryCode, phoneNumber string) string {
	cc := strings.TrimSpace(countryCode)
	if cc != "" && !strings.HasPrefix(cc, "+") {
		cc = "+" + cc
	}
	return cc + strings.TrimSpace(phoneNumber)
}

// PhoneDigits strips every non-digit rune. Used for document IDs and
// transaction ID prefixes so the same phone always maps to the same key.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
