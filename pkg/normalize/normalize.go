// Package normalize canonicalizes order identifiers and fingerprint fields so
// that two differently formatted representations of the same value compare
// equal. All functions are idempotent: normalize(normalize(x)) == normalize(x).
package normalize

import (
	"net"
	"strings"
	"unicode"
)

// Phone reduces a phone number to its canonical digits-only form.
// A leading international prefix ("+", "00") is kept as digits; everything
// that is not a digit is dropped.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IP canonicalizes an IP address string. Invalid addresses normalize to the
// empty string so they can never match a stored entry.
func IP(raw string) string {
	parsed := net.ParseIP(strings.TrimSpace(raw))
	if parsed == nil {
		return ""
	}
	return parsed.String()
}

// Device canonicalizes an opaque device fingerprint hash.
func Device(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Address canonicalizes a shipping address: lowercased, punctuation stripped,
// whitespace collapsed to single spaces.
func Address(raw string) string {
	return collapseToken(raw)
}

// Name canonicalizes a customer name the same way as addresses.
func Name(raw string) string {
	return collapseToken(raw)
}

func collapseToken(raw string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// ForType normalizes a value according to its identifier type
// ("phone", "ip" or "device"). Unknown types normalize to empty.
func ForType(idType, raw string) string {
	switch idType {
	case "phone":
		return Phone(raw)
	case "ip":
		return IP(raw)
	case "device":
		return Device(raw)
	default:
		return ""
	}
}
