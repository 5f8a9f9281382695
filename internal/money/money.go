// Package money formats and parses Indonesian Rupiah amounts.
//
// The remote API and user input both carry amounts either as plain integers
// or as display strings like "Rp 1.234"; parsing is digit extraction, never
// decimal math, because the Rupiah has no subunit in this application.
package money

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Format renders v with Indonesian digit grouping and the Rupiah symbol,
// zero decimal places: 15000 -> "Rp15.000".
func Format(v int64) string {
	return printer.Sprintf("Rp%v", number.Decimal(v))
}

// FormatString renders a raw amount string for display. Empty input yields
// the empty string; anything else is digit-extracted and defaults to 0,
// so "abc" renders as "Rp0". This mirrors the remote API's tolerance for
// already-formatted values.
func FormatString(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	v, ok := Parse(raw)
	if !ok {
		v = 0
	}
	return Format(v)
}

// Parse extracts the integer value from a possibly formatted amount.
// It strips every non-digit rune, so "Rp 1.234" parses to 1234.
// ok is false when no digits remain.
func Parse(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		// More digits than an int64 holds; treat as unparseable.
		return 0, false
	}
	return v, true
}
