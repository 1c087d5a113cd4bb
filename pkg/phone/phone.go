// Package phone normalizes phone numbers to the canonical 10-digit form
// used as the customer dedup key.
package phone

import (
	"regexp"
	"strings"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// Normalize strips formatting and country-code prefixes and returns the
// canonical 10-digit mobile number. It returns ok=false when the input
// cannot be reduced to a valid mobile number.
func Normalize(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch {
	case strings.HasPrefix(cleaned, "0091") && len(cleaned) == 14:
		cleaned = cleaned[4:]
	case strings.HasPrefix(cleaned, "91") && len(cleaned) == 12:
		cleaned = cleaned[2:]
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 11:
		cleaned = cleaned[1:]
	}

	if !mobilePattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// FormatDisplay renders a canonical number as "98765 43210".
func FormatDisplay(canonical string) string {
	if len(canonical) != 10 {
		return canonical
	}
	return canonical[:5] + " " + canonical[5:]
}

// Match reports whether two raw numbers normalize to the same canonical form.
func Match(a, b string) bool {
	na, okA := Normalize(a)
	nb, okB := Normalize(b)
	return okA && okB && na == nb
}
