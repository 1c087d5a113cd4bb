// Package dates normalizes the loose date strings that come back from
// document extraction into calendar dates.
package dates

import (
	"strings"
	"time"
)

// Layouts tried in order. Extraction output mixes ISO, Indian day-first
// and free-text month forms.
var layouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
	"2006-01-2",
	"2-1-2006",
	"2-Jan-2006",
	"Jan-2-2006",
	"2-January-2006",
	"January-2-2006",
	"2006-Jan-2",
	time.RFC3339,
}

// Normalize parses a date in any supported form. Separators (slash, dot,
// whitespace) are folded to dashes before matching; years outside
// 1900-2100 are rejected as misreads.
func Normalize(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}
	folded := strings.NewReplacer("/", "-", ".", "", ",", "").Replace(cleaned)
	folded = strings.Join(strings.Fields(folded), "-")

	for _, layout := range layouts {
		t, err := time.Parse(layout, folded)
		if err != nil {
			continue
		}
		if t.Year() < 1900 || t.Year() > 2100 {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Format renders a date in the canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}
