package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForms(t *testing.T) {
	want := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)

	forms := []string{
		"2025-08-15",
		"15/08/2025",
		"15-08-2025",
		"15 Aug 2025",
		"Aug 15, 2025",
		"15 August 2025",
		"2025-08-15T10:30:00Z",
	}

	for _, raw := range forms {
		got, ok := Normalize(raw)
		require.True(t, ok, "normalize %q", raw)
		assert.Equal(t, want, got, "normalize %q", raw)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"not a date",
		"32/13/2025",
	}

	for _, raw := range invalid {
		_, ok := Normalize(raw)
		assert.False(t, ok, "normalize %q", raw)
	}
}

func TestNormalizeRejectsImplausibleYears(t *testing.T) {
	for _, raw := range []string{"1899-12-31", "2101-01-01"} {
		_, ok := Normalize(raw)
		assert.False(t, ok, "normalize %q", raw)
	}
}

func TestNormalizeTruncatesToMidnightUTC(t *testing.T) {
	got, ok := Normalize("2025-08-15T18:45:12Z")
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025-08-15", Format(time.Date(2025, time.August, 15, 3, 4, 5, 0, time.UTC)))
}
