package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEquivalentForms(t *testing.T) {
	forms := []string{
		"9876543210",
		"09876543210",
		"+91-98765 43210",
		"91 9876543210",
		"0091 9876543210",
		"(98765) 43210",
	}

	for _, raw := range forms {
		got, ok := Normalize(raw)
		assert.True(t, ok, "normalize %q", raw)
		assert.Equal(t, "9876543210", got, "normalize %q", raw)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"12345",
		"1234567890",  // leading digit below 6
		"98765432101", // 11 digits, no zero prefix
		"landline",
	}

	for _, raw := range invalid {
		_, ok := Normalize(raw)
		assert.False(t, ok, "normalize %q", raw)
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("+91-98765 43210", "09876543210"))
	assert.False(t, Match("9876543210", "9876543211"))
	assert.False(t, Match("garbage", "garbage"))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "98765 43210", FormatDisplay("9876543210"))
	assert.Equal(t, "12345", FormatDisplay("12345"))
}
