package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acme-corp"},
		{"acme-corp", "acme-corp"},
		{"  Trimmed  Name  ", "trimmed-name"},
		{"Ünïcode Çompany", "ncode-ompany"},
		{"under_scored_name", "under-scored-name"},
		{"Already---Hyphenated", "already-hyphenated"},
		{"123 Numbers First", "123-numbers-first"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Slugify(tc.input), "input %q", tc.input)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Acme Corp", "Tienda La Esquina", "multi   space", "a_b c-d"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify must be idempotent for %q", in)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("", "support_email"))
	assert.NoError(t, ValidateEmail("soporte@acme.example", "support_email"))
	assert.Error(t, ValidateEmail("not-an-email", "support_email"))
	assert.Error(t, ValidateEmail("a@", "support_email"))
}
