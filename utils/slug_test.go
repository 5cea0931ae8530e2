package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Kano", "kano"},
		{"multi word", "Dala Business District", "dala-business-district"},
		{"collapses punctuation runs", "Dutse  2x7.5MVA", "dutse-2x7-5mva"},
		{"trims surrounding whitespace", "  Kumbotso F1  ", "kumbotso-f1"},
		{"strips trailing separator", "Feeder 33kV!", "feeder-33kv"},
		{"empty input", "", ""},
		{"only punctuation", "---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
