package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  irrigation  ", "toilet flushing  "},
			expected: []string{"irrigation", "toilet flushing"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"irrigation", "laundry", "irrigation", "laundry"},
			expected: []string{"irrigation", "laundry"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"irrigation", "", "  ", "laundry"},
			expected: []string{"irrigation", "laundry"},
		},
		{
			name:     "preserves case",
			input:    []string{"Irrigation", "irrigation"},
			expected: []string{"Irrigation", "irrigation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
