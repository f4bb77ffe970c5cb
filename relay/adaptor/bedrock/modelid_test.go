package bedrock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalModelName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fully qualified with region prefix",
			input:    "us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			expected: "claude-35-sonnet",
		},
		{
			name:     "vendor prefix without region",
			input:    "anthropic.claude-3-5-sonnet-20241022-v2:0",
			expected: "claude-35-sonnet",
		},
		{
			name:     "haiku alias",
			input:    "us.anthropic.claude-3-5-haiku-20241022-v1:0",
			expected: "claude-35-haiku",
		},
		{
			name:     "revision only",
			input:    "claude-3-opus:1",
			expected: "claude-3-opus",
		},
		{
			name:     "no recognized separators passes through",
			input:    "mistral-large",
			expected: "mistral-large",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "date suffix without revision",
			input:    "claude-3-7-sonnet-20250219-v1",
			expected: "claude-37-sonnet",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanonicalModelName(tc.input))
		})
	}
}

func TestCanonicalModelName_Idempotent(t *testing.T) {
	inputs := []string{
		"us.anthropic.claude-3-5-sonnet-20241022-v2:0",
		"claude-35-sonnet",
		"eu.anthropic.claude-3-7-sonnet-20250219-v1:0",
		"weird model id with spaces",
	}
	for _, in := range inputs {
		once := CanonicalModelName(in)
		assert.Equal(t, once, CanonicalModelName(once), "input %q", in)
	}
}
