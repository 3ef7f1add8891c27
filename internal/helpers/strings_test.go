package helpers_test

import (
	"testing"

	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Length   int
		Expected string
	}{
		{
			Name:     "shorter_than_limit",
			Input:    `{"error":"rate limited"}`,
			Length:   64,
			Expected: `{"error":"rate limited"}`,
		},
		{
			Name:     "longer_than_limit",
			Input:    "abcdefghij",
			Length:   6,
			Expected: "abc...",
		},
		{
			Name:     "tiny_limit",
			Input:    "abcdefghij",
			Length:   2,
			Expected: "ab",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Length))
		})
	}
}
