package helpers_test

import (
	"testing"
	"time"

	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	testCases := []struct {
		Name  string
		Input any
	}{
		{Name: "nil", Input: nil},
		{Name: "string", Input: "GEMINI_API_KEY"},
		{Name: "duration", Input: 5 * time.Second},
		{Name: "map", Input: map[string]string{"k": "v"}},
		{Name: "nil_pointer", Input: (*string)(nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Input == nil {
				assert.Nil(t, helpers.Ptr(tc.Input))
			} else {
				assert.Equal(t, &tc.Input, helpers.Ptr(tc.Input))
			}
		})
	}
}
