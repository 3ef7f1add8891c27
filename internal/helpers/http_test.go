package helpers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/stretchr/testify/assert"
)

type testCase struct {
	Name     string
	Response models.Response
	Expected expectedResponse
}

type expectedResponse struct {
	StatusCode int
	Body       string
	Header     string
}

func TestRespondHTTP(t *testing.T) {
	testCases := []testCase{
		{
			Name: "with_body_and_headers",
			Response: models.Response{
				StatusCode: http.StatusOK,
				Body:       `{"candidates":[]}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
				Body:       `{"candidates":[]}`,
				Header:     "application/json",
			},
		},
		{
			Name: "with_error_status",
			Response: models.Response{
				StatusCode: http.StatusMethodNotAllowed,
				Body:       `{"error":"Method not allowed"}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			},
			Expected: expectedResponse{
				StatusCode: http.StatusMethodNotAllowed,
				Body:       `{"error":"Method not allowed"}`,
				Header:     "application/json",
			},
		},
		{
			Name:     "with_empty_response",
			Response: models.Response{},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rw := httptest.NewRecorder()

			helpers.RespondHTTP(tc.Response, rw)

			assert.Equal(t, tc.Expected.StatusCode, rw.Code)
			assert.Equal(t, tc.Expected.Header, rw.Header().Get("Content-Type"))
			assert.Equal(t, tc.Expected.Body, rw.Body.String())
		})
	}
}

func TestLowerHeaders(t *testing.T) {
	t.Run("multi_value", func(t *testing.T) {
		h := http.Header{"Content-Type": {"application/json", "text/plain"}, "X-Empty": {}}
		assert.Equal(t, map[string]string{"content-type": "application/json"}, helpers.LowerHeaders(h))
	})
	t.Run("single_value", func(t *testing.T) {
		h := map[string]string{"Origin": "https://example.org"}
		assert.Equal(t, map[string]string{"origin": "https://example.org"}, helpers.LowerHeaders(h))
	})
}
