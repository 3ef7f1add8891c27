package clientconfig_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isometry/gemini-proxy/internal/clientconfig"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	testCases := []struct {
		Name           string
		Method         string
		Resolve        clientconfig.ResolverFunc
		ExpectedStatus int
		ExpectedBody   string
	}{
		{
			Name:   "proxied",
			Method: http.MethodGet,
			Resolve: func(context.Context) (clientconfig.Config, error) {
				return clientconfig.Proxied("/api/gemini"), nil
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "window.APP_CONFIG = {\"apiKey\":null,\"apiUrl\":\"/api/gemini\"};\n",
		},
		{
			Name:   "resolve_error",
			Method: http.MethodGet,
			Resolve: func(context.Context) (clientconfig.Config, error) {
				return clientconfig.Config{}, errors.New("API key not configured")
			},
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:           "post_rejected",
			Method:         http.MethodPost,
			ExpectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			clientconfig.Handler(tc.Resolve, helpers.NewNoopLogger()).
				ServeHTTP(rr, httptest.NewRequest(tc.Method, "/config.js", nil))

			assert.Equal(t, tc.ExpectedStatus, rr.Code)
			assert.Equal(t, tc.ExpectedBody, rr.Body.String())
			if tc.ExpectedStatus == http.StatusOK {
				assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
			}
		})
	}
}
