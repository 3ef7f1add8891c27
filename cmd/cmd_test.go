package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/metrics"
	"github.com/isometry/gemini-proxy/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	reset := func() {
		config.Global.Mode = ""
		config.Global.EnvFile = ""
		config.Gemini.Endpoint = ""
		config.Gemini.Model = ""
		config.Gemini.Credentials.Source = ""
		config.Gemini.Credentials.EnvVar = ""
		config.Gemini.Credentials.SSMParameter = ""
		config.Client.Mode = ""
		config.Client.ProxyPath = ""
		config.Archive.Enabled = false
		config.Archive.BucketName = ""
	}
	reset()
	t.Cleanup(reset)
	require.NoError(t, config.SetDefaults())
}

func TestClientConfigCommand(t *testing.T) {
	testCases := []struct {
		Name        string
		Env         map[string]string
		Args        []string
		Expected    string
		ExpectError bool
	}{
		{
			Name:     "proxied_script",
			Args:     []string{"client-config"},
			Expected: "window.APP_CONFIG = {\"apiKey\":null,\"apiUrl\":\"/api/gemini\"};\n",
		},
		{
			Name: "direct_json",
			Env: map[string]string{
				"CLIENT_MODE":    "direct",
				"GEMINI_API_KEY": "local-key",
				"GEMINI_API_URL": "https://example.org/v1beta/models/m:generateContent",
			},
			Args:     []string{"client-config", "--format", "json"},
			Expected: "{\"apiKey\":\"local-key\",\"apiUrl\":\"https://example.org/v1beta/models/m:generateContent\"}\n",
		},
		{
			Name:        "direct_without_key",
			Env:         map[string]string{"CLIENT_MODE": "direct", "GEMINI_API_KEY": ""},
			Args:        []string{"client-config"},
			ExpectError: true,
		},
		{
			Name:        "unsupported_format",
			Args:        []string{"client-config", "-f", "yaml"},
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resetConfig(t)
			for k, v := range tc.Env {
				t.Setenv(k, v)
			}

			root := New()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(io.Discard)
			root.SetArgs(tc.Args)

			err := root.ExecuteContext(context.Background())
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, out.String())
		})
	}
}

func TestServiceMux(t *testing.T) {
	resetConfig(t)

	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "svc-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`))
	}))
	defer upstreamSrv.Close()

	t.Setenv("GEMINI_API_KEY", "svc-key")
	config.Gemini.Endpoint = upstreamSrv.URL + "/v1beta/models/m:generateContent"

	m := metrics.New()
	c, err := setup(context.Background(), m)
	require.NoError(t, err)
	srv := httptest.NewServer(newServiceMux(c, runtime.NewRuntime(c.handler), m))
	defer srv.Close()

	resp, err := http.Post(srv.URL+config.Service.Path, "application/json", strings.NewReader(`{"contents":[]}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`, string(body))
	assert.NotContains(t, string(body), "svc-key")

	resp, err = http.Get(srv.URL + config.Service.ClientConfigPath)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "window.APP_CONFIG = {\"apiKey\":null,\"apiUrl\":\"/api/gemini\"};\n", string(body))

	resp, err = http.Get(srv.URL + config.Service.MetricsPath)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "gemini_proxy_requests_total")
}

func TestSetupRejectsArchiveWithoutBucket(t *testing.T) {
	resetConfig(t)
	config.Archive.Enabled = true

	_, err := setup(context.Background(), nil)
	assert.Error(t, err)
}
