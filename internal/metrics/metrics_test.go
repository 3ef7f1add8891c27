package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/isometry/gemini-proxy/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("POST", "success", 200)
	m.ObserveRequest("POST", "success", 200)
	m.ObserveRequest("GET", "method_not_allowed", 405)
	m.ObserveUpstream(200, 150*time.Millisecond)

	expected := `
# HELP gemini_proxy_requests_total Total number of proxied requests by method, outcome and status code
# TYPE gemini_proxy_requests_total counter
gemini_proxy_requests_total{code="200",method="POST",outcome="success"} 2
gemini_proxy_requests_total{code="405",method="GET",outcome="method_not_allowed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "gemini_proxy_requests_total"))
	n, err := testutil.GatherAndCount(m.Registry(), "gemini_proxy_upstream_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gemini_proxy_upstream_duration_seconds_bucket")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("POST", "success", 200)
		m.ObserveUpstream(200, time.Second)
	})
}
