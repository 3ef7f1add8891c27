package proxy_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/isometry/gemini-proxy/internal/credentials"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHandler_PreflightProperty(t *testing.T) {
	h := newHandler(t, credentials.Static(""), &fakeGenerator{})
	rapid.Check(t, func(rt *rapid.T) {
		req := models.Request{
			Method: http.MethodOptions,
			Body:   rapid.String().Draw(rt, "body"),
		}
		resp := h.Handle(context.Background(), req)
		if resp.StatusCode != http.StatusOK || resp.Body != "" || len(resp.Headers) != 4 {
			rt.Fatalf("unexpected preflight response: %+v", resp)
		}
	})
}

func TestHandler_ForeignMethodProperty(t *testing.T) {
	gen := &fakeGenerator{status: http.StatusOK, body: `{}`}
	h := newHandler(t, credentials.Static(testKey), gen)
	rapid.Check(t, func(rt *rapid.T) {
		method := rapid.StringMatching(`[A-Za-z]{1,12}`).
			Filter(func(m string) bool { return m != http.MethodPost && m != http.MethodOptions }).
			Draw(rt, "method")
		resp := h.Handle(context.Background(), models.Request{Method: method, Body: `{}`})
		if resp.StatusCode != http.StatusMethodNotAllowed || resp.Body != `{"error":"Method not allowed"}` {
			rt.Fatalf("method %q: unexpected response %+v", method, resp)
		}
		if resp.Headers["Access-Control-Allow-Origin"] != "*" {
			rt.Fatalf("method %q: missing CORS headers", method)
		}
	})
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestHandler_IdempotenceProperty(t *testing.T) {
	h := newHandler(t, credentials.Static(testKey), &fakeGenerator{status: http.StatusOK, body: `{"candidates":[]}`})
	want := h.Handle(context.Background(), models.Request{Method: http.MethodPost, Body: `{"contents":[]}`})
	require.Equal(t, http.StatusOK, want.StatusCode)

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "repeats")
		for i := 0; i < n; i++ {
			got := h.Handle(context.Background(), models.Request{Method: http.MethodPost, Body: `{"contents":[]}`})
			if got.StatusCode != want.StatusCode || got.Body != want.Body || len(got.Headers) != len(want.Headers) {
				rt.Fatalf("response drifted: got %+v, want %+v", got, want)
			}
		}
	})
}
