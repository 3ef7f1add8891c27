// Package proxy implements the request-forwarding handler hiding the upstream API key from browsers.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/gemini-proxy/internal/credentials"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/isometry/gemini-proxy/internal/metrics"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/isometry/gemini-proxy/internal/upstream"
	"github.com/pkg/errors"
)

// Generator performs the upstream call.
type Generator interface {
	Generate(ctx context.Context, key string, payload models.Payload) (*upstream.Result, error)
}

// Option is a functional option for the Handler.
type Option func(*Handler)

// Handler forwards POSTed JSON payloads upstream with the API key injected server-side.
// It holds no per-request state and is safe for concurrent use.
type Handler struct {
	logger      *slog.Logger
	credentials credentials.Provider
	upstream    Generator
	archiver    Archiver
	metrics     *metrics.Metrics
}

// NewHandler creates a Handler reading the key from provider and calling generator.
func NewHandler(provider credentials.Provider, generator Generator, opts ...Option) (*Handler, error) {
	if provider == nil {
		return nil, errors.New("missing credentials provider")
	}
	if generator == nil {
		return nil, errors.New("missing upstream client")
	}
	_inst := &Handler{credentials: provider, upstream: generator}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst, nil
}

// Handle processes a single request and always returns a response carrying the CORS headers.
func (h *Handler) Handle(ctx context.Context, req models.Request) models.Response {
	logger := h.logger.With(slog.String("method", req.Method))
	if id := helpers.RequestID(ctx); id != "" {
		logger = logger.With(slog.String("requestID", id))
	}

	switch req.Method {
	case http.MethodOptions:
		logger.Debug("answering preflight request...")
		h.metrics.ObserveRequest(req.Method, "preflight", http.StatusOK)
		return models.Response{StatusCode: http.StatusOK, Headers: Headers()}
	case http.MethodPost:
		break
	default:
		logger.Debug("rejecting request...", "reason", "method not allowed")
		return h.fail(logger, req, &Error{Kind: KindMethod})
	}

	body, err := h.forward(ctx, logger, req)
	if err != nil {
		var proxyErr *Error
		if !errors.As(err, &proxyErr) {
			proxyErr = NewInternalError(err)
		}
		return h.fail(logger, req, proxyErr)
	}

	h.metrics.ObserveRequest(req.Method, "success", http.StatusOK)
	logger.Info("request forwarded")
	return models.Response{StatusCode: http.StatusOK, Headers: Headers(), Body: string(body)}
}

func (h *Handler) forward(ctx context.Context, logger *slog.Logger, req models.Request) (models.Payload, error) {
	key, err := h.credentials.Secret(ctx)
	if errors.Is(err, credentials.ErrNotConfigured) {
		helpers.OnceAMinute.Do(func() {
			logger.Warn("API key is not configured")
		})
		return nil, &Error{Kind: KindConfiguration, Cause: err}
	}
	if err != nil {
		return nil, NewInternalError(err)
	}

	payload, err := ParsePayload(req.Body)
	if err != nil {
		return nil, NewInternalError(err)
	}

	start := time.Now()
	result, err := h.upstream.Generate(ctx, key, payload)
	if err != nil {
		h.metrics.ObserveUpstream(0, time.Since(start))
		return nil, NewInternalError(upstream.Redact(err, key))
	}
	h.metrics.ObserveUpstream(result.StatusCode, time.Since(start))
	h.archive(ctx, logger, payload, result)

	if !result.OK() {
		logger.Warn("Gemini API error",
			slog.Int("status", result.StatusCode),
			slog.String("details", helpers.Truncate(string(result.Body), 512)))
		return nil, &Error{Kind: KindUpstream, UpstreamStatus: result.StatusCode, Details: result.Body}
	}
	return result.Body, nil
}

func (h *Handler) fail(logger *slog.Logger, req models.Request, proxyErr *Error) models.Response {
	if proxyErr.Kind == KindInternal {
		logger.Error("function error", slog.Any("error", proxyErr))
	}
	resp := ErrorResponse(proxyErr)
	h.metrics.ObserveRequest(req.Method, proxyErr.Kind.String(), resp.StatusCode)
	return resp
}

// ErrorResponse renders proxyErr as a response carrying the CORS headers.
func ErrorResponse(proxyErr *Error) models.Response {
	body, err := json.Marshal(proxyErr.Body())
	if err != nil {
		// details are validated JSON, so this is unreachable in practice
		body = []byte(`{"error":"` + MessageInternal + `","message":"failed to encode error"}`)
	}
	return models.Response{StatusCode: proxyErr.StatusCode(), Headers: Headers(), Body: string(body)}
}

// ParsePayload validates body as a JSON document and returns it compacted.
func ParsePayload(body string) (models.Payload, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse request body")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse request body")
	}
	return buf.Bytes(), nil
}
