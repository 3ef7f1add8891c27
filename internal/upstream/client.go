// Package upstream implements the outbound call to the Generative Language API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/pkg/errors"
)

// Result is the upstream reply: its status code and its JSON body, compacted.
type Result struct {
	StatusCode int
	Body       models.Payload
}

// OK reports whether the upstream status indicates success.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Option is a functional option for the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithLogger sets the logger instance for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// Client posts payloads to a fixed upstream endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient returns a Client for endpoint. The default HTTP client has no timeout of its own:
// the caller's context bounds the call.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, errors.Wrap(err, "invalid upstream endpoint")
	}
	_inst := &Client{endpoint: endpoint}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.http == nil {
		_inst.http = &http.Client{Transport: &loggingRoundTripper{logger: _inst.logger, next: http.DefaultTransport}}
	}
	return _inst, nil
}

// Endpoint returns the configured endpoint, without key.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate posts payload to the endpoint authenticated with key and decodes the JSON reply.
// Errors never contain the key.
func (c *Client) Generate(ctx context.Context, key string, payload models.Payload) (*Result, error) {
	target, err := WithKey(c.endpoint, key)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, Redact(errors.Wrap(err, "failed to build upstream request"), key)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Redact(err, key)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Redact(errors.Wrap(err, "failed to read upstream response"), key)
	}
	var body bytes.Buffer
	if err = json.Compact(&body, raw); err != nil {
		c.logger.Warn("upstream returned a non-JSON body",
			slog.Int("status", resp.StatusCode),
			slog.String("body", helpers.Truncate(scrub(string(raw), key), 256)))
		return nil, errors.Wrapf(err, "failed to parse upstream response (status %d)", resp.StatusCode)
	}
	return &Result{StatusCode: resp.StatusCode, Body: body.Bytes()}, nil
}

// Redact returns err with every occurrence of key removed. *url.Error values are rebuilt
// with a redacted URL so that the chain stays inspectable with errors.As.
func Redact(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	msg := scrub(err.Error(), key)
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &redactedError{
			msg:   msg,
			cause: &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: redactInner(urlErr.Err, key)},
		}
	}
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, cause: redactInner(errors.Unwrap(err), key)}
}

func redactInner(err error, key string) error {
	if err == nil {
		return nil
	}
	if msg := scrub(err.Error(), key); msg != err.Error() {
		return errors.New(msg)
	}
	return err
}

func scrub(s, key string) string {
	s = strings.ReplaceAll(s, key, "REDACTED")
	return strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.cause }
