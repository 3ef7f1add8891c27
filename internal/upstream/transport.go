package upstream

import (
	"log/slog"
	"net/http"
)

// levelTrace sits below slog.LevelDebug; it is reached with -vvvv.
const levelTrace = slog.Level(-8)

// loggingRoundTripper logs outbound requests with the key masked.
type loggingRoundTripper struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// RoundTrip logs the request and response.
func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	target := RedactURL(req.URL.String())
	l.logger.Log(req.Context(), levelTrace, "sending request", slog.String("method", req.Method), slog.String("url", target))
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		// the transport error text embeds the raw URL
		l.logger.Log(req.Context(), levelTrace, "failed to send request", slog.String("url", target))
		return nil, err
	}
	l.logger.Log(req.Context(), levelTrace, "received response", slog.String("status", resp.Status))
	return resp, nil
}
