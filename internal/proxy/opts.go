package proxy

import (
	"log/slog"

	"github.com/isometry/gemini-proxy/internal/metrics"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithArchiver enables exchange archiving.
func WithArchiver(archiver Archiver) Option {
	return func(h *Handler) {
		h.archiver = archiver
	}
}

// WithMetrics sets the metrics the handler reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}
