package clientconfig

import (
	"context"
	"log/slog"
	"net/http"
)

// ResolverFunc returns the configuration active for a request.
type ResolverFunc func(ctx context.Context) (Config, error)

// Handler serves the configuration as a browser script.
func Handler(resolve ResolverFunc, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		cfg, err := resolve(r.Context())
		if err != nil {
			logger.Error("failed to resolve client configuration", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		script, err := cfg.Script()
		if err != nil {
			logger.Error("failed to render client configuration", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(script)
	})
}
