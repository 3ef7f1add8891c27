package cmd

import (
	"context"
	"net"
	"net/http"

	"github.com/isometry/gemini-proxy/internal/clientconfig"
	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/metrics"
	"github.com/isometry/gemini-proxy/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func cmdService() *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:     "service",
		Short:   "Run as a standalone HTTP service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRun: func(_ *cobra.Command, _ []string) {
			logger = logger.With("mode", config.ModeService)
			logger.Info("Spawning...")
		},
		RunE: runService,
	}

	bindEnvMap(serviceCmd, svcEnvMapString)
	bindEnvMap(serviceCmd, svcEnvMapDuration)
	return serviceCmd
}

// newServiceMux routes the proxy, the client configuration script and the metrics endpoint.
func newServiceMux(c *components, rt *runtime.Runtime, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(config.Service.Path, rt)
	if config.Service.ClientConfigPath != "" {
		mux.Handle(config.Service.ClientConfigPath, clientconfig.Handler(
			resolveClientConfig(c.credentials, c.endpoint),
			logger.With("component", "client-config")))
	}
	if config.Service.MetricsPath != "" {
		mux.Handle(config.Service.MetricsPath, m.Handler())
	}
	return otelhttp.NewHandler(mux, "gemini-proxy")
}

func runService(cmd *cobra.Command, _ []string) error {
	m := metrics.New()
	c, err := setup(cmd.Context(), m)
	if err != nil {
		return errors.Wrap(err, "failed to setup service")
	}

	logger.Debug("creating runtime...")
	rt := runtime.NewRuntime(c.handler,
		runtime.WithLogger(logger.With("component", "runtime")))

	logger.Debug("Creating HTTP server...")
	s := &http.Server{
		Handler:      newServiceMux(c, rt, m),
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()

	logger.Info("Serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
	if err = s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
