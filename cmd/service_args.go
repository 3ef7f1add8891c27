package cmd

import (
	"time"

	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
		Env:         helpers.Ptr("PORT"),
	},
	&config.Service.Path: {
		Name:        "service-host-path",
		Description: "The path the proxy is served on",
		Short:       helpers.Ptr("P"),
	},
	&config.Service.MetricsPath: {
		Name:        "service-metrics-path",
		Description: "The path Prometheus metrics are served on. Empty disables the endpoint",
	},
	&config.Service.ClientConfigPath: {
		Name:        "service-client-config-path",
		Description: "The path the browser configuration script is served on. Empty disables the endpoint",
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}
