package cmd

import (
	"context"
	"log/slog"

	"github.com/isometry/gemini-proxy/internal/clientconfig"
	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/controllers/aws"
	"github.com/isometry/gemini-proxy/internal/credentials"
	"github.com/isometry/gemini-proxy/internal/metrics"
	"github.com/isometry/gemini-proxy/internal/proxy"
	"github.com/isometry/gemini-proxy/internal/upstream"
	"github.com/pkg/errors"
)

// components holds everything a runtime mode needs.
type components struct {
	handler     *proxy.Handler
	credentials credentials.Provider
	endpoint    string
}

// endpoint returns the configured upstream endpoint.
func endpoint() string {
	if config.Gemini.Endpoint != "" {
		return config.Gemini.Endpoint
	}
	return upstream.Endpoint(config.Gemini.BaseURL, config.Gemini.APIVersion, config.Gemini.Model, config.Gemini.Method)
}

// needsAWS reports whether any configured component talks to AWS.
func needsAWS() bool {
	return config.Gemini.Credentials.Source == config.CredentialSourceSSM || config.Archive.Enabled
}

// newCredentials builds the credentials provider. ctl may be nil when AWS is not needed.
func newCredentials(ctl *aws.Controller) (credentials.Provider, error) {
	var getter credentials.SecretGetter
	if ctl != nil {
		getter = ctl
	}
	return credentials.New(
		config.Gemini.Credentials.Source,
		config.Gemini.Credentials.EnvVar,
		config.Gemini.Credentials.SSMParameter,
		getter)
}

func newAWSController(ctx context.Context) (*aws.Controller, error) {
	logger.Debug("creating AWS controller...")
	ctl, err := aws.NewController(
		aws.WithContext(ctx),
		aws.WithLogger(logger.With("component", "aws")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS controller")
	}
	return ctl, nil
}

func setup(ctx context.Context, m *metrics.Metrics) (*components, error) {
	if config.Archive.Enabled && config.Archive.BucketName == "" {
		return nil, errors.New("archiving is enabled but no bucket is configured")
	}

	var ctl *aws.Controller
	if needsAWS() {
		var err error
		if ctl, err = newAWSController(ctx); err != nil {
			return nil, err
		}
	}

	provider, err := newCredentials(ctl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create credentials provider")
	}

	target := endpoint()
	logger.Debug("creating upstream client...", slog.String("endpoint", upstream.RedactURL(target)))
	client, err := upstream.NewClient(target,
		upstream.WithLogger(logger.With("component", "upstream")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create upstream client")
	}

	opts := []proxy.Option{
		proxy.WithLogger(logger.With("component", "proxy")),
		proxy.WithMetrics(m),
	}
	if config.Archive.Enabled {
		logger.Debug("archiving exchanges...", slog.String("bucket", config.Archive.BucketName))
		opts = append(opts, proxy.WithArchiver(proxy.NewS3Archiver(ctl, config.Archive.BucketName, config.Archive.Prefix)))
	}

	logger.Debug("creating proxy handler...")
	hdl, err := proxy.NewHandler(provider, client, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create proxy handler")
	}
	return &components{handler: hdl, credentials: provider, endpoint: target}, nil
}

// resolveClientConfig returns the browser configuration for the configured client mode.
func resolveClientConfig(provider credentials.Provider, target string) clientconfig.ResolverFunc {
	return func(ctx context.Context) (clientconfig.Config, error) {
		mode, err := clientconfig.ParseMode(config.Client.Mode)
		if err != nil {
			return clientconfig.Config{}, err
		}
		var key string
		if mode == clientconfig.ModeDirect {
			if key, err = provider.Secret(ctx); err != nil {
				return clientconfig.Config{}, err
			}
		}
		return clientconfig.Resolve(mode, config.Client.ProxyPath, target, key), nil
	}
}
