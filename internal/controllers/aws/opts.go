package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithContext sets the context used while loading the default AWS configuration.
func WithContext(ctx context.Context) Option {
	return func(a *Controller) {
		a.ctx = ctx
	}
}

// WithConfig sets an explicit AWS configuration.
func WithConfig(cfg *aws.Config) Option {
	return func(a *Controller) {
		a.config = cfg
	}
}

// WithSSMClient injects the SSM client.
func WithSSMClient(client SSMAPI) Option {
	return func(a *Controller) {
		a.ssmClient = client
	}
}

// WithS3Client injects the S3 client.
func WithS3Client(client S3API) Option {
	return func(a *Controller) {
		a.s3Client = client
	}
}
