// Package aws provides the Controller struct that wraps AWS services and provides S3 and SSM functionality with context and logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/pkg/errors"
)

// SSMAPI is the subset of the SSM client used by the Controller.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// S3API is the subset of the S3 client used by the Controller.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Controller wraps the SSM and S3 clients used for secret retrieval and exchange archiving.
type Controller struct {
	ctx    context.Context
	logger *slog.Logger

	config    *aws.Config
	s3Client  S3API
	ssmClient SSMAPI
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// The default AWS configuration is only loaded when a client has not been injected.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.s3Client != nil && _inst.ssmClient != nil {
		return _inst, nil
	}
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	if _inst.s3Client == nil {
		_inst.s3Client = s3.NewFromConfig(*_inst.config)
	}
	if _inst.ssmClient == nil {
		_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	}
	return _inst, nil
}

// GetSecret retrieves a parameter value from the SSM Parameter Store.
// If encrypted is true, the value is returned decrypted. Errors keep the SDK error in their chain.
func (a *Controller) GetSecret(ctx context.Context, key string, encrypted bool) (string, error) {
	a.logger.Debug("fetching SSM parameter...", slog.String("key", key))
	ssmResponse, err := a.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load SSM parameter")
	}
	if ssmResponse.Parameter == nil {
		return "", nil
	}
	return aws.ToString(ssmResponse.Parameter.Value), nil
}

// PutS3Object uploads a JSON object to the given bucket under key. An empty bucket is a no-op.
func (a *Controller) PutS3Object(ctx context.Context, bucket, key string, body []byte) error {
	if bucket == "" {
		return nil
	}
	a.logger.Debug("uploading S3 object...", slog.String("bucket", bucket), slog.String("key", key))
	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to put object to S3")
	}
	return nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
