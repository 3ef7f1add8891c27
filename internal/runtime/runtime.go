// Package runtime adapts the proxy handler to AWS Lambda HTTP payloads and to net/http.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/isometry/gemini-proxy/internal/proxy"
	"github.com/pkg/errors"
)

// Supported Lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
	// PayloadFunction is a bare function invocation shaped like a Netlify/API Gateway v1 event.
	PayloadFunction = "function"
)

// PayloadTypes lists the supported Lambda payload types.
var PayloadTypes = []string{PayloadAPIGatewayV1, PayloadAPIGatewayV2, PayloadLambdaURL, PayloadFunction}

// FunctionEvent is the event of a bare function invocation.
type FunctionEvent struct {
	HTTPMethod      string            `json:"httpMethod"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// FunctionResult is the reply to a bare function invocation.
type FunctionResult struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPayloadType sets the Lambda payload type decoded by Lambda.
func WithPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

type Runtime struct {
	*proxy.Handler
	logger      *slog.Logger
	payloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *proxy.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, payloadType: PayloadAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Lambda is the Lambda handler for the runtime. Failures are reported as structured responses,
// so the returned error is only set for payloads that cannot be decoded at all.
func (r *Runtime) Lambda(ctx context.Context, payload json.RawMessage) (any, error) {
	ctx = withRequestID(ctx)
	r.logger.Info("received Lambda request", slog.String("payloadType", r.payloadType), slog.String("requestID", helpers.RequestID(ctx)))

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v1 payload")
		}
		resp := r.handle(ctx, req.HTTPMethod, req.Headers, req.Body, req.IsBase64Encoded)
		return events.APIGatewayProxyResponse{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body}, nil
	case PayloadAPIGatewayV2:
		var req events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v2 payload")
		}
		resp := r.handle(ctx, req.RequestContext.HTTP.Method, req.Headers, req.Body, req.IsBase64Encoded)
		return events.APIGatewayV2HTTPResponse{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body}, nil
	case PayloadLambdaURL:
		var req events.LambdaFunctionURLRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode Lambda function URL payload")
		}
		resp := r.handle(ctx, req.RequestContext.HTTP.Method, req.Headers, req.Body, req.IsBase64Encoded)
		return events.LambdaFunctionURLResponse{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body}, nil
	case PayloadFunction:
		var req FunctionEvent
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode function payload")
		}
		resp := r.handle(ctx, req.HTTPMethod, req.Headers, req.Body, req.IsBase64Encoded)
		return FunctionResult{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

func (r *Runtime) handle(ctx context.Context, method string, headers map[string]string, body string, isBase64 bool) models.Response {
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			r.logger.Warn("failed to decode base64 body", slog.Any("error", err))
			return proxy.ErrorResponse(proxy.NewInternalError(errors.Wrap(err, "failed to decode request body")))
		}
		body = string(decoded)
	}
	resp := r.Handler.Handle(ctx, models.Request{
		Method:  method,
		Body:    body,
		Headers: helpers.LowerHeaders(headers),
	})
	r.logger.Info("handled request", slog.Int("statusCode", resp.StatusCode))
	return resp
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	ctx := withRequestID(req.Context())
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(proxy.ErrorResponse(proxy.NewInternalError(errors.Wrap(err, "failed to read request body"))), resp)
		return
	}

	result := r.Handler.Handle(ctx, models.Request{
		Method:  req.Method,
		Body:    string(body),
		Headers: helpers.LowerHeaders(req.Header),
	})
	helpers.RespondHTTP(result, resp)
}

// withRequestID tags ctx with the Lambda request ID, or a fresh UUID outside Lambda.
func withRequestID(ctx context.Context) context.Context {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return helpers.WithRequestID(ctx, lc.AwsRequestID)
	}
	return helpers.WithRequestID(ctx, uuid.NewString())
}
