package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/isometry/gemini-proxy/internal/models"
)

// Kind classifies a failure for the error-to-status mapping.
type Kind int

const (
	// KindConfiguration is a deployment problem, such as a missing API key.
	KindConfiguration Kind = iota
	// KindMethod is a request with an unsupported HTTP method.
	KindMethod
	// KindUpstream is a non-2xx reply from the upstream API.
	KindUpstream
	// KindInternal is any other failure, including malformed input and network errors.
	KindInternal
)

// Messages of the structured error bodies.
const (
	MessageNotConfigured    = "API key not configured"
	MessageMethodNotAllowed = "Method not allowed"
	MessageUpstreamFailed   = "Gemini API request failed"
	MessageInternal         = "Internal server error"
)

// statusByKind maps each kind to its HTTP status. KindUpstream passes the upstream status through.
var statusByKind = map[Kind]int{
	KindConfiguration: http.StatusInternalServerError,
	KindMethod:        http.StatusMethodNotAllowed,
	KindInternal:      http.StatusInternalServerError,
}

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration_error"
	case KindMethod:
		return "method_not_allowed"
	case KindUpstream:
		return "upstream_error"
	case KindInternal:
		return "internal_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified proxy failure.
type Error struct {
	Kind Kind
	// UpstreamStatus is the upstream status code for KindUpstream.
	UpstreamStatus int
	// Details is the upstream JSON body for KindUpstream.
	Details models.Payload
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUpstream:
		return fmt.Sprintf("%s: upstream status %d", e.Kind, e.UpstreamStatus)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status the error is reported with.
func (e *Error) StatusCode() int {
	if e.Kind == KindUpstream {
		return e.UpstreamStatus
	}
	if code, ok := statusByKind[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Body returns the structured error object reported to the caller.
func (e *Error) Body() models.ErrorBody {
	switch e.Kind {
	case KindConfiguration:
		return models.ErrorBody{Error: MessageNotConfigured}
	case KindMethod:
		return models.ErrorBody{Error: MessageMethodNotAllowed}
	case KindUpstream:
		details := e.Details
		if len(details) == 0 {
			details = json.RawMessage("null")
		}
		return models.ErrorBody{Error: MessageUpstreamFailed, Details: details}
	default:
		msg := "unknown error"
		if e.Cause != nil && e.Cause.Error() != "" {
			msg = e.Cause.Error()
		}
		return models.ErrorBody{Error: MessageInternal, Message: msg}
	}
}

// NewInternalError wraps cause as a KindInternal error.
func NewInternalError(cause error) *Error {
	return &Error{Kind: KindInternal, Cause: cause}
}
