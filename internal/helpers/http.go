package helpers

import (
	"net/http"
	"strings"

	"github.com/isometry/gemini-proxy/internal/models"
)

// RespondHTTP writes the response headers, status code and body to rw.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}

// LowerHeaders flattens the given header into a lower-cased single-value map.
func LowerHeaders[V string | []string](in map[string]V) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch vt := any(v).(type) {
		case string:
			out[strings.ToLower(k)] = vt
		case []string:
			if len(vt) > 0 {
				// XXX: we're losing duplicated headers here
				out[strings.ToLower(k)] = vt[0]
			}
		}
	}
	return out
}
