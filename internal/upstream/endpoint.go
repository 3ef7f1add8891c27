package upstream

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// KeyParam is the query parameter carrying the API key.
const KeyParam = "key"

// DefaultEndpoint is the generateContent endpoint of the default model.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// Endpoint assembles "<base>/<version>/models/<model>:<method>".
func Endpoint(baseURL, version, model, method string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(version, "/") + "/models/" + model + ":" + method
}

// WithKey returns endpoint with the key query parameter set. Existing query parameters are kept.
func WithKey(endpoint, key string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "invalid upstream endpoint")
	}
	q := u.Query()
	q.Set(KeyParam, key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RedactURL masks the key query parameter of raw. Unparseable input is returned masked entirely.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED]"
	}
	q := u.Query()
	if !q.Has(KeyParam) {
		return raw
	}
	q.Set(KeyParam, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
