// Package models provides the core data structures exchanged between the runtimes and the proxy handler.
package models

import "encoding/json"

// Request represents an inbound client request. Header keys are lower-cased by the runtime.
type Request struct {
	Method  string
	Body    string
	Headers map[string]string
}

// Header returns the value of the header with the given lower-case name.
func (r Request) Header(name string) string {
	return r.Headers[name]
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}

// Payload is an opaque JSON document. The proxy never interprets its contents.
type Payload = json.RawMessage

// ErrorBody is the structured error object returned on every failure path.
type ErrorBody struct {
	Error   string  `json:"error"`
	Details Payload `json:"details,omitempty"`
	Message string  `json:"message,omitempty"`
}
