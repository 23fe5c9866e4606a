package integrations

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single platform request when the caller does not
// configure one.
const DefaultTimeout = 15 * time.Second

// maxErrorBody limits how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A zero timeout uses [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// JoinURL joins a base URL and a path with exactly one slash between them.
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
