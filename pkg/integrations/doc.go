// Package integrations provides the shared HTTP client used by remote
// whiteboard platform backends.
//
// # Client Pattern
//
// Each platform backend (see pkg/platform/miro) owns a [Client] bound to
// its base URL and access token:
//
//	c := integrations.NewClient("miro", "https://api.miro.com/v2", token, 15*time.Second, nil)
//	var board struct{ ID string `json:"id"` }
//	err := c.PostJSON(ctx, "/boards", map[string]any{"name": "Flow"}, &board)
//
// The client performs exactly one request per call. Status codes are mapped
// to [errors.PlatformError] codes:
//
//   - 401: UNAUTHORIZED
//   - 403: FORBIDDEN
//   - 404: NOT_FOUND
//   - 429: RATE_LIMITED (retryable, honours Retry-After)
//   - 5xx: PLATFORM_API_ERROR (retryable)
//   - other 4xx: PLATFORM_API_ERROR
//
// Transport failures become NETWORK_ERROR or TIMEOUT and are retryable.
// Retrying and throttling are the caller's job (pkg/httputil).
package integrations
