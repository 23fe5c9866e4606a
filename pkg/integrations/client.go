package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/buildinfo"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
)

// Client provides the shared HTTP plumbing for platform REST APIs.
// It applies bearer authentication and default headers, encodes JSON
// bodies, and maps response statuses to [errors.PlatformError] values.
// Transient failures come back wrapped in [httputil.RetryableError].
type Client struct {
	http     *http.Client
	platform string
	baseURL  string
	headers  map[string]string
	now      func() time.Time
}

// NewClient creates a Client for the named platform. token is sent as a
// bearer credential when non-empty. Pass nil for headers if no extra
// headers are needed.
func NewClient(platform, baseURL, token string, timeout time.Duration, headers map[string]string) *Client {
	h := map[string]string{"Accept": "application/json", "User-Agent": buildinfo.UserAgent()}
	for k, v := range headers {
		h[k] = v
	}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return &Client{
		http:     NewHTTPClient(timeout),
		platform: platform,
		baseURL:  baseURL,
		headers:  h,
		now:      time.Now,
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Platform returns the platform name used in errors.
func (c *Client) Platform() string { return c.platform }

// GetJSON performs a GET on path (relative to the base URL) and decodes the
// JSON response into v. A nil v discards the body.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	return c.Do(ctx, http.MethodGet, path, nil, v)
}

// PostJSON JSON-encodes body, POSTs it to path and decodes the response
// into v.
func (c *Client) PostJSON(ctx context.Context, path string, body, v any) error {
	return c.Do(ctx, http.MethodPost, path, body, v)
}

// Do performs one request. It never retries; wrap it in [httputil.Retry].
func (c *Client) Do(ctx context.Context, method, path string, body, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode %s request", c.platform)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, JoinURL(c.baseURL, path), reader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "build %s request", c.platform)
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &errors.PlatformError{
			Code:     errors.ErrCodePlatformAPI,
			Platform: c.platform,
			Status:   resp.StatusCode,
			Message:  "malformed response body",
			Cause:    err,
		}
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	// Caller cancellation is not a platform failure and must not be retried.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	code := errors.ErrCodeNetwork
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		code = errors.ErrCodeTimeout
	}
	return &httputil.RetryableError{Err: &errors.PlatformError{
		Code:     code,
		Platform: c.platform,
		Message:  "request failed",
		Cause:    err,
	}}
}

func (c *Client) checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	pe := &errors.PlatformError{
		Platform: c.platform,
		Status:   code,
		Message:  errorMessage(resp.Body, code),
	}
	switch {
	case code == http.StatusUnauthorized:
		pe.Code = errors.ErrCodeUnauthorized
		return pe
	case code == http.StatusForbidden:
		pe.Code = errors.ErrCodeForbidden
		return pe
	case code == http.StatusNotFound:
		pe.Code = errors.ErrCodeNotFound
		return pe
	case code == http.StatusTooManyRequests:
		pe.Code = errors.ErrCodeRateLimited
		pe.RetryAfter = httputil.ParseRetryAfter(resp.Header.Get("Retry-After"), c.now())
		return &httputil.RetryableError{Err: pe, After: pe.RetryAfter}
	case code >= 500:
		pe.Code = errors.ErrCodePlatformAPI
		return &httputil.RetryableError{Err: pe}
	default:
		pe.Code = errors.ErrCodePlatformAPI
		return pe
	}
}

// errorMessage extracts a message from a JSON error body, falling back to
// the status text.
func errorMessage(body io.Reader, code int) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("unexpected status: %s", http.StatusText(code))
}
