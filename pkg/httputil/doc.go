// Package httputil provides the call discipline used against remote
// whiteboard platforms.
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//   - Network errors and timeouts
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after each attempt, starting at [Policy].BaseDelay and
// capped at [Policy].MaxDelay. When the server names a delay (Retry-After,
// see [ParseRetryAfter]) that delay is used instead:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy(), func() error {
//	    return client.PostJSON(ctx, url, body, &out)
//	})
//
// Errors that are not wrapped as retryable (auth failures, other 4xx) end
// the loop immediately.
//
// # Throttle
//
// [Throttle] is a token bucket built on golang.org/x/time/rate. One
// Throttle is shared by all calls to a platform so that concurrent workers
// stay under the platform's request rate.
package httputil
