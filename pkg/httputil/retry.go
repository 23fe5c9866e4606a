package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 429 and 5xx responses) with this
// type so that [Retry] knows to attempt the operation again. After carries a
// server-requested delay, typically parsed from a Retry-After header.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how [Retry] spaces out attempts.
type Policy struct {
	Attempts  int           // Total tries including the first, minimum 1
	BaseDelay time.Duration // Delay before the second attempt
	MaxDelay  time.Duration // Cap for the doubled delay, 0 means uncapped
}

// DefaultPolicy returns 4 attempts starting at 500ms and capped at 8s.
func DefaultPolicy() Policy {
	return Policy{Attempts: 4, BaseDelay: 500 * time.Millisecond, MaxDelay: 8 * time.Second}
}

// Delay returns the backoff before attempt n+1 (n starting at 0).
func (p Policy) Delay(n int) time.Duration {
	d := p.BaseDelay
	for range n {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 {
		d = min(d, p.MaxDelay)
	}
	return d
}

// Retry executes fn up to p.Attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. A RetryableError with After set replaces the
// computed backoff for that attempt, still capped by p.MaxDelay. Returns the last error if all attempts
// fail, or ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}

		if i < attempts-1 {
			delay := p.Delay(i)
			if re.After > 0 {
				delay = re.After
				if p.MaxDelay > 0 {
					delay = min(delay, p.MaxDelay)
				}
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// ParseRetryAfter interprets a Retry-After header value, either delay seconds
// or an HTTP date. It returns 0 when the header is absent or unparseable.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(t.Sub(now), 0)
	}
	return 0
}
