package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestRetry(t *testing.T) {
	permanent := errors.New("bad request")
	transient := &RetryableError{Err: errors.New("503")}

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"success first try", nil, 3, 1, nil},
		{"recovers after transient", []error{transient, transient}, 3, 3, nil},
		{"gives up after attempts", []error{transient, transient, transient}, 3, 3, transient},
		{"permanent error stops", []error{permanent}, 3, 1, permanent},
		{"zero attempts tries once", []error{transient}, 0, 1, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), fastPolicy(tt.attempts), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryHonoursAfter(t *testing.T) {
	p := Policy{Attempts: 2, BaseDelay: time.Hour}
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), p, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("429"), After: 5 * time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Retry waited %v, want the Retry-After delay", elapsed)
	}
}

func TestRetryAfterCappedByMaxDelay(t *testing.T) {
	p := Policy{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), p, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("429"), After: time.Hour}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("Retry() = %v after %d calls", err, calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Retry waited %v, want at most MaxDelay", elapsed)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, Policy{Attempts: 5, BaseDelay: time.Hour}, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{BaseDelay: 500 * time.Millisecond, MaxDelay: 3 * time.Second}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for n, w := range want {
		if got := p.Delay(n); got != w {
			t.Errorf("Delay(%d) = %v, want %v", n, got, w)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), &RetryableError{Err: errors.New("x")})
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(joined) = false")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable(plain) = true")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"Fri, 02 Jan 2026 15:04:15 GMT", 10 * time.Second},
		{"Fri, 02 Jan 2026 15:00:00 GMT", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := ParseRetryAfter(tt.value, now); got != tt.want {
			t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestThrottle(t *testing.T) {
	var nilThrottle *Throttle
	if err := nilThrottle.Wait(context.Background()); err != nil {
		t.Errorf("nil Throttle.Wait() = %v", err)
	}

	unlimited := NewThrottle(0, 0)
	for range 100 {
		if err := unlimited.Wait(context.Background()); err != nil {
			t.Fatalf("unlimited Wait() = %v", err)
		}
	}

	slow := NewThrottle(0.001, 1)
	if err := slow.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := slow.Wait(ctx); err == nil {
		t.Error("second Wait() should fail once the burst is spent")
	}
}
