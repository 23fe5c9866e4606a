package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient("miro", server.URL+"/v2", "secret", time.Second, nil).WithHTTPClient(server.Client())
}

func TestNewClient(t *testing.T) {
	c := NewClient("miro", "https://api.example.com", "token", 0, map[string]string{"X-Extra": "1"})
	if c.http == nil || c.http.Timeout != DefaultTimeout {
		t.Errorf("http client timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if c.headers["Authorization"] != "Bearer token" {
		t.Errorf("Authorization = %q", c.headers["Authorization"])
	}
	if c.headers["X-Extra"] != "1" || c.headers["Accept"] != "application/json" {
		t.Errorf("headers = %v", c.headers)
	}

	anon := NewClient("lucid", "https://api.example.com", "", 0, nil)
	if _, ok := anon.headers["Authorization"]; ok {
		t.Error("empty token should not set Authorization")
	}
}

func TestClientPostJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/boards" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var in payload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name != "Flow" {
			t.Errorf("body = %+v, %v", in, err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "b1"})
	})

	var out struct{ ID string }
	if err := c.PostJSON(context.Background(), "boards", payload{Name: "Flow"}, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out.ID != "b1" {
		t.Errorf("ID = %q, want b1", out.ID)
	}
}

func TestClientGetJSONDiscard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "limit=1" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[]}`))
	})
	if err := c.GetJSON(context.Background(), "/boards?limit=1", nil); err != nil {
		t.Errorf("GetJSON() error = %v", err)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		retryAfter string
		wantCode   errors.Code
		retryable  bool
		wantMsg    string
		wantAfter  time.Duration
	}{
		{"unauthorized", 401, `{"message":"token expired"}`, "", errors.ErrCodeUnauthorized, false, "token expired", 0},
		{"forbidden", 403, "", "", errors.ErrCodeForbidden, false, "unexpected status: Forbidden", 0},
		{"not found", 404, `{"error":"no board"}`, "", errors.ErrCodeNotFound, false, "no board", 0},
		{"rate limited", 429, "", "2", errors.ErrCodeRateLimited, true, "unexpected status: Too Many Requests", 2 * time.Second},
		{"server error", 503, "upstream down", "", errors.ErrCodePlatformAPI, true, "upstream down", 0},
		{"bad request", 400, `{"message":"invalid shape"}`, "", errors.ErrCodePlatformAPI, false, "invalid shape", 0},
		{"html body", 502, "<html>bad gateway</html>", "", errors.ErrCodePlatformAPI, true, "unexpected status: Bad Gateway", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			err := c.GetJSON(context.Background(), "/x", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
			var pe *errors.PlatformError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a PlatformError", err)
			}
			if pe.Status != tt.status || pe.Platform != "miro" {
				t.Errorf("status/platform = %d/%s", pe.Status, pe.Platform)
			}
			if pe.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", pe.Message, tt.wantMsg)
			}
			if pe.RetryAfter != tt.wantAfter {
				t.Errorf("RetryAfter = %v, want %v", pe.RetryAfter, tt.wantAfter)
			}
		})
	}
}

func TestClientMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	var out map[string]any
	err := c.GetJSON(context.Background(), "/x", &out)
	if !errors.Is(err, errors.ErrCodePlatformAPI) || httputil.IsRetryable(err) {
		t.Errorf("err = %v, want non-retryable PLATFORM_API_ERROR", err)
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient("miro", url, "t", time.Second, nil)
	err := c.GetJSON(context.Background(), "/boards", nil)
	if !errors.Is(err, errors.ErrCodeNetwork) || !httputil.IsRetryable(err) {
		t.Errorf("err = %v, want retryable NETWORK_ERROR", err)
	}
}

func TestClientCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.GetJSON(ctx, "/x", nil)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct{ base, path, want string }{
		{"https://a/v2", "boards", "https://a/v2/boards"},
		{"https://a/v2/", "/boards", "https://a/v2/boards"},
		{"https://a/v2", "", "https://a/v2"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
