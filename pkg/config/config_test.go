package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	p := cfg.Retry.Policy()
	if p.Attempts != 4 || p.BaseDelay != 500*time.Millisecond || p.MaxDelay != 8*time.Second {
		t.Errorf("retry policy = %+v", p)
	}
	miro := cfg.Platforms["miro"]
	if miro.BaseURL != "https://api.miro.com/v2" || miro.Concurrency != 4 || miro.Burst != 8 || miro.Timeout.Duration != 15*time.Second {
		t.Errorf("miro defaults = %+v", miro)
	}
	if got := cfg.PlatformNames(); len(got) != 2 || got[0] != "lucid" || got[1] != "miro" {
		t.Errorf("PlatformNames() = %v", got)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[retry]
attempts = 2
max_delay = "2s"

[platforms.miro]
access_token = "abc"
concurrency = 2

[platforms.lucid]
disabled = true

[history]
backend = "redis"
dsn = "redis://localhost:6379/0"
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Retry.Attempts != 2 || cfg.Retry.MaxDelay.Duration != 2*time.Second {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.Retry.BaseDelay.Duration != 500*time.Millisecond {
		t.Errorf("unset base_delay should keep default, got %v", cfg.Retry.BaseDelay)
	}
	miro := cfg.Platforms["miro"]
	if miro.AccessToken != "abc" || miro.Concurrency != 2 {
		t.Errorf("miro = %+v", miro)
	}
	if miro.BaseURL != "https://api.miro.com/v2" || miro.RatePerSecond != 8 {
		t.Errorf("miro defaults lost: %+v", miro)
	}
	if !cfg.Platforms["lucid"].Disabled {
		t.Error("lucid should be disabled")
	}
	if cfg.History.Backend != HistoryRedis {
		t.Errorf("history backend = %q", cfg.History.Backend)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("cache backend = %q, want default file", cfg.Cache.Backend)
	}
}

func TestParseCache(t *testing.T) {
	cfg, err := Parse("[cache]\nbackend = \"redis\"\nurl = \"redis://localhost:6379/1\"\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.URL != "redis://localhost:6379/1" {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	cfg = Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := map[string]string{"MERMAIDBOARD_CACHE_BACKEND": "null"}[k]
		return v, ok
	})
	if cfg.Cache.Backend != CacheNull {
		t.Errorf("env cache backend = %q", cfg.Cache.Backend)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[retry\nattempts = 1"},
		{"unknown key", "[retry]\ncolour = 1"},
		{"bad duration", "[retry]\nbase_delay = \"soon\""},
		{"zero attempts", "[retry]\nattempts = 0"},
		{"bad backend", "[history]\nbackend = \"sqlite\""},
		{"negative rate", "[platforms.miro]\nrate_per_second = -1"},
		{"bad url", "[platforms.miro]\nbase_url = \"ftp://x\""},
		{"bad cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis cache without url", "[cache]\nbackend = \"redis\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MERMAIDBOARD_MIRO_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Platforms["miro"].AccessToken != "from-env" {
		t.Errorf("token = %q", cfg.Platforms["miro"].AccessToken)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MIRO_ACCESS_TOKEN":            "legacy",
		"MERMAIDBOARD_LUCID_TOKEN":     " lucid ",
		"MERMAIDBOARD_HISTORY_BACKEND": "postgres",
		"DATABASE_URL":                 "postgres://localhost/mermaid",
		"MERMAIDBOARD_SERVER_ADDR":     "127.0.0.1:8000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.ApplyEnv(lookup)
	if cfg.Platforms["miro"].AccessToken != "legacy" || cfg.Platforms["lucid"].AccessToken != "lucid" {
		t.Errorf("tokens = %q, %q", cfg.Platforms["miro"].AccessToken, cfg.Platforms["lucid"].AccessToken)
	}
	if cfg.History.Backend != HistoryPostgres || cfg.History.DSN != "postgres://localhost/mermaid" {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Server.Addr != "127.0.0.1:8000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	env["MERMAIDBOARD_MIRO_TOKEN"] = "primary"
	env["MERMAIDBOARD_HISTORY_DSN"] = "postgres://other/db"
	cfg = Default()
	cfg.ApplyEnv(lookup)
	if cfg.Platforms["miro"].AccessToken != "primary" {
		t.Errorf("MERMAIDBOARD_MIRO_TOKEN should win, got %q", cfg.Platforms["miro"].AccessToken)
	}
	if cfg.History.DSN != "postgres://other/db" {
		t.Errorf("dsn = %q", cfg.History.DSN)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil || d.Duration != 90*time.Second {
		t.Fatalf("UnmarshalText = %v, %v", d, err)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText = %q", text)
	}
}
