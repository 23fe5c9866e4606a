// Package config loads mermaidboard configuration from TOML.
//
// Values come from three layers, later ones winning:
//
//  1. [Default]
//  2. A TOML file passed to [Load] (or the file at [DefaultPath] if present)
//  3. Environment variables for secrets and deployment settings
//
// Recognised environment variables:
//
//	MERMAIDBOARD_<PLATFORM>_TOKEN   access token for a platform, e.g. MERMAIDBOARD_MIRO_TOKEN
//	MIRO_ACCESS_TOKEN               fallback token for miro
//	MERMAIDBOARD_HISTORY_BACKEND    history backend (null, file, redis, mongo, postgres)
//	MERMAIDBOARD_HISTORY_DSN        history connection string
//	MERMAIDBOARD_CACHE_BACKEND      cache backend (null, file, redis)
//	MERMAIDBOARD_CACHE_URL          redis URL for the redis cache backend
//	DATABASE_URL                    fallback history DSN for the postgres backend
//	MERMAIDBOARD_SERVER_ADDR        HTTP listen address
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
)

// Duration is a time.Duration that decodes from TOML strings like "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete runtime configuration.
type Config struct {
	Retry     Retry               `toml:"retry"`
	Platforms map[string]Platform `toml:"platforms"`
	History   History             `toml:"history"`
	Cache     Cache               `toml:"cache"`
	Server    Server              `toml:"server"`
}

// Retry is the backoff policy for remote calls.
type Retry struct {
	Attempts  int      `toml:"attempts"`
	BaseDelay Duration `toml:"base_delay"`
	MaxDelay  Duration `toml:"max_delay"`
}

// Policy converts the section to an [httputil.Policy].
func (r Retry) Policy() httputil.Policy {
	return httputil.Policy{Attempts: r.Attempts, BaseDelay: r.BaseDelay.Duration, MaxDelay: r.MaxDelay.Duration}
}

// Platform holds the settings for one whiteboard platform. Zero numeric
// fields in a file take the built-in defaults.
type Platform struct {
	Disabled      bool     `toml:"disabled"`
	AccessToken   string   `toml:"access_token"`
	BaseURL       string   `toml:"base_url"`
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
	Concurrency   int      `toml:"concurrency"`
	Timeout       Duration `toml:"timeout"`
}

// History selects where conversion records are written.
type History struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
	Path    string `toml:"path"`
}

// Cache selects where parse and preview results are cached. Dir is used by
// the file backend and defaults to the user cache directory.
type Cache struct {
	Backend string `toml:"backend"`
	URL     string `toml:"url"`
	Dir     string `toml:"dir"`
}

// Server configures the HTTP adapter.
type Server struct {
	Addr string `toml:"addr"`
}

// History backends.
const (
	HistoryNull     = "null"
	HistoryFile     = "file"
	HistoryRedis    = "redis"
	HistoryMongo    = "mongo"
	HistoryPostgres = "postgres"
)

// Cache backends.
const (
	CacheNull  = "null"
	CacheFile  = "file"
	CacheRedis = "redis"
)

var (
	historyBackends = []string{HistoryNull, HistoryFile, HistoryRedis, HistoryMongo, HistoryPostgres}
	cacheBackends   = []string{CacheNull, CacheFile, CacheRedis}
)

var defaultPlatform = Platform{
	RatePerSecond: 8,
	Burst:         8,
	Concurrency:   4,
	Timeout:       Duration{15 * time.Second},
}

// Default returns the built-in configuration.
func Default() Config {
	platform := func(baseURL string) Platform {
		p := defaultPlatform
		p.BaseURL = baseURL
		return p
	}
	return Config{
		Retry: Retry{
			Attempts:  4,
			BaseDelay: Duration{500 * time.Millisecond},
			MaxDelay:  Duration{8 * time.Second},
		},
		Platforms: map[string]Platform{
			"miro":  platform("https://api.miro.com/v2"),
			"lucid": platform("https://api.lucid.co"),
		},
		History: History{Backend: HistoryFile},
		Cache:   Cache{Backend: CacheFile},
		Server:  Server{Addr: ":8080"},
	}
}

// DefaultPath returns ~/.config/mermaidboard/config.toml (or the platform
// equivalent). It returns "" if the config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mermaidboard", "config.toml")
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. An empty path loads [DefaultPath] when that file exists.
// Unknown keys in the file are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := cfg.decodeFile(path); err != nil {
				return Config{}, err
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return err
	}
	c.fillDefaults()
	return nil
}

// fillDefaults restores defaults for platform tables, which the decoder
// replaces wholesale.
func (c *Config) fillDefaults() {
	builtin := Default().Platforms
	for name, p := range c.Platforms {
		def, ok := builtin[name]
		if !ok {
			def = defaultPlatform
		}
		if p.BaseURL == "" {
			p.BaseURL = def.BaseURL
		}
		if p.RatePerSecond == 0 {
			p.RatePerSecond = def.RatePerSecond
		}
		if p.Burst == 0 {
			p.Burst = def.Burst
		}
		if p.Concurrency == 0 {
			p.Concurrency = def.Concurrency
		}
		if p.Timeout.Duration == 0 {
			p.Timeout = def.Timeout
		}
		c.Platforms[name] = p
	}
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	return nil
}

// ApplyEnv overlays environment settings using lookup (normally
// os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	for name, p := range c.Platforms {
		token := get("MERMAIDBOARD_" + strings.ToUpper(name) + "_TOKEN")
		if token == "" && name == "miro" {
			token = get("MIRO_ACCESS_TOKEN")
		}
		if token != "" {
			p.AccessToken = token
			c.Platforms[name] = p
		}
	}

	if v := get("MERMAIDBOARD_HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := get("MERMAIDBOARD_HISTORY_DSN"); v != "" {
		c.History.DSN = v
	} else if v := get("DATABASE_URL"); v != "" && c.History.Backend == HistoryPostgres && c.History.DSN == "" {
		c.History.DSN = v
	}
	if v := get("MERMAIDBOARD_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := get("MERMAIDBOARD_CACHE_URL"); v != "" {
		c.Cache.URL = v
	}
	if v := get("MERMAIDBOARD_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Retry.Attempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry.attempts must be at least 1")
	}
	if c.Retry.BaseDelay.Duration < 0 || c.Retry.MaxDelay.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry delays must not be negative")
	}
	for name, p := range c.Platforms {
		if p.Concurrency < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "platforms.%s.concurrency must be at least 1", name)
		}
		if p.RatePerSecond < 0 || p.Burst < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "platforms.%s rate limits must not be negative", name)
		}
		if p.BaseURL != "" {
			if err := errors.ValidateURL(p.BaseURL); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "platforms.%s.base_url", name)
			}
		}
	}
	if !slices.Contains(historyBackends, c.History.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "history.backend %q is not one of %s",
			c.History.Backend, strings.Join(historyBackends, ", "))
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q is not one of %s",
			c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.url is required for the redis cache backend")
	}
	return nil
}

// PlatformNames returns configured platform names in sorted order.
func (c Config) PlatformNames() []string {
	names := make([]string, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
