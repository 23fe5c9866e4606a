// Package cache stores derived artifacts (parse results, previews) keyed by
// a hash of their inputs.
//
// Backends implement [Cache]. [FileCache] suits the CLI, [RedisCache] lets
// several server processes share results, and [NullCache] disables caching.
// Keys are produced by a [Keyer] so that callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes. Parse results depend only on the source text, so they
// live longer than rendered previews, whose styling may change between
// releases.
const (
	TTLParse   = 7 * 24 * time.Hour
	TTLPreview = 24 * time.Hour
)
