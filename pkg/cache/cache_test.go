package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) hit")
	}
	if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "short", []byte("x"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	_ = c.Set(ctx, "forever", []byte("x"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("x"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	pk := k.ParseKey("abc")
	if !strings.HasPrefix(pk, "parse:") || pk != k.ParseKey("abc") {
		t.Errorf("ParseKey = %s", pk)
	}
	if pk == k.ParseKey("abd") {
		t.Error("different sources share a parse key")
	}

	svg := k.PreviewKey("abc", PreviewKeyOpts{Format: "svg"})
	dot := k.PreviewKey("abc", PreviewKeyOpts{Format: "dot"})
	if svg == dot || !strings.HasPrefix(svg, "preview:") {
		t.Errorf("PreviewKey svg=%s dot=%s", svg, dot)
	}

	other := &DefaultKeyer{version: "v9.9.9"}
	if other.ParseKey("abc") == pk {
		t.Error("keys should change with the build version")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if got, want := scoped.ParseKey("abc"), "staging:"+inner.ParseKey("abc"); got != want {
		t.Errorf("ParseKey = %s, want %s", got, want)
	}
	opts := PreviewKeyOpts{Format: "svg"}
	if got, want := scoped.PreviewKey("abc", opts), "staging:"+inner.PreviewKey("abc", opts); got != want {
		t.Errorf("PreviewKey = %s, want %s", got, want)
	}
	if NewScopedKeyer(nil, "p:").ParseKey("x") != "p:"+inner.ParseKey("x") {
		t.Error("nil inner should default to DefaultKeyer")
	}
}

// TestRedisCache runs against a real server when MERMAIDBOARD_TEST_REDIS is
// set, e.g. redis://localhost:6379/15.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("MERMAIDBOARD_TEST_REDIS")
	if url == "" {
		t.Skip("MERMAIDBOARD_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "mermaidboard-test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	_ = c.Delete(ctx, "k")
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get after Delete = %v, %v", hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url", ""); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestSourceHash(t *testing.T) {
	if SourceHash("flowchart", "A") == SourceHash("sequence", "A") {
		t.Error("kind does not change the hash")
	}
	if SourceHash("a", "b") == SourceHash("", "ab") {
		t.Error("kind and text run together")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3", n, err)
	}
	left, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("root removed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("%d entries left under the root", len(left))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}
