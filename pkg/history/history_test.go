package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/config"
	"github.com/matzehuels/mermaidboard/pkg/errors"
)

func TestPreview(t *testing.T) {
	long := strings.Repeat("é", 150)
	tests := []struct {
		name, src, want string
	}{
		{"short", "flowchart TD\nA-->B", "flowchart TD\nA-->B"},
		{"exactly 100", strings.Repeat("x", 100), strings.Repeat("x", 100)},
		{"cut on runes", long, strings.Repeat("é", 100) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Record{SourceCode: tt.src}).Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRecord(t *testing.T) {
	a := NewRecord("src", "miro", StatusSuccess)
	b := NewRecord("src", "miro", StatusSuccess)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids %q and %q should be unique", a.ID, b.ID)
	}
	if a.CreatedAt.Location() != time.UTC {
		t.Error("CreatedAt should be UTC")
	}
	e := a.Entry()
	if e.Platform != "miro" || e.Status != StatusSuccess || e.Preview != "src" {
		t.Errorf("Entry() = %+v", e)
	}
}

func TestFileSink(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileSink(filepath.Join(t.TempDir(), "nested", "history.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	empty, err := s.List(ctx, 0)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List on missing file = %v, %v", empty, err)
	}

	for i := range 5 {
		r := NewRecord(fmt.Sprintf("src %d", i), "miro", StatusSuccess)
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	got, err := s.List(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("List(3) returned %d records", len(got))
	}
	for i, want := range []string{"src 4", "src 3", "src 2"} {
		if got[i].SourceCode != want {
			t.Errorf("record %d = %q, want %q (newest first)", i, got[i].SourceCode, want)
		}
	}
}

func TestFileSinkSkipsCorruptLines(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, _ := NewFileSink(path)
	_ = s.Add(ctx, NewRecord("good", "miro", StatusFailed))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, "{truncated")
	f.Close()

	got, err := s.List(ctx, 0)
	if err != nil || len(got) != 1 || got[0].SourceCode != "good" {
		t.Errorf("List() = %v, %v", got, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.History{Backend: config.HistoryNull})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(NullSink); !ok {
		t.Errorf("null backend gave %T", s)
	}

	path := filepath.Join(t.TempDir(), "h.jsonl")
	s, err = Open(ctx, config.History{Backend: config.HistoryFile, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if fs, ok := s.(*FileSink); !ok || fs.Path() != path {
		t.Errorf("file backend gave %T", s)
	}

	if _, err := Open(ctx, config.History{Backend: "cassandra"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func TestDefaultFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultFilePath(); got != filepath.Join("/state", "mermaidboard", "history.jsonl") {
		t.Errorf("DefaultFilePath() = %s", got)
	}
}

// exerciseSink runs the shared contract against a live backend.
func exerciseSink(t *testing.T, s Sink) {
	t.Helper()
	ctx := context.Background()
	first := NewRecord("first", "miro", StatusSuccess)
	first.ResultURL = "https://miro.com/app/board/b1/"
	second := NewRecord("second", "miro", StatusFailed)
	second.ErrorMessage = "token expired"
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	for _, r := range []Record{first, second} {
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ResultURL != first.ResultURL {
		t.Errorf("List() = %+v", got)
	}
}

func TestDatabaseSinks(t *testing.T) {
	ctx := context.Background()
	backends := []struct {
		env  string
		open func(string) (Sink, error)
	}{
		{"MERMAIDBOARD_TEST_REDIS", func(dsn string) (Sink, error) { return NewRedisSink(ctx, dsn) }},
		{"MERMAIDBOARD_TEST_MONGO", func(dsn string) (Sink, error) { return NewMongoSink(ctx, dsn) }},
		{"MERMAIDBOARD_TEST_POSTGRES", func(dsn string) (Sink, error) { return NewPostgresSink(ctx, dsn) }},
	}
	for _, b := range backends {
		t.Run(b.env, func(t *testing.T) {
			dsn := os.Getenv(b.env)
			if dsn == "" {
				t.Skipf("%s not set", b.env)
			}
			s, err := b.open(dsn)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
			exerciseSink(t, s)
		})
	}
}

func TestDatabaseSinksBadDSN(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisSink(ctx, "::"); err == nil {
		t.Error("redis: expected parse error")
	}
	if _, err := NewPostgresSink(ctx, "postgres://[bad"); err == nil {
		t.Error("postgres: expected parse error")
	}
}
