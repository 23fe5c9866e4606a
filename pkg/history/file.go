package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileSink appends records to a JSON Lines file. Lines that fail to decode
// are skipped when listing.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// DefaultFilePath returns history.jsonl under the user's state directory
// (~/.local/state/mermaidboard on Linux, falling back to the cache dir).
func DefaultFilePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mermaidboard", "history.jsonl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "mermaidboard", "history.jsonl")
	}
	return filepath.Join(os.TempDir(), "mermaidboard", "history.jsonl")
}

// NewFileSink opens path, or [DefaultFilePath] when path is empty. Parent
// directories are created.
func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		path = DefaultFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	return &FileSink{path: path}, nil
}

// Path returns the file records are written to.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Add(_ context.Context, r Record) error {
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("history: encode record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("history: open: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("history: append: %w", err)
	}
	return f.Close()
}

func (s *FileSink) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}

	var records []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	for sc.Scan() {
		var r Record
		if json.Unmarshal(sc.Bytes(), &r) == nil && r.ID != "" {
			records = append(records, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("history: scan: %w", err)
	}

	// Appends are chronological, so newest is last.
	slices.Reverse(records)
	if n := limitOrDefault(limit); len(records) > n {
		records = records[:n]
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *FileSink) Close() error { return nil }

var _ Sink = (*FileSink)(nil)
