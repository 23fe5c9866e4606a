// Package history records conversion attempts.
//
// A [Sink] stores [Record] values and lists the most recent ones. Sinks are
// pluggable: [NullSink] drops everything, [FileSink] appends JSON lines to a
// local file, and [RedisSink], [MongoSink] and [PostgresSink] store records
// in a shared database for the HTTP server. Use [Open] to build the sink
// named by configuration.
//
// History is best effort. Callers log a failed Add and carry on; a
// conversion never fails because its record could not be written.
package history

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/mermaidboard/pkg/config"
	"github.com/matzehuels/mermaidboard/pkg/errors"
)

// Status is the outcome of a conversion.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// DefaultLimit is the number of records List returns when limit <= 0.
const DefaultLimit = 50

// previewRunes is how much of the source a listing shows.
const previewRunes = 100

// Record is one conversion attempt.
type Record struct {
	ID             string    `json:"id" bson:"_id"`
	SourceCode     string    `json:"source_code" bson:"source_code"`
	TargetPlatform string    `json:"target_platform" bson:"target_platform"`
	ResultURL      string    `json:"result_url,omitempty" bson:"result_url,omitempty"`
	Status         Status    `json:"status" bson:"status"`
	ErrorMessage   string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord starts a record with a fresh ID and the current UTC time.
func NewRecord(source, platform string, status Status) Record {
	return Record{
		ID:             uuid.NewString(),
		SourceCode:     source,
		TargetPlatform: platform,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
}

// Preview returns the first 100 characters of the source, with "..."
// appended when it was cut.
func (r Record) Preview() string {
	if utf8.RuneCountInString(r.SourceCode) <= previewRunes {
		return r.SourceCode
	}
	return string([]rune(r.SourceCode)[:previewRunes]) + "..."
}

// Entry is the listing form of a record.
type Entry struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Status    Status    `json:"status"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Preview   string    `json:"preview"`
}

// Entry converts r to its listing form.
func (r Record) Entry() Entry {
	return Entry{
		ID:        r.ID,
		Platform:  r.TargetPlatform,
		Status:    r.Status,
		URL:       r.ResultURL,
		Error:     r.ErrorMessage,
		CreatedAt: r.CreatedAt,
		Preview:   r.Preview(),
	}
}

// Sink stores records.
type Sink interface {
	// Add stores r.
	Add(ctx context.Context, r Record) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open creates the sink selected by cfg.
func Open(ctx context.Context, cfg config.History) (Sink, error) {
	switch cfg.Backend {
	case config.HistoryNull, "":
		return NullSink{}, nil
	case config.HistoryFile:
		return nonNil(NewFileSink(cfg.Path))
	case config.HistoryRedis:
		return nonNil(NewRedisSink(ctx, cfg.DSN))
	case config.HistoryMongo:
		return nonNil(NewMongoSink(ctx, cfg.DSN))
	case config.HistoryPostgres:
		return nonNil(NewPostgresSink(ctx, cfg.DSN))
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", cfg.Backend)
}

// nonNil keeps a failed constructor from yielding a non-nil Sink holding a
// nil pointer.
func nonNil[S Sink](s S, err error) (Sink, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// NullSink discards records.
type NullSink struct{}

func (NullSink) Add(context.Context, Record) error           { return nil }
func (NullSink) List(context.Context, int) ([]Record, error) { return []Record{}, nil }
func (NullSink) Close() error                                { return nil }

var _ Sink = NullSink{}
