package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisKey = "mermaidboard:history"
	// redisCap bounds the list; older records are trimmed on write.
	redisCap = 1000
)

// RedisSink keeps the most recent records in a capped Redis list.
type RedisSink struct {
	client redis.UniversalClient
	key    string
}

// NewRedisSink connects to url ("redis://host:6379/0").
func NewRedisSink(ctx context.Context, url string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("history: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("history: redis unreachable: %w", err)
	}
	return NewRedisSinkFromClient(client, redisKey), nil
}

// NewRedisSinkFromClient stores records under key using client.
func NewRedisSinkFromClient(client redis.UniversalClient, key string) *RedisSink {
	return &RedisSink{client: client, key: key}
}

func (s *RedisSink) Add(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("history: encode record: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, s.key, data)
		p.LTrim(ctx, s.key, 0, redisCap-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("history: redis push: %w", err)
	}
	return nil
}

func (s *RedisSink) List(ctx context.Context, limit int) ([]Record, error) {
	items, err := s.client.LRange(ctx, s.key, 0, int64(limitOrDefault(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("history: redis range: %w", err)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		if json.Unmarshal([]byte(item), &r) == nil {
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *RedisSink) Close() error { return s.client.Close() }

var _ Sink = (*RedisSink)(nil)
