package history

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "mermaidboard"
	mongoCollection = "conversion_history"
)

// MongoSink stores records as documents keyed by record ID.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to uri and uses the mermaidboard.conversion_history
// collection, creating a descending created_at index.
func NewMongoSink(ctx context.Context, uri string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("history: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("history: mongo unreachable: %w", err)
	}
	coll := client.Database(mongoDatabase).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("history: mongo index: %w", err)
	}
	return &MongoSink{client: client, coll: coll}, nil
}

func (s *MongoSink) Add(ctx context.Context, r Record) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("history: mongo insert: %w", err)
	}
	return nil
}

func (s *MongoSink) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limitOrDefault(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("history: mongo find: %w", err)
	}
	records := []Record{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("history: mongo decode: %w", err)
	}
	return records, nil
}

func (s *MongoSink) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Sink = (*MongoSink)(nil)
