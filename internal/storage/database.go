package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/shopstalk/internal/types"
)

// MongoSink writes each destination to its own MongoDB collection. A
// rewrite of a destination drops the collection first, mirroring the
// replace-on-write behavior of the file sinks.
type MongoSink struct {
	client *mongo.Client
	db     *mongo.Database
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(uri, database string, logger *slog.Logger) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	return &MongoSink{
		client: client,
		db:     client.Database(database),
		logger: logger.With("component", "mongo_sink"),
	}, nil
}

func (s *MongoSink) Name() string { return "mongodb" }

func (s *MongoSink) Write(records []types.Product, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := s.db.Collection(destination)
	if err := coll.Drop(ctx); err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("drop %s: %w", destination, err)}
	}

	if len(records) == 0 {
		s.logger.Info("mongodb collection emptied", "collection", destination)
		return nil
	}

	docs := make([]any, len(records))
	for i, record := range records {
		docs[i] = record
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("insert into %s: %w", destination, err)}
	}

	s.count += len(records)
	s.logger.Info("mongodb written", "collection", destination, "rows", len(records))
	return nil
}

func (s *MongoSink) Close() error {
	s.logger.Info("mongodb sink closing", "total_rows", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
