package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection is the collection used by [NewMongoCache].
const DefaultMongoCollection = "artifacts"

// MongoCache stores entries as documents in a MongoDB collection.
// Expired documents are treated as misses and removed on read.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and uses the given database's
// DefaultMongoCollection. Connection failures are retried with backoff.
func NewMongoCache(ctx context.Context, uri, database string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return Retryable(fmt.Errorf("%w: ping mongodb: %v", ErrUnavailable, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoCache{
		client: client,
		coll:   client.Database(database).Collection(DefaultMongoCollection),
		now:    time.Now,
	}, nil
}

// Get retrieves a value from the cache.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !entry.ExpiresAt.IsZero() && c.now().After(entry.ExpiresAt) {
		_, _ = c.coll.DeleteOne(ctx, bson.M{"_id": key})
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value in the cache.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a value from the cache.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
