package persistence

import (
	"context"
	"encoding/json"

	"firebase-mcp/internal/firestore/domain/model"
	"firebase-mcp/internal/firestore/domain/repository"
	"firebase-mcp/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ repository.ChangePublisher = (*RedisChangeFeed)(nil)

// RedisChangeFeed appends every document mutation to a Redis stream.
type RedisChangeFeed struct {
	client    *redis.Client
	stream    string
	maxLength int64
	logger    logger.Logger
}

// NewRedisChangeFeed creates a change feed writing to stream. maxLength caps
// the stream approximately; zero leaves it unbounded.
func NewRedisChangeFeed(client *redis.Client, stream string, maxLength int64, log logger.Logger) *RedisChangeFeed {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisChangeFeed{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
		logger:    log.WithComponent("change-feed"),
	}
}

// Publish appends event to the stream.
func (r *RedisChangeFeed) Publish(ctx context.Context, event model.ChangeEvent) error {
	data, err := json.Marshal(model.NormalizeTimestamps(event.Data))
	if err != nil {
		r.logger.Error("Failed to serialize change data", zap.Error(err))
		return err
	}

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"type":      string(event.Type),
			"path":      event.Path,
			"data":      data,
			"timestamp": event.Timestamp.UnixNano(),
		},
	}
	if r.maxLength > 0 {
		args.MaxLen = r.maxLength
		args.Approx = true
	}

	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Error("Failed to publish change event",
			zap.String("stream", r.stream),
			zap.String("path", event.Path),
			zap.Error(err))
		return err
	}

	r.logger.Debug("Change event published",
		zap.String("stream", r.stream),
		zap.String("id", id),
		zap.String("type", string(event.Type)))
	return nil
}

// Ping checks the Redis connection.
func (r *RedisChangeFeed) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisChangeFeed) Close() error {
	return r.client.Close()
}
