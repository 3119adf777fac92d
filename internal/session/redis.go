package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/pkg/metrics"
)

const redisKeyPrefix = "session:"

// RedisStore persists state in Redis with a per-session TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (model.State, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordSessionOp("redis", "get", nil)
		return model.State{}, nil
	}
	if err != nil {
		metrics.RecordSessionOp("redis", "get", err)
		return model.State{}, fmt.Errorf("redis get %s: %w", userID, err)
	}

	state, err := decodeState(data)
	metrics.RecordSessionOp("redis", "get", err)
	return state, err
}

func (s *RedisStore) Save(ctx context.Context, userID string, state model.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	err = s.client.Set(ctx, redisKeyPrefix+userID, data, s.ttl).Err()
	metrics.RecordSessionOp("redis", "save", err)
	if err != nil {
		return fmt.Errorf("redis set %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	err := s.client.Del(ctx, redisKeyPrefix+userID).Err()
	metrics.RecordSessionOp("redis", "delete", err)
	if err != nil {
		return fmt.Errorf("redis del %s: %w", userID, err)
	}
	return nil
}
