package querycache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/redis/go-redis/v9"
)

// Store persists rendered cache entries and fans out invalidation notices.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes key and every key nested under it.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Publish(ctx context.Context, payload []byte) error
	// Subscribe delivers published payloads until ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan []byte, error)
}

const scanBatch = 100

// RedisStore keeps entries in Redis so every console replica shares one cache.
type RedisStore struct {
	rdb     *redis.Client
	channel string
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, channel: config.CacheKey.InvalidationChannel()}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	deleted, err := s.rdb.Del(ctx, prefix).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del %s: %w", prefix, err)
	}

	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis del batch: %w", err)
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	iter := s.rdb.Scan(ctx, 0, prefix+":*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return int(deleted), err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return int(deleted), fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return int(deleted), err
	}
	return int(deleted), nil
}

func (s *RedisStore) Publish(ctx context.Context, payload []byte) error {
	if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ps := s.rdb.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
