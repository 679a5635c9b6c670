package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
)

// RedisCartStorage is the durable home of a customer's cart between visits.
// Carts expire after ttl of inactivity; ttl <= 0 keeps them forever.
type RedisCartStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStorage(rdb *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{rdb: rdb, ttl: ttl}
}

func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, "cart:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

func (s *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, "cart:"+key, data, s.ttl).Err()
}

func (s *RedisCartStorage) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, "cart:"+key).Err()
}

var _ cart.Storage = (*RedisCartStorage)(nil)
