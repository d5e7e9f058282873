package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/shortener/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisKey - хэш, в котором поле равно идентификатору, а значение - URL.
const RedisKey = "shortens"

// RedisRepository хранит сопоставления в хэше Redis.
type RedisRepository struct {
	client *redis.Client
	key    string
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, key: RedisKey}
}

// Insert использует HSETNX: поле записывается, только если его ещё нет.
func (r *RedisRepository) Insert(ctx context.Context, m model.Mapping) error {
	ok, err := r.client.HSetNX(ctx, r.key, m.ID, m.URL).Result()
	if err != nil {
		return fmt.Errorf("redis hsetnx: %w", err)
	}
	if !ok {
		return model.ErrDuplicateID
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (string, error) {
	url, err := r.client.HGet(ctx, r.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return url, nil
}

func (r *RedisRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.HLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen: %w", err)
	}
	return n, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close(context.Context) error {
	return r.client.Close()
}
