package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout: worldle:player:{id} -> Hash{key: json}
const redisKeyPrefix = "worldle:player:"

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, o RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// NewRedisStore keeps each player's data in one hash.
// A positive ttl expires players that stop playing; zero keeps them forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (r *redisStore) Get(ctx context.Context, player, key string) ([]byte, error) {
	v, err := r.rdb.HGet(ctx, redisKeyPrefix+player, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", player, key, err)
	}
	return v, nil
}

func (r *redisStore) Set(ctx context.Context, player, key string, value []byte) error {
	hashKey := redisKeyPrefix + player
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, hashKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set %s/%s: %w", player, key, err)
	}
	return nil
}

func (r *redisStore) Keys(ctx context.Context, player string) ([]string, error) {
	keys, err := r.rdb.HKeys(ctx, redisKeyPrefix+player).Result()
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", player, err)
	}
	return keys, nil
}
