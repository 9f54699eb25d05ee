package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client stays nil when Redis is disabled; every helper then reports
// ErrDisabled and callers fall through to the database.
var Client *redis.Client

var (
	ErrDisabled = errors.New("cache disabled")
	ErrMiss     = errors.New("cache miss")
)

func Enabled() bool {
	return Client != nil
}

func InitRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) error {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis_connection_failed",
			zap.Error(err),
			zap.String("addr", addr),
		)
		client.Close()
		return err
	}

	Client = client
	logger.Info("redis_connected", zap.String("addr", addr))
	return nil
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Client == nil {
		return ErrDisabled
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return Client.Set(ctx, key, data, expiration).Err()
}

// Get reads a JSON value into dest.
func Get(ctx context.Context, key string, dest interface{}) error {
	if Client == nil {
		return ErrDisabled
	}
	val, err := Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	} else if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

// Generation reads a counter that was never set as 0.
func Generation(ctx context.Context, key string) (int64, error) {
	if Client == nil {
		return 0, ErrDisabled
	}
	gen, err := Client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation failed: %w", err)
	}
	return gen, nil
}

// BumpGeneration advances a counter read by Generation. It has no TTL.
func BumpGeneration(ctx context.Context, key string) (int64, error) {
	if Client == nil {
		return 0, ErrDisabled
	}
	return Client.Incr(ctx, key).Result()
}

// DeletePattern removes every key matching a glob such as cache:<user>:*.
func DeletePattern(ctx context.Context, pattern string) error {
	if Client == nil {
		return ErrDisabled
	}
	var cursor uint64
	for {
		keys, next, err := Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := Client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys failed: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// IncrementCounter bumps key and starts its TTL on the first increment.
func IncrementCounter(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	if Client == nil {
		return 0, ErrDisabled
	}
	val, err := Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		if err := Client.Expire(ctx, key, expiration).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
