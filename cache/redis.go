package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Client *redis.Client
	ctx    = context.Background()
)

// InitRedis connects the process-wide client. The service keeps working
// without redis: callers treat every cache error as a miss.
func InitRedis(addr string, logger *zap.Logger) error {
	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := Client.Ping(ctx).Err(); err != nil {
		logger.Error("redis_connection_failed",
			zap.Error(err),
			zap.String("addr", addr),
		)
		return err
	}

	logger.Info("redis_connected", zap.String("addr", addr))
	return nil
}

func Enabled() bool {
	return Client != nil
}

func Set(key string, value interface{}, expiration time.Duration) error {
	if Client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return Client.Set(ctx, key, data, expiration).Err()
}

// Get reads a key and unmarshals it into dest. A miss is an error the caller
// falls through on.
func Get(key string, dest interface{}) error {
	if Client == nil {
		return redis.Nil
	}
	val, err := Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss: %w", err)
	} else if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func Delete(keys ...string) error {
	if Client == nil || len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching pattern (e.g. "feed:team-1:*").
func DeletePattern(pattern string) error {
	if Client == nil {
		return nil
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
			break
		}
	}
	return nil
}

func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
