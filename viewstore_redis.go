package wikiquiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "wikiquiz:view:"
	redisUpdateRetries = 5
)

// RedisStore keeps views in redis so several frontends can share visitors.
// Expiry is left to redis through the key TTL.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects to addr. A zero ttl keeps views forever.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Shell, error) {
	data, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrViewNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeShell(data)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Shell) error) error {
	key := redisKey(id)
	txf := func(tx *goredis.Tx) error {
		shell := NewShell()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return fmt.Errorf("redis get: %w", err)
		default:
			if shell, err = decodeShell(data); err != nil {
				return err
			}
		}

		if err := fn(shell); err != nil {
			return err
		}
		shell.UpdatedAt = time.Now().UTC()
		out, err := encodeShell(shell)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			VerboseLog("redis view %s changed during update, retrying", id)
			continue
		}
		return err
	}
	return fmt.Errorf("redis update of view %s: too much contention", id)
}

// Prune is a no-op; redis expires views on its own.
func (s *RedisStore) Prune(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
