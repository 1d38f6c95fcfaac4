package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps each document under "<prefix>:doc:<path>" and tracks the
// members of a collection in the sorted set "<prefix>:col:<collection>".
// All members share score 0 so the set orders them lexically.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreFromClient(rdb, prefix), nil
}

func NewRedisStoreFromClient(rdb *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "docstore"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) docKey(path string) string { return s.prefix + ":doc:" + path }

func (s *RedisStore) colKey(collection string) string { return s.prefix + ":col:" + collection }

func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, error) {
	if _, _, err := Split(path); err != nil {
		return nil, err
	}
	data, err := s.rdb.Get(ctx, s.docKey(path)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, data []byte) error {
	collection, _, err := Split(path)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.docKey(path), data, 0)
		p.ZAdd(ctx, s.colKey(collection), goredis.Z{Score: 0, Member: path})
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	collection, _, err := Split(path)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, s.docKey(path))
		p.ZRem(ctx, s.colKey(collection), path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, collection string) ([]string, error) {
	paths, err := s.rdb.ZRange(ctx, s.colKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return paths, nil
}

// ServerTime reads the Redis server clock (TIME).
func (s *RedisStore) ServerTime(ctx context.Context) (time.Time, error) {
	now, err := s.rdb.Time(ctx).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("server time: %w", err)
	}
	return now.UTC(), nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
