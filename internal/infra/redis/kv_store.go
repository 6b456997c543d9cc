package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"
)

// KVStore keeps values as plain Redis strings without expiry.
type KVStore struct {
	conn *redis.Client
}

// NewClient create a redis client
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewKVStore(conn *redis.Client) *KVStore {
	return &KVStore{conn: conn}
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.conn.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	return s.conn.Set(ctx, key, value, 0).Err()
}

// ScanPrefix walks the keyspace with SCAN; keys removed mid-scan are skipped.
func (s *KVStore) ScanPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	iter := s.conn.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		b, err := s.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		if b != nil {
			out[key] = b
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks connectivity at startup.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx).Err()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globEscaper.Replace(s) }
