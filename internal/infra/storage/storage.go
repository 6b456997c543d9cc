package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	gcfirestore "cloud.google.com/go/firestore"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/fardannozami/finkidz/internal/config"
	"github.com/fardannozami/finkidz/internal/domain"
	"github.com/fardannozami/finkidz/internal/infra/firestore"
	"github.com/fardannozami/finkidz/internal/infra/redis"
	"github.com/fardannozami/finkidz/internal/infra/sqlite"
)

// Store is a key-value backend that can also enumerate keys.
type Store interface {
	domain.KeyValueStore
	domain.KeyScanner
}

// Open connects to the backend selected by cfg.Storage. The returned close
// function releases the connection.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func() error, error) {
	switch cfg.Storage {
	case "sqlite":
		return openSQLite(ctx, cfg.SQLitePath, logger)
	case "redis":
		conn := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store := redis.NewKVStore(conn)
		if err := store.Ping(ctx); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis storage", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return store, conn.Close, nil
	case "firestore":
		client, err := gcfirestore.NewClient(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		logger.Info("using firestore storage",
			zap.String("project", cfg.FirestoreProject),
			zap.String("collection", cfg.FirestoreCollection),
		)
		return firestore.NewKVStore(client, cfg.FirestoreCollection), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

func openSQLite(ctx context.Context, path string, logger *zap.Logger) (Store, func() error, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	// WAL and busy timeout avoid "database is locked" while whatsmeow shares the file system
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	store := sqlite.NewKVStore(db)
	if err := store.InitTable(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init kv table: %w", err)
	}
	logger.Info("using sqlite storage", zap.String("path", path))
	return store, db.Close, nil
}
