package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// KVStore keeps opaque values in a single key/value table.
type KVStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = ?`
	row := s.db.QueryRowContext(ctx, query, key)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, string(value), s.now().UTC().Format(time.RFC3339))
	return err
}

func (s *KVStore) ScanPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	query := `SELECT key, value FROM kv_store WHERE key LIKE ? ESCAPE '\' ORDER BY key`
	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = []byte(value)
	}
	return out, rows.Err()
}

func (s *KVStore) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
