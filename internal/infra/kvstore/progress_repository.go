package kvstore

import (
	"context"
	"errors"

	"github.com/fardannozami/finkidz/internal/domain"
)

// ProgressRepository stores Progress records as JSON in a key-value store.
type ProgressRepository struct {
	kv domain.KeyValueStore
}

var (
	_ domain.ProgressRepository = (*ProgressRepository)(nil)
	_ domain.ProgressLister     = (*ProgressRepository)(nil)
)

// ErrScanUnsupported is returned by ListProgress when the store cannot enumerate keys.
var ErrScanUnsupported = errors.New("key-value store does not support prefix scans")

func NewProgressRepository(kv domain.KeyValueStore) *ProgressRepository {
	return &ProgressRepository{kv: kv}
}

func (r *ProgressRepository) LoadProgress(ctx context.Context, key string) (*domain.Progress, error) {
	b, err := r.kv.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	p, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) SaveProgress(ctx context.Context, key string, p domain.Progress) error {
	b, err := Encode(p)
	if err != nil {
		return err
	}
	return r.kv.Save(ctx, key, b)
}

func (r *ProgressRepository) ListProgress(ctx context.Context, prefix string) (map[string]domain.Progress, error) {
	scanner, ok := r.kv.(domain.KeyScanner)
	if !ok {
		return nil, ErrScanUnsupported
	}
	return ScanProgress(ctx, scanner, prefix)
}

// ScanProgress decodes every record under prefix, skipping corrupt ones. It
// needs a store that implements domain.KeyScanner.
func ScanProgress(ctx context.Context, scanner domain.KeyScanner, prefix string) (map[string]domain.Progress, error) {
	raw, err := scanner.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Progress, len(raw))
	for key, b := range raw {
		p, err := Decode(b)
		if err != nil {
			continue
		}
		out[key] = p
	}
	return out, nil
}
