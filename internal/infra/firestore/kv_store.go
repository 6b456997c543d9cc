package firestore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per key.
const DefaultCollection = "finkidz_kv"

type entry struct {
	Key       string    `firestore:"key"`
	Payload   string    `firestore:"payload"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type KVStore struct {
	client     *firestore.Client
	collection string
}

func NewKVStore(client *firestore.Client, collection string) *KVStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &KVStore{client: client, collection: collection}
}

// docID maps a key to a valid document id; slashes would otherwise nest collections.
func docID(key string) string { return url.PathEscape(key) }

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Collection(s.collection).Doc(docID(key)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var e entry
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("unmarshal entry %s: %w", key, err)
	}
	return []byte(e.Payload), nil
}

func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.client.Collection(s.collection).Doc(docID(key)).Set(ctx, entry{
		Key:       key,
		Payload:   string(value),
		UpdatedAt: time.Now().UTC(),
	})
	return err
}

func (s *KVStore) ScanPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	query := s.client.Collection(s.collection).
		Where("key", ">=", prefix).
		Where("key", "<", prefix+"\uf8ff")
	iter := query.Documents(ctx)
	defer iter.Stop()

	out := make(map[string][]byte)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var e entry
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", doc.Ref.ID, err)
		}
		out[e.Key] = []byte(e.Payload)
	}
	return out, nil
}
