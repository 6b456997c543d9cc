package firestore

import "testing"

func TestDocID(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"finkidz_stats", "finkidz_stats"},
		{"finkidz_stats:6281234@s.whatsapp.net", "finkidz_stats:6281234@s.whatsapp.net"},
		{"a/b", "a%2Fb"},
	}
	for _, tt := range tests {
		if got := docID(tt.key); got != tt.want {
			t.Errorf("docID(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestNewKVStore_DefaultCollection(t *testing.T) {
	if s := NewKVStore(nil, ""); s.collection != DefaultCollection {
		t.Errorf("Expected %s, got %s", DefaultCollection, s.collection)
	}
	if s := NewKVStore(nil, "custom"); s.collection != "custom" {
		t.Errorf("Expected custom, got %s", s.collection)
	}
}
