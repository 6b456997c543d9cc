package domain

import (
	"context"
	"errors"
	"time"
)

// PointsPerLesson is granted once per lesson on first completion.
const PointsPerLesson = 100

var (
	// ErrCorruptProgress marks a stored record that could not be parsed or failed validation.
	ErrCorruptProgress = errors.New("stored progress is corrupt")
	// ErrUnknownLesson is returned by lookups for ids missing from the catalog.
	ErrUnknownLesson = errors.New("unknown lesson")
	// ErrInvalidPreference rejects theme or language values outside the supported set.
	ErrInvalidPreference = errors.New("invalid preference")
)

// Progress is one learner's persisted state.
type Progress struct {
	Points           int       `json:"points"`
	CompletedLessons []string  `json:"completedLessons"`
	Favorites        []string  `json:"favorites"`
	CurrentStreak    int       `json:"currentStreak"`
	LastLoginDate    time.Time `json:"lastLoginDate"`
	Badges           []string  `json:"badges"`
}

// NewProgress returns the first-run state.
func NewProgress(now time.Time) Progress {
	return Progress{
		CompletedLessons: []string{},
		Favorites:        []string{},
		CurrentStreak:    1,
		LastLoginDate:    now,
		Badges:           []string{},
	}
}

func (p Progress) HasCompleted(id string) bool { return contains(p.CompletedLessons, id) }

func (p Progress) IsFavorite(id string) bool { return contains(p.Favorites, id) }

func (p Progress) HasBadge(id string) bool { return contains(p.Badges, id) }

// Clone copies the slices so the result can be mutated independently.
func (p Progress) Clone() Progress {
	out := p
	out.CompletedLessons = append([]string{}, p.CompletedLessons...)
	out.Favorites = append([]string{}, p.Favorites...)
	out.Badges = append([]string{}, p.Badges...)
	return out
}

// MergeBadges appends ids that are not yet owned and reports how many were added.
func (p *Progress) MergeBadges(ids []string) int {
	added := 0
	for _, id := range ids {
		if id == "" || p.HasBadge(id) {
			continue
		}
		p.Badges = append(p.Badges, id)
		added++
	}
	return added
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// Dedupe keeps the first occurrence of every non-empty value.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// KeyValueStore is the durable medium. Load returns nil, nil for a missing key.
type KeyValueStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// KeyScanner is implemented by stores that can enumerate records by key prefix.
type KeyScanner interface {
	ScanPrefix(ctx context.Context, prefix string) (map[string][]byte, error)
}

// ProgressRepository loads and saves Progress records. LoadProgress returns
// nil, nil when nothing is stored under key.
type ProgressRepository interface {
	LoadProgress(ctx context.Context, key string) (*Progress, error)
	SaveProgress(ctx context.Context, key string, p Progress) error
}
