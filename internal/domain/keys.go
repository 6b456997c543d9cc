package domain

import "context"

// Storage keys. The unsuffixed forms belong to the single local learner.
const (
	StatsKey     = "finkidz_stats"
	NameKey      = "finkidz_name"
	HighScoreKey = "finkidz_high_score"
	ThemeKey     = "finkidz_theme"
	LangKey      = "finkidz_lang"
)

// UserKey scopes a base key to one chat user.
func UserKey(base, userID string) string {
	if userID == "" {
		return base
	}
	return base + ":" + userID
}

// ProgressLister enumerates stored Progress records whose key starts with prefix.
type ProgressLister interface {
	ListProgress(ctx context.Context, prefix string) (map[string]Progress, error)
}
