package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fardannozami/finkidz/internal/domain"
)

// LeaderboardEntry is one ranked chat user.
type LeaderboardEntry struct {
	UserID string
	Name   string
	domain.Progress
}

type GetLeaderboardUsecase struct {
	lister domain.ProgressLister
	names  domain.KeyScanner
	now    func() time.Time
}

func NewGetLeaderboardUsecase(lister domain.ProgressLister, names domain.KeyScanner) *GetLeaderboardUsecase {
	return &GetLeaderboardUsecase{lister: lister, names: names, now: time.Now}
}

// WithClock replaces the time source used for the header date and streak status.
func (uc *GetLeaderboardUsecase) WithClock(now func() time.Time) *GetLeaderboardUsecase {
	uc.now = now
	return uc
}

// Rank orders users by points, then streak, then name.
func (uc *GetLeaderboardUsecase) Rank(ctx context.Context) ([]LeaderboardEntry, error) {
	statsPrefix := domain.StatsKey + ":"
	records, err := uc.lister.ListProgress(ctx, statsPrefix)
	if err != nil {
		return nil, err
	}

	names := map[string][]byte{}
	if uc.names != nil {
		names, err = uc.names.ScanPrefix(ctx, domain.NameKey+":")
		if err != nil {
			return nil, err
		}
	}

	entries := make([]LeaderboardEntry, 0, len(records))
	for key, p := range records {
		userID := strings.TrimPrefix(key, statsPrefix)
		name := string(names[domain.UserKey(domain.NameKey, userID)])
		if name == "" {
			name = userID
		}
		entries = append(entries, LeaderboardEntry{UserID: userID, Name: name, Progress: p})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		return a.Name < b.Name
	})
	return entries, nil
}

func (uc *GetLeaderboardUsecase) Execute(ctx context.Context) (string, error) {
	entries, err := uc.Rank(ctx)
	if err != nil {
		return "", err
	}

	now := uc.now()
	active := 0
	for _, e := range entries {
		if domain.StreakExtends(e.LastLoginDate, now) {
			active++
		}
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🏆 FinKidz Leaderboard (%s)\n\n", now.Format("02-01-2006")))
	if len(entries) == 0 {
		sb.WriteString("No learners yet. Send #lessons to start!")
		return sb.String(), nil
	}
	sb.WriteString(fmt.Sprintf("%d learners keep the streak 🔥\n", active))
	sb.WriteString(fmt.Sprintf("%d lost the streak 💔\n\n", len(entries)-active))

	for i, e := range entries {
		mark := "🔥"
		if !domain.StreakExtends(e.LastLoginDate, now) {
			mark = "💔"
		}
		sb.WriteString(fmt.Sprintf("%d. %s - %d pts, %d lessons, %d days %s\n",
			i+1, e.Name, e.Points, len(e.CompletedLessons), e.CurrentStreak, mark))
	}
	sb.WriteString("\nKeep learning, every lesson is +100 💰")
	return sb.String(), nil
}
