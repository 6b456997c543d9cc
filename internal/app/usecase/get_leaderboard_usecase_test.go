package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fardannozami/finkidz/internal/app/usecase"
	"github.com/fardannozami/finkidz/internal/domain"
)

// =============================================================================
// LEADERBOARD USECASE TESTS
// =============================================================================
//
// Ranking: points desc, then current streak desc, then name.
// Users without a stored display name are shown by id.
//
// =============================================================================

func seedUser(repo *memRepo, kv *memKV, userID, name string, lessons []string, streak int, last time.Time) {
	p := domain.NewProgress(last)
	p.CompletedLessons = lessons
	p.Points = domain.PointsPerLesson * len(lessons)
	p.CurrentStreak = streak
	repo.records[domain.UserKey(domain.StatsKey, userID)] = p
	if name != "" {
		kv.data[domain.UserKey(domain.NameKey, userID)] = []byte(name)
	}
}

func TestLeaderboard_Rank(t *testing.T) {
	repo, kv := newMemRepo(), newMemKV()
	now := time.Now()
	seedUser(repo, kv, "u1", "Alice", []string{"cpi"}, 1, now)
	seedUser(repo, kv, "u2", "Bob", []string{"cpi", "bonds"}, 1, now)
	seedUser(repo, kv, "u3", "Carol", []string{"forex"}, 4, now)
	seedUser(repo, kv, "u4", "", []string{}, 1, now)
	// the local learner's record is not a chat user
	repo.records[domain.StatsKey] = domain.NewProgress(now)

	entries, err := usecase.NewGetLeaderboardUsecase(repo, kv).Rank(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"Bob", "Carol", "Alice", "u4"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("Rank %d: expected %s, got %s", i+1, name, entries[i].Name)
		}
	}
}

func TestLeaderboard_Execute(t *testing.T) {
	repo, kv := newMemRepo(), newMemKV()
	now := time.Now()
	seedUser(repo, kv, "u1", "Alice", []string{"cpi", "bonds"}, 3, now)
	seedUser(repo, kv, "u2", "Bob", []string{"forex"}, 2, now.AddDate(0, 0, -10))

	msg, err := usecase.NewGetLeaderboardUsecase(repo, kv).Execute(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"FinKidz Leaderboard",
		"1 learners keep the streak 🔥",
		"1 lost the streak 💔",
		"1. Alice - 200 pts, 2 lessons, 3 days 🔥",
		"2. Bob - 100 pts, 1 lessons, 2 days 💔",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in:\n%s", want, msg)
		}
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	msg, err := usecase.NewGetLeaderboardUsecase(newMemRepo(), newMemKV()).Execute(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(msg, "No learners yet") {
		t.Errorf("Expected empty message, got %q", msg)
	}
}

func TestLeaderboard_WithClock_UsesConfiguredZone(t *testing.T) {
	repo, kv := newMemRepo(), newMemKV()
	jerusalem := time.FixedZone("IST", 3*60*60)
	// 22:30 UTC on April 1st is already April 2nd in UTC+3.
	now := time.Date(2026, time.April, 1, 22, 30, 0, 0, time.UTC).In(jerusalem)
	seedUser(repo, kv, "u1", "Alice", []string{"cpi"}, 2, now.AddDate(0, 0, -2))
	seedUser(repo, kv, "u2", "Bob", []string{"forex"}, 5, now.AddDate(0, 0, -3))

	msg, err := usecase.NewGetLeaderboardUsecase(repo, kv).
		WithClock(func() time.Time { return now }).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"FinKidz Leaderboard (02-04-2026)",
		"1. Bob - 100 pts, 1 lessons, 5 days 💔",
		"2. Alice - 100 pts, 1 lessons, 2 days 🔥",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in:\n%s", want, msg)
		}
	}
}
