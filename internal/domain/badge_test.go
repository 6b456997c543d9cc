package domain_test

import (
	"testing"
	"time"

	"github.com/fardannozami/finkidz/internal/domain"
)

// =============================================================================
// BADGE RULE SET TESTS
// =============================================================================
//
// first_step        ≥ 1 completed lesson
// knowledge_seeker  ≥ 3 completed lessons
// expert            completed count == catalog size
// rank_*            any completed lesson with that difficulty
// streak_3          current streak ≥ 3
//
// Only badges not already owned are returned.
//
// =============================================================================

type stubCatalog struct {
	lessons []domain.Lesson
}

func (c stubCatalog) Lessons() []domain.Lesson { return c.lessons }
func (c stubCatalog) Count() int               { return len(c.lessons) }
func (c stubCatalog) Lookup(id string) (domain.Lesson, bool) {
	for _, l := range c.lessons {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Lesson{}, false
}

func testCatalog() stubCatalog {
	return stubCatalog{lessons: []domain.Lesson{
		{ID: "income-expense", Category: domain.CategoryBasics, Difficulty: domain.DifficultyBeginner},
		{ID: "inflation", Category: domain.CategoryBasics, Difficulty: domain.DifficultyAdvanced},
		{ID: "forex", Category: domain.CategoryBanking, Difficulty: domain.DifficultyAdvanced},
		{ID: "bonds", Category: domain.CategoryInvesting, Difficulty: domain.DifficultyExpert},
		{ID: "budget", Category: domain.CategoryBasics, Difficulty: domain.DifficultyBeginner},
	}}
}

func progressWith(completed ...string) domain.Progress {
	p := domain.NewProgress(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	p.CompletedLessons = completed
	p.Points = domain.PointsPerLesson * len(completed)
	return p
}

func has(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestBadges_DefaultProgress_NoBadges(t *testing.T) {
	got := domain.EvaluateBadges(progressWith(), testCatalog())
	if len(got) != 0 {
		t.Errorf("Expected no badges for a fresh learner, got %v", got)
	}
}

func TestBadges_FirstBeginnerLesson(t *testing.T) {
	got := domain.EvaluateBadges(progressWith("income-expense"), testCatalog())
	for _, want := range []string{"first_step", "rank_beginner"} {
		if !has(got, want) {
			t.Errorf("Expected %s in %v", want, got)
		}
	}
	if has(got, "knowledge_seeker") || has(got, "expert") {
		t.Errorf("Unexpected badges for one lesson: %v", got)
	}
}

func TestBadges_ThreeLessons_KnowledgeSeeker(t *testing.T) {
	got := domain.EvaluateBadges(progressWith("income-expense", "inflation", "bonds"), testCatalog())
	for _, want := range []string{"first_step", "knowledge_seeker", "rank_beginner", "rank_advanced", "rank_expert"} {
		if !has(got, want) {
			t.Errorf("Expected %s in %v", want, got)
		}
	}
}

func TestBadges_StreakThree(t *testing.T) {
	p := progressWith()
	p.CurrentStreak = 3
	got := domain.EvaluateBadges(p, testCatalog())
	if !has(got, "streak_3") {
		t.Errorf("Expected streak_3 in %v", got)
	}
	p.CurrentStreak = 2
	if has(domain.EvaluateBadges(p, testCatalog()), "streak_3") {
		t.Error("streak_3 should need a streak of 3")
	}
}

func TestBadges_FullCatalog_Expert(t *testing.T) {
	cat := testCatalog()
	var ids []string
	for _, l := range cat.Lessons() {
		ids = append(ids, l.ID)
	}
	got := domain.EvaluateBadges(progressWith(ids...), cat)
	if !has(got, "expert") {
		t.Errorf("Expected expert in %v", got)
	}
}

func TestBadges_EmptyCatalog_NoExpert(t *testing.T) {
	got := domain.EvaluateBadges(progressWith(), stubCatalog{})
	if has(got, "expert") {
		t.Error("An empty catalog must not award expert")
	}
}

func TestBadges_UnknownLesson_CountsButHasNoRank(t *testing.T) {
	got := domain.EvaluateBadges(progressWith("not-in-catalog"), testCatalog())
	if !has(got, "first_step") {
		t.Errorf("Expected first_step for any completed id, got %v", got)
	}
	for _, id := range []string{"rank_beginner", "rank_advanced", "rank_expert"} {
		if has(got, id) {
			t.Errorf("Unknown lesson should not award %s", id)
		}
	}
}

func TestBadges_OwnedBadgesSkipped(t *testing.T) {
	p := progressWith("income-expense")
	p.Badges = []string{"first_step"}
	got := domain.EvaluateBadges(p, testCatalog())
	if has(got, "first_step") {
		t.Errorf("Owned badge returned again: %v", got)
	}
	if !has(got, "rank_beginner") {
		t.Errorf("Expected rank_beginner in %v", got)
	}
}

func TestBadges_Deterministic(t *testing.T) {
	p := progressWith("income-expense", "forex", "bonds")
	p.CurrentStreak = 5
	a := domain.EvaluateBadges(p, testCatalog())
	b := domain.EvaluateBadges(p, testCatalog())
	if len(a) != len(b) {
		t.Fatalf("Evaluations differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Evaluations differ at %d: %v vs %v", i, a, b)
		}
	}

	p.MergeBadges(a)
	if again := domain.EvaluateBadges(p, testCatalog()); len(again) != 0 {
		t.Errorf("Re-evaluating after merge should be empty, got %v", again)
	}
}

func TestMergeBadges_NeverDuplicates(t *testing.T) {
	p := progressWith()
	if n := p.MergeBadges([]string{"first_step", "first_step", ""}); n != 1 {
		t.Errorf("Expected 1 badge added, got %d", n)
	}
	if n := p.MergeBadges([]string{"first_step"}); n != 0 {
		t.Errorf("Expected 0 badges added, got %d", n)
	}
	if len(p.Badges) != 1 {
		t.Errorf("Expected one badge, got %v", p.Badges)
	}
}

func TestLookupBadge(t *testing.T) {
	b, ok := domain.LookupBadge("streak_3")
	if !ok || b.Icon != "flame" {
		t.Errorf("Expected streak_3 with flame icon, got %+v (%v)", b, ok)
	}
	if _, ok := domain.LookupBadge("nope"); ok {
		t.Error("Unknown badge should not be found")
	}
}
