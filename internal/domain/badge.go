package domain

// BadgeRule decides whether a learner qualifies for a badge.
type BadgeRule func(p Progress, catalog Catalog) bool

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Rule        BadgeRule
}

// BadgeRules is evaluated in order; EvaluateBadges reports ids in this order.
var BadgeRules = []Badge{
	{
		ID:          "first_step",
		Name:        "First Step",
		Description: "Finished your first lesson",
		Icon:        "target",
		Rule:        completedAtLeast(1),
	},
	{
		ID:          "knowledge_seeker",
		Name:        "Knowledge Seeker",
		Description: "Finished 3 lessons",
		Icon:        "book",
		Rule:        completedAtLeast(3),
	},
	{
		ID:          "expert",
		Name:        "World Expert",
		Description: "Finished every lesson",
		Icon:        "trophy",
		Rule: func(p Progress, catalog Catalog) bool {
			total := catalog.Count()
			return total > 0 && len(p.CompletedLessons) == total
		},
	},
	{
		ID:          "rank_beginner",
		Name:        "Beginner Rank",
		Description: "Finished a beginner lesson",
		Icon:        "star",
		Rule:        completedDifficulty(DifficultyBeginner),
	},
	{
		ID:          "rank_advanced",
		Name:        "Advanced Rank",
		Description: "Finished an advanced lesson",
		Icon:        "medal",
		Rule:        completedDifficulty(DifficultyAdvanced),
	},
	{
		ID:          "rank_expert",
		Name:        "Expert Rank",
		Description: "Finished an expert lesson",
		Icon:        "crown",
		Rule:        completedDifficulty(DifficultyExpert),
	},
	{
		ID:          "streak_3",
		Name:        "On a Roll",
		Description: "Learned 3 days in a row",
		Icon:        "flame",
		Rule: func(p Progress, _ Catalog) bool {
			return p.CurrentStreak >= 3
		},
	},
}

func completedAtLeast(n int) BadgeRule {
	return func(p Progress, _ Catalog) bool {
		return len(p.CompletedLessons) >= n
	}
}

func completedDifficulty(d Difficulty) BadgeRule {
	return func(p Progress, catalog Catalog) bool {
		for _, id := range p.CompletedLessons {
			if l, ok := catalog.Lookup(id); ok && l.Difficulty == d {
				return true
			}
		}
		return false
	}
}

// EvaluateBadges returns the ids of badges p qualifies for but does not own yet.
// It never returns ids to remove.
func EvaluateBadges(p Progress, catalog Catalog) []string {
	return evaluate(BadgeRules, p, catalog)
}

func evaluate(rules []Badge, p Progress, catalog Catalog) []string {
	earned := []string{}
	for _, b := range rules {
		if p.HasBadge(b.ID) {
			continue
		}
		if b.Rule(p, catalog) {
			earned = append(earned, b.ID)
		}
	}
	return earned
}

// LookupBadge returns the display data for id.
func LookupBadge(id string) (Badge, bool) {
	for _, b := range BadgeRules {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
