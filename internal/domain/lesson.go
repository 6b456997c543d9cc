package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryBasics    Category = "basics"
	CategoryBanking   Category = "banking"
	CategoryInvesting Category = "investing"
	CategoryAdvanced  Category = "advanced"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBasics, CategoryBanking, CategoryInvesting, CategoryAdvanced}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Difficulty levels are ordered: beginner < advanced < expert.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyAdvanced Difficulty = "advanced"
	DifficultyExpert   Difficulty = "expert"
)

// Rank returns 1..3 for known levels and 0 otherwise.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyAdvanced:
		return 2
	case DifficultyExpert:
		return 3
	}
	return 0
}

func (d Difficulty) Valid() bool { return d.Rank() > 0 }

type LessonText struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
}

type Lesson struct {
	ID           string                `json:"id" yaml:"id"`
	Title        string                `json:"title" yaml:"title"`
	Description  string                `json:"description" yaml:"description"`
	Content      string                `json:"content" yaml:"content"`
	Category     Category              `json:"category" yaml:"category"`
	Difficulty   Difficulty            `json:"difficulty" yaml:"difficulty"`
	Translations map[string]LessonText `json:"translations,omitempty" yaml:"translations"`
}

// Localized returns the title and description for lang, falling back to the
// lesson's own text when no translation exists.
func (l Lesson) Localized(lang string) LessonText {
	if t, ok := l.Translations[lang]; ok && strings.TrimSpace(t.Title) != "" {
		return t
	}
	return LessonText{Title: l.Title, Description: l.Description, Content: l.Content}
}

func (l Lesson) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("lesson id is required")
	}
	if !l.Category.Valid() {
		return fmt.Errorf("lesson %s: invalid category %q", l.ID, l.Category)
	}
	if !l.Difficulty.Valid() {
		return fmt.Errorf("lesson %s: invalid difficulty %q", l.ID, l.Difficulty)
	}
	return nil
}

type LinkCategory string

const (
	LinkTools LinkCategory = "tools"
	LinkNews  LinkCategory = "news"
)

// ResourceLink is an external site recommended alongside the lessons.
type ResourceLink struct {
	ID       string       `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	URL      string       `json:"url" yaml:"url"`
	Icon     string       `json:"icon" yaml:"icon"`
	Category LinkCategory `json:"category" yaml:"category"`
}

func (r ResourceLink) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("link id is required")
	}
	if !strings.HasPrefix(r.URL, "https://") && !strings.HasPrefix(r.URL, "http://") {
		return fmt.Errorf("link %s: url must be http(s), got %q", r.ID, r.URL)
	}
	if r.Category != LinkTools && r.Category != LinkNews {
		return fmt.Errorf("link %s: invalid category %q", r.ID, r.Category)
	}
	return nil
}

// Catalog is the read-only lesson list the progress engine consults.
type Catalog interface {
	Lessons() []Lesson
	Count() int
	Lookup(id string) (Lesson, bool)
}
