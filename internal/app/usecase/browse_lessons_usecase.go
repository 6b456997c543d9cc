package usecase

import (
	"sort"
	"strings"

	"github.com/fardannozami/finkidz/internal/domain"
)

type SortOrder string

const (
	SortDefault        SortOrder = "default"
	SortDifficultyAsc  SortOrder = "difficulty-asc"
	SortDifficultyDesc SortOrder = "difficulty-desc"
	SortTitle          SortOrder = "title"
)

// LessonQuery narrows the catalog. Zero values mean "no filter" and catalog order.
type LessonQuery struct {
	Category      domain.Category
	FavoritesOnly bool
	Favorites     []string
	Search        string
	Sort          SortOrder
	Lang          string
}

type BrowseLessonsUsecase struct {
	catalog domain.Catalog
}

func NewBrowseLessonsUsecase(catalog domain.Catalog) *BrowseLessonsUsecase {
	return &BrowseLessonsUsecase{catalog: catalog}
}

func (uc *BrowseLessonsUsecase) Execute(q LessonQuery) []domain.Lesson {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	favorites := make(map[string]struct{}, len(q.Favorites))
	for _, id := range q.Favorites {
		favorites[id] = struct{}{}
	}

	result := make([]domain.Lesson, 0, uc.catalog.Count())
	for _, l := range uc.catalog.Lessons() {
		if q.Category != "" && l.Category != q.Category {
			continue
		}
		if q.FavoritesOnly {
			if _, ok := favorites[l.ID]; !ok {
				continue
			}
		}
		if search != "" {
			text := l.Localized(q.Lang)
			if !strings.Contains(strings.ToLower(text.Title), search) &&
				!strings.Contains(strings.ToLower(text.Description), search) {
				continue
			}
		}
		result = append(result, l)
	}

	switch q.Sort {
	case SortDifficultyAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Difficulty.Rank() < result[j].Difficulty.Rank()
		})
	case SortDifficultyDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Difficulty.Rank() > result[j].Difficulty.Rank()
		})
	case SortTitle:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Localized(q.Lang).Title) < strings.ToLower(result[j].Localized(q.Lang).Title)
		})
	}
	return result
}

// Next suggests the lesson after id: the following one in the same category,
// otherwise the following one in catalog order.
func (uc *BrowseLessonsUsecase) Next(id string) (domain.Lesson, bool) {
	lessons := uc.catalog.Lessons()
	current, ok := uc.catalog.Lookup(id)
	if !ok {
		return domain.Lesson{}, false
	}

	var sameCategory []domain.Lesson
	for _, l := range lessons {
		if l.Category == current.Category {
			sameCategory = append(sameCategory, l)
		}
	}
	for i, l := range sameCategory {
		if l.ID == id && i < len(sameCategory)-1 {
			return sameCategory[i+1], true
		}
	}

	for i, l := range lessons {
		if l.ID == id && i < len(lessons)-1 {
			return lessons[i+1], true
		}
	}
	return domain.Lesson{}, false
}

// ParseSortOrder maps user input to a SortOrder, defaulting to catalog order.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortDifficultyAsc, SortDifficultyDesc, SortTitle:
		return o
	}
	return SortDefault
}
