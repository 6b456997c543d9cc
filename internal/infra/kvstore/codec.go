package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fardannozami/finkidz/internal/domain"
)

var validate = validator.New()

// record mirrors the stored JSON. Pointers let validation tell a missing field
// from a zero value.
type record struct {
	Points           *int     `json:"points" validate:"required,gte=0"`
	CompletedLessons []string `json:"completedLessons" validate:"required,dive,required"`
	Favorites        []string `json:"favorites" validate:"omitempty,dive,required"`
	CurrentStreak    *int     `json:"currentStreak" validate:"required,gte=1"`
	LastLoginDate    string   `json:"lastLoginDate" validate:"required"`
	Badges           []string `json:"badges" validate:"omitempty,dive,required"`
}

// Encode serialises p with the last login as an RFC 3339 UTC timestamp.
func Encode(p domain.Progress) ([]byte, error) {
	points, streak := p.Points, p.CurrentStreak
	r := record{
		Points:           &points,
		CompletedLessons: nonNil(p.CompletedLessons),
		Favorites:        nonNil(p.Favorites),
		CurrentStreak:    &streak,
		LastLoginDate:    p.LastLoginDate.UTC().Format(time.RFC3339Nano),
		Badges:           nonNil(p.Badges),
	}
	return json.Marshal(r)
}

// Decode parses and validates a stored record, including the rule that every
// completed lesson is worth PointsPerLesson. Any failure wraps
// domain.ErrCorruptProgress.
func Decode(b []byte) (domain.Progress, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return domain.Progress{}, fmt.Errorf("%w: %v", domain.ErrCorruptProgress, err)
	}
	if err := validate.Struct(r); err != nil {
		return domain.Progress{}, fmt.Errorf("%w: %v", domain.ErrCorruptProgress, err)
	}
	last, err := time.Parse(time.RFC3339Nano, r.LastLoginDate)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("%w: lastLoginDate: %v", domain.ErrCorruptProgress, err)
	}
	p := domain.Progress{
		Points:           *r.Points,
		CompletedLessons: domain.Dedupe(r.CompletedLessons),
		Favorites:        domain.Dedupe(r.Favorites),
		CurrentStreak:    *r.CurrentStreak,
		LastLoginDate:    last,
		Badges:           domain.Dedupe(r.Badges),
	}
	// checked after dedupe so repeated ids cannot carry extra points
	if want := domain.PointsPerLesson * len(p.CompletedLessons); p.Points != want {
		return domain.Progress{}, fmt.Errorf("%w: %d points for %d completed lessons", domain.ErrCorruptProgress, p.Points, len(p.CompletedLessons))
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
