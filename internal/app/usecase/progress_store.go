package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fardannozami/finkidz/internal/domain"
)

// Result is the snapshot after an operation plus the badges that operation earned.
type Result struct {
	Progress    domain.Progress
	NewlyEarned []string
}

// ProgressStore owns one learner's Progress. Every mutation evaluates badges
// and persists before returning. It is not safe for concurrent use; callers
// serialize access so there is a single writer per record.
type ProgressStore struct {
	repo    domain.ProgressRepository
	catalog domain.Catalog
	key     string
	logger  *zap.Logger
	now     func() time.Time

	current     domain.Progress
	initialized bool
}

func NewProgressStore(repo domain.ProgressRepository, catalog domain.Catalog, key string, logger *zap.Logger) *ProgressStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressStore{
		repo:    repo,
		catalog: catalog,
		key:     key,
		logger:  logger.With(zap.String("record", key)),
		now:     time.Now,
	}
}

// Initialize loads the record, applies the daily streak rule and catches up on
// badges earned by the passage of time. Missing or unreadable records start
// from the default state.
func (s *ProgressStore) Initialize(ctx context.Context, now time.Time) Result {
	p := s.load(ctx, now)
	earned := s.award(&p)
	s.current = p
	s.initialized = true
	s.persist(ctx)
	return s.result(earned)
}

// CompleteLesson grants points once per lesson. Repeating a completed lesson
// returns the current snapshot without writing.
func (s *ProgressStore) CompleteLesson(ctx context.Context, lessonID string) Result {
	s.ensure(ctx)
	if lessonID == "" || s.current.HasCompleted(lessonID) {
		return s.result(nil)
	}
	if _, ok := s.catalog.Lookup(lessonID); !ok {
		s.logger.Warn("completing lesson missing from catalog", zap.String("lesson", lessonID))
	}

	p := s.current.Clone()
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	p.Points += domain.PointsPerLesson
	earned := s.award(&p)
	s.current = p
	s.persist(ctx)

	s.logger.Info("lesson completed",
		zap.String("lesson", lessonID),
		zap.Int("points", p.Points),
		zap.Strings("new_badges", earned),
	)
	return s.result(earned)
}

// ToggleFavorite flips membership of lessonID in favorites. Ids are not
// checked against the catalog.
func (s *ProgressStore) ToggleFavorite(ctx context.Context, lessonID string) Result {
	s.ensure(ctx)
	if lessonID == "" {
		return s.result(nil)
	}

	p := s.current.Clone()
	if p.IsFavorite(lessonID) {
		kept := p.Favorites[:0]
		for _, id := range p.Favorites {
			if id != lessonID {
				kept = append(kept, id)
			}
		}
		p.Favorites = kept
	} else {
		p.Favorites = append(p.Favorites, lessonID)
	}
	s.current = p
	s.persist(ctx)
	return s.result(nil)
}

// Snapshot returns a copy of the current state.
func (s *ProgressStore) Snapshot() domain.Progress {
	return s.current.Clone()
}

func (s *ProgressStore) Key() string { return s.key }

func (s *ProgressStore) ensure(ctx context.Context) {
	if !s.initialized {
		s.Initialize(ctx, s.now())
	}
}

func (s *ProgressStore) load(ctx context.Context, now time.Time) domain.Progress {
	stored, err := s.repo.LoadProgress(ctx, s.key)
	switch {
	case errors.Is(err, domain.ErrCorruptProgress):
		s.logger.Warn("discarding corrupt progress record", zap.Error(err))
		return domain.NewProgress(now)
	case err != nil:
		s.logger.Error("load progress failed, starting fresh", zap.Error(err))
		return domain.NewProgress(now)
	case stored == nil:
		return domain.NewProgress(now)
	}

	p := stored.Clone()
	p.CurrentStreak, p.LastLoginDate = domain.ComputeStreak(stored.LastLoginDate, stored.CurrentStreak, now)
	return p
}

func (s *ProgressStore) award(p *domain.Progress) []string {
	earned := domain.EvaluateBadges(*p, s.catalog)
	p.MergeBadges(earned)
	return earned
}

func (s *ProgressStore) persist(ctx context.Context) {
	if err := s.repo.SaveProgress(ctx, s.key, s.current); err != nil {
		s.logger.Error("save progress failed", zap.Error(err))
	}
}

func (s *ProgressStore) result(earned []string) Result {
	if earned == nil {
		earned = []string{}
	}
	return Result{Progress: s.Snapshot(), NewlyEarned: earned}
}
