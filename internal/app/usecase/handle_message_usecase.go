package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fardannozami/finkidz/internal/domain"
)

type LeaderboardExecutor interface {
	Execute(ctx context.Context) (string, error)
}

var badgeEmoji = map[string]string{
	"target": "🎯",
	"book":   "📚",
	"trophy": "🏆",
	"star":   "⭐",
	"medal":  "🏅",
	"crown":  "👑",
	"flame":  "🔥",
}

// HandleMessageUsecase routes chat commands to the progress engine. One
// message is handled at a time so each record keeps a single writer.
type HandleMessageUsecase struct {
	mu          sync.Mutex
	repo        domain.ProgressRepository
	kv          domain.KeyValueStore
	catalog     domain.Catalog
	browse      *BrowseLessonsUsecase
	scores      *GameScoreUsecase
	leaderboard LeaderboardExecutor
	logger      *zap.Logger
	now         func() time.Time
}

func NewHandleMessageUsecase(
	repo domain.ProgressRepository,
	kv domain.KeyValueStore,
	catalog domain.Catalog,
	leaderboard LeaderboardExecutor,
	logger *zap.Logger,
) *HandleMessageUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandleMessageUsecase{
		repo:        repo,
		kv:          kv,
		catalog:     catalog,
		browse:      NewBrowseLessonsUsecase(catalog),
		scores:      NewGameScoreUsecase(kv),
		leaderboard: leaderboard,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for the daily login tick.
func (uc *HandleMessageUsecase) WithClock(now func() time.Time) *HandleMessageUsecase {
	uc.now = now
	return uc
}

// Execute returns the reply for text, or "" when text is not a command.
func (uc *HandleMessageUsecase) Execute(ctx context.Context, userID, name, text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "#progress", "#lessons", "#done", "#fav", "#next", "#badges", "#score", "#leaderboard":
	default:
		return "", nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if name == "" {
		name = userID
	} else if err := uc.kv.Save(ctx, domain.UserKey(domain.NameKey, userID), []byte(name)); err != nil {
		uc.logger.Warn("save display name failed", zap.String("user", userID), zap.Error(err))
	}

	store := NewProgressStore(uc.repo, uc.catalog, domain.UserKey(domain.StatsKey, userID), uc.logger)
	login := store.Initialize(ctx, uc.now())

	var (
		reply string
		err   error
	)
	switch cmd {
	case "#progress":
		reply = uc.progress(name, login.Progress)
	case "#lessons":
		reply = uc.lessons(login.Progress, args)
	case "#done":
		reply = uc.done(ctx, store, name, args)
	case "#fav":
		reply = uc.favorite(ctx, store, args)
	case "#next":
		reply = uc.next(args)
	case "#badges":
		reply = uc.badges(login.Progress)
	case "#score":
		reply, err = uc.score(ctx, userID, args)
	case "#leaderboard":
		reply, err = uc.leaderboard.Execute(ctx)
	}
	if err != nil {
		return "", err
	}

	if len(login.NewlyEarned) > 0 {
		reply += "\n\n" + celebrate(login.NewlyEarned)
	}
	return reply, nil
}

func (uc *HandleMessageUsecase) progress(name string, p domain.Progress) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("📊 %s\n", name))
	sb.WriteString(fmt.Sprintf("💰 Points: %d\n", p.Points))
	sb.WriteString(fmt.Sprintf("📚 Lessons: %d/%d\n", len(p.CompletedLessons), uc.catalog.Count()))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d days\n", p.CurrentStreak))
	sb.WriteString(fmt.Sprintf("🏅 Badges: %d/%d", len(p.Badges), len(domain.BadgeRules)))
	return sb.String()
}

func (uc *HandleMessageUsecase) lessons(p domain.Progress, args []string) string {
	q := LessonQuery{}
	if len(args) > 0 {
		c := domain.Category(strings.ToLower(args[0]))
		if !c.Valid() {
			names := make([]string, 0, len(domain.Categories))
			for _, v := range domain.Categories {
				names = append(names, string(v))
			}
			return fmt.Sprintf("Unknown category %q. Try: %s", args[0], strings.Join(names, ", "))
		}
		q.Category = c
	}

	list := uc.browse.Execute(q)
	if len(list) == 0 {
		return "No lessons here yet."
	}
	sb := strings.Builder{}
	sb.WriteString("📚 Lessons\n")
	for _, l := range list {
		mark := "⬜"
		if p.HasCompleted(l.ID) {
			mark = "✅"
		}
		fav := ""
		if p.IsFavorite(l.ID) {
			fav = " ⭐"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s - %s (%s)%s", mark, l.ID, l.Title, l.Difficulty, fav))
	}
	sb.WriteString("\n\nSend #done <id> when you finish a lesson.")
	return sb.String()
}

func (uc *HandleMessageUsecase) done(ctx context.Context, store *ProgressStore, name string, args []string) string {
	if len(args) == 0 {
		return "Usage: #done <lesson-id>"
	}
	id := strings.ToLower(args[0])
	title := uc.title(id)

	if store.Snapshot().HasCompleted(id) {
		return fmt.Sprintf("%s already finished %s, no extra points 😉", name, title)
	}
	res := store.CompleteLesson(ctx, id)

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("✅ Great job %s! %s done, +%d points (total %d)", name, title, domain.PointsPerLesson, res.Progress.Points))
	if len(res.NewlyEarned) > 0 {
		sb.WriteString("\n\n" + celebrate(res.NewlyEarned))
	}
	if next, ok := uc.browse.Next(id); ok {
		sb.WriteString(fmt.Sprintf("\n\n👉 Next lesson: %s (%s)", next.Title, next.ID))
	}
	return sb.String()
}

func (uc *HandleMessageUsecase) favorite(ctx context.Context, store *ProgressStore, args []string) string {
	if len(args) == 0 {
		return "Usage: #fav <lesson-id>"
	}
	id := strings.ToLower(args[0])
	res := store.ToggleFavorite(ctx, id)
	if res.Progress.IsFavorite(id) {
		return fmt.Sprintf("⭐ %s added to favorites", uc.title(id))
	}
	return fmt.Sprintf("☆ %s removed from favorites", uc.title(id))
}

func (uc *HandleMessageUsecase) next(args []string) string {
	if len(args) == 0 {
		return "Usage: #next <lesson-id>"
	}
	id := strings.ToLower(args[0])
	if _, ok := uc.catalog.Lookup(id); !ok {
		return fmt.Sprintf("Unknown lesson %q", id)
	}
	next, ok := uc.browse.Next(id)
	if !ok {
		return "🎉 That was the last lesson!"
	}
	return fmt.Sprintf("👉 Next lesson: %s (%s)", next.Title, next.ID)
}

func (uc *HandleMessageUsecase) badges(p domain.Progress) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🏅 Badges %d/%d\n", len(p.Badges), len(domain.BadgeRules)))
	for _, b := range domain.BadgeRules {
		icon := "🔒"
		if p.HasBadge(b.ID) {
			icon = badgeEmoji[b.Icon]
		}
		sb.WriteString(fmt.Sprintf("\n%s %s - %s", icon, b.Name, b.Description))
	}
	return sb.String()
}

func (uc *HandleMessageUsecase) score(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: #score <number>", nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return "Usage: #score <number>", nil
	}
	best, isNew, err := uc.scores.Record(ctx, domain.UserKey(domain.HighScoreKey, userID), n)
	if err != nil {
		return "", err
	}
	if isNew {
		return fmt.Sprintf("🎮 New high score: %d!", best), nil
	}
	return fmt.Sprintf("🎮 Score %d. Best is still %d.", n, best), nil
}

func (uc *HandleMessageUsecase) title(id string) string {
	if l, ok := uc.catalog.Lookup(id); ok {
		return l.Title
	}
	return id
}

func celebrate(ids []string) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		b, ok := domain.LookupBadge(id)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("🎉 New badge: %s %s", badgeEmoji[b.Icon], b.Name))
	}
	return strings.Join(lines, "\n")
}
