package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fardannozami/finkidz/internal/app/usecase"
	"github.com/fardannozami/finkidz/internal/domain"
	"github.com/fardannozami/finkidz/internal/infra/kvstore"
)

const usageText = `usage: finkidz [flags] <command> [args]

commands:
  status               show points, lessons, streak and badges
  complete <id>        mark a lesson as finished
  favorite <id>        add or remove a lesson from favorites
  lessons              list lessons (see --category, --search, --sort, --favorites)
  next <id>            suggest the lesson after <id>
  score <n>            record a mini-game score
  prefs [theme|lang <value>]
                       show or change preferences
  links                list external resources (see --category tools|news)

flags:
`

var errUsage = errors.New("invalid usage")

type app struct {
	kv      domain.KeyValueStore
	catalog domain.Catalog
	links   []domain.ResourceLink
	logger  *zap.Logger
	out     io.Writer
	now     func() time.Time
}

type options struct {
	user          string
	category      string
	search        string
	sort          string
	lang          string
	favoritesOnly bool
}

func (a *app) flags() (*pflag.FlagSet, *options) {
	opts := &options{}
	fs := pflag.NewFlagSet("finkidz", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVarP(&opts.user, "user", "u", "", "learner id; empty uses the local learner")
	fs.StringVarP(&opts.category, "category", "c", "", "lessons: only this category (basics, banking, investing, advanced); links: tools or news")
	fs.StringVarP(&opts.search, "search", "s", "", "lessons: match title or description")
	fs.StringVar(&opts.sort, "sort", "default", "lessons: default, difficulty-asc, difficulty-desc or title")
	fs.StringVarP(&opts.lang, "lang", "l", "", "language for titles; defaults to the saved preference")
	fs.BoolVarP(&opts.favoritesOnly, "favorites", "f", false, "lessons: only favorites")
	fs.Usage = func() {
		fmt.Fprint(a.out, usageText)
		fs.PrintDefaults()
	}
	return fs, opts
}

func (a *app) run(ctx context.Context, args []string) error {
	fs, opts := a.flags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	cmd, cmdArgs := strings.ToLower(rest[0]), rest[1:]

	store := usecase.NewProgressStore(
		kvstore.NewProgressRepository(a.kv),
		a.catalog,
		domain.UserKey(domain.StatsKey, opts.user),
		a.logger,
	)
	browse := usecase.NewBrowseLessonsUsecase(a.catalog)
	prefs := usecase.NewPreferencesUsecase(a.kv)

	switch cmd {
	case "status", "complete", "favorite", "lessons", "next":
	case "score":
		return a.score(ctx, opts, cmdArgs)
	case "prefs":
		return a.prefs(ctx, prefs, cmdArgs)
	case "links":
		return a.listLinks(opts)
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	login := store.Initialize(ctx, a.now())
	a.celebrate(login.NewlyEarned)

	switch cmd {
	case "status":
		a.status(login.Progress)
	case "complete":
		id, err := oneArg(cmd, cmdArgs)
		if err != nil {
			return err
		}
		if login.Progress.HasCompleted(id) {
			fmt.Fprintf(a.out, "%s is already finished, no extra points\n", id)
			return nil
		}
		res := store.CompleteLesson(ctx, id)
		fmt.Fprintf(a.out, "+%d points, total %d\n", domain.PointsPerLesson, res.Progress.Points)
		a.celebrate(res.NewlyEarned)
	case "favorite":
		id, err := oneArg(cmd, cmdArgs)
		if err != nil {
			return err
		}
		if store.ToggleFavorite(ctx, id).Progress.IsFavorite(id) {
			fmt.Fprintf(a.out, "%s added to favorites\n", id)
		} else {
			fmt.Fprintf(a.out, "%s removed from favorites\n", id)
		}
	case "lessons":
		return a.lessons(ctx, browse, prefs, opts, login.Progress)
	case "next":
		id, err := oneArg(cmd, cmdArgs)
		if err != nil {
			return err
		}
		if _, ok := a.catalog.Lookup(id); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownLesson, id)
		}
		next, ok := browse.Next(id)
		if !ok {
			fmt.Fprintln(a.out, "that was the last lesson")
			return nil
		}
		fmt.Fprintf(a.out, "%s\t%s\n", next.ID, next.Title)
	}
	return nil
}

func (a *app) status(p domain.Progress) {
	fmt.Fprintf(a.out, "points:  %d\n", p.Points)
	fmt.Fprintf(a.out, "lessons: %d/%d\n", len(p.CompletedLessons), a.catalog.Count())
	fmt.Fprintf(a.out, "streak:  %d\n", p.CurrentStreak)
	fmt.Fprintf(a.out, "badges:  %s\n", strings.Join(p.Badges, ", "))
}

func (a *app) lessons(ctx context.Context, browse *usecase.BrowseLessonsUsecase, prefs *usecase.PreferencesUsecase, opts *options, p domain.Progress) error {
	category := domain.Category(strings.ToLower(opts.category))
	if category != "" && !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", errUsage, opts.category)
	}
	lang := opts.lang
	if lang == "" {
		var err error
		if lang, err = prefs.Language(ctx); err != nil {
			a.logger.Warn("read language preference failed", zap.Error(err))
		}
	}

	list := browse.Execute(usecase.LessonQuery{
		Category:      category,
		FavoritesOnly: opts.favoritesOnly,
		Favorites:     p.Favorites,
		Search:        opts.search,
		Sort:          usecase.ParseSortOrder(opts.sort),
		Lang:          lang,
	})
	for _, l := range list {
		mark := " "
		if p.HasCompleted(l.ID) {
			mark = "x"
		}
		fav := ""
		if p.IsFavorite(l.ID) {
			fav = " *"
		}
		fmt.Fprintf(a.out, "[%s] %-15s %-10s %-9s %s%s\n", mark, l.ID, l.Category, l.Difficulty, l.Localized(lang).Title, fav)
	}
	return nil
}

func (a *app) listLinks(opts *options) error {
	category := domain.LinkCategory(strings.ToLower(opts.category))
	if category != "" && category != domain.LinkTools && category != domain.LinkNews {
		return fmt.Errorf("%w: unknown link category %q", errUsage, opts.category)
	}
	for _, l := range a.links {
		if category != "" && l.Category != category {
			continue
		}
		fmt.Fprintf(a.out, "%-13s %-6s %s\n    %s\n", l.ID, l.Category, l.Title, l.URL)
	}
	return nil
}

func (a *app) score(ctx context.Context, opts *options, args []string) error {
	raw, err := oneArg("score", args)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: score must be a number", errUsage)
	}
	best, isNew, err := usecase.NewGameScoreUsecase(a.kv).Record(ctx, domain.UserKey(domain.HighScoreKey, opts.user), n)
	if err != nil {
		return err
	}
	if isNew {
		fmt.Fprintf(a.out, "new high score: %d\n", best)
	} else {
		fmt.Fprintf(a.out, "high score: %d\n", best)
	}
	return nil
}

func (a *app) prefs(ctx context.Context, prefs *usecase.PreferencesUsecase, args []string) error {
	switch {
	case len(args) == 0:
		theme, err := prefs.Theme(ctx)
		if err != nil {
			return err
		}
		lang, err := prefs.Language(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "theme: %s\nlang:  %s\n", theme, lang)
		return nil
	case len(args) == 2 && args[0] == "theme":
		return prefs.SetTheme(ctx, args[1])
	case len(args) == 2 && args[0] == "lang":
		return prefs.SetLanguage(ctx, args[1])
	}
	return fmt.Errorf("%w: prefs [theme|lang <value>]", errUsage)
}

func (a *app) celebrate(ids []string) {
	for _, id := range ids {
		if b, ok := domain.LookupBadge(id); ok {
			fmt.Fprintf(a.out, "new badge: %s (%s)\n", b.Name, b.Description)
		}
	}
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: %s needs exactly one argument", errUsage, cmd)
	}
	return strings.ToLower(args[0]), nil
}
