package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fardannozami/finkidz/internal/domain"
)

const (
	DefaultTheme    = "dark"
	DefaultLanguage = "he"
)

var (
	Themes    = []string{"dark", "light"}
	Languages = []string{"he", "en", "zh", "hi", "de", "es", "fr"}
)

var prefValidate = validator.New()

// PreferencesUsecase persists display theme and lesson language.
type PreferencesUsecase struct {
	kv domain.KeyValueStore
}

func NewPreferencesUsecase(kv domain.KeyValueStore) *PreferencesUsecase {
	return &PreferencesUsecase{kv: kv}
}

func (uc *PreferencesUsecase) Theme(ctx context.Context) (string, error) {
	return uc.get(ctx, domain.ThemeKey, Themes, DefaultTheme)
}

func (uc *PreferencesUsecase) SetTheme(ctx context.Context, theme string) error {
	return uc.set(ctx, domain.ThemeKey, Themes, theme)
}

func (uc *PreferencesUsecase) Language(ctx context.Context) (string, error) {
	return uc.get(ctx, domain.LangKey, Languages, DefaultLanguage)
}

func (uc *PreferencesUsecase) SetLanguage(ctx context.Context, lang string) error {
	return uc.set(ctx, domain.LangKey, Languages, lang)
}

// get falls back to def when nothing or an unsupported value is stored.
func (uc *PreferencesUsecase) get(ctx context.Context, key string, allowed []string, def string) (string, error) {
	b, err := uc.kv.Load(ctx, key)
	if err != nil {
		return def, err
	}
	v := string(b)
	if b == nil || checkOneOf(v, allowed) != nil {
		return def, nil
	}
	return v, nil
}

func (uc *PreferencesUsecase) set(ctx context.Context, key string, allowed []string, value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if err := checkOneOf(value, allowed); err != nil {
		return fmt.Errorf("%w: %q (want one of %s)", domain.ErrInvalidPreference, value, strings.Join(allowed, ", "))
	}
	return uc.kv.Save(ctx, key, []byte(value))
}

func checkOneOf(value string, allowed []string) error {
	return prefValidate.Var(value, "required,oneof="+strings.Join(allowed, " "))
}
