package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fardannozami/finkidz/internal/app/usecase"
	"github.com/fardannozami/finkidz/internal/domain"
)

func TestPreferences_Defaults(t *testing.T) {
	uc := usecase.NewPreferencesUsecase(newMemKV())
	ctx := context.Background()

	theme, err := uc.Theme(ctx)
	if err != nil || theme != "dark" {
		t.Errorf("Expected dark, got %q (%v)", theme, err)
	}
	lang, err := uc.Language(ctx)
	if err != nil || lang != "he" {
		t.Errorf("Expected he, got %q (%v)", lang, err)
	}
}

func TestPreferences_SetAndGet(t *testing.T) {
	kv := newMemKV()
	uc := usecase.NewPreferencesUsecase(kv)
	ctx := context.Background()

	if err := uc.SetTheme(ctx, " Light "); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := uc.SetLanguage(ctx, "fr"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if theme, _ := uc.Theme(ctx); theme != "light" {
		t.Errorf("Expected light, got %q", theme)
	}
	if lang, _ := uc.Language(ctx); lang != "fr" {
		t.Errorf("Expected fr, got %q", lang)
	}
	if string(kv.data[domain.ThemeKey]) != "light" {
		t.Errorf("Expected theme stored under %s", domain.ThemeKey)
	}
}

func TestPreferences_RejectsUnsupportedValues(t *testing.T) {
	kv := newMemKV()
	uc := usecase.NewPreferencesUsecase(kv)
	ctx := context.Background()

	for _, v := range []string{"", "blue"} {
		if err := uc.SetTheme(ctx, v); !errors.Is(err, domain.ErrInvalidPreference) {
			t.Errorf("SetTheme(%q): expected ErrInvalidPreference, got %v", v, err)
		}
	}
	if err := uc.SetLanguage(ctx, "klingon"); !errors.Is(err, domain.ErrInvalidPreference) {
		t.Errorf("Expected ErrInvalidPreference, got %v", err)
	}
	if len(kv.data) != 0 {
		t.Errorf("Invalid values must not be stored, got %v", kv.data)
	}
}

func TestPreferences_UnsupportedStoredValueFallsBack(t *testing.T) {
	kv := newMemKV()
	kv.data[domain.LangKey] = []byte("xx")
	uc := usecase.NewPreferencesUsecase(kv)

	if lang, err := uc.Language(context.Background()); err != nil || lang != "he" {
		t.Errorf("Expected fallback he, got %q (%v)", lang, err)
	}
}
