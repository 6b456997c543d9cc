package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fardannozami/finkidz/internal/domain"
)

// GameScoreUsecase keeps the best mini-game score per key.
type GameScoreUsecase struct {
	kv domain.KeyValueStore
}

func NewGameScoreUsecase(kv domain.KeyValueStore) *GameScoreUsecase {
	return &GameScoreUsecase{kv: kv}
}

// Best returns the stored high score. Missing or unparseable values count as 0.
func (uc *GameScoreUsecase) Best(ctx context.Context, key string) (int, error) {
	b, err := uc.kv.Load(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// Record stores score when it beats the current best.
func (uc *GameScoreUsecase) Record(ctx context.Context, key string, score int) (best int, isNew bool, err error) {
	if score < 0 {
		return 0, false, fmt.Errorf("score must not be negative: %d", score)
	}
	best, err = uc.Best(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if score <= best {
		return best, false, nil
	}
	if err := uc.kv.Save(ctx, key, []byte(strconv.Itoa(score))); err != nil {
		return best, false, err
	}
	return score, true, nil
}
