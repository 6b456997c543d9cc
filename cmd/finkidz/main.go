package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fardannozami/finkidz/internal/config"
	"github.com/fardannozami/finkidz/internal/infra/catalog"
	"github.com/fardannozami/finkidz/internal/infra/logging"
	"github.com/fardannozami/finkidz/internal/infra/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		FilePath: cfg.LogFile,
		Level:    cfg.LogLevel,
		Env:      cfg.Env,
		AppID:    "finkidz-cli",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeStore()

	lessons, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load lesson catalog", zap.Error(err))
	}

	a := &app{
		kv:      store,
		catalog: lessons,
		links:   lessons.Links(),
		logger:  logger,
		out:     os.Stdout,
		now:     func() time.Time { return time.Now().In(cfg.Location) },
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "finkidz:", err)
		os.Exit(2)
	}
}
