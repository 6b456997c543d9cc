package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fardannozami/finkidz/internal/app/usecase"
	"github.com/fardannozami/finkidz/internal/config"
	"github.com/fardannozami/finkidz/internal/infra/catalog"
	"github.com/fardannozami/finkidz/internal/infra/kvstore"
	"github.com/fardannozami/finkidz/internal/infra/logging"
	"github.com/fardannozami/finkidz/internal/infra/storage"
	"github.com/fardannozami/finkidz/internal/infra/wa"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logger
	logger, err := logging.NewLogger(logging.Config{
		FilePath: cfg.LogFile,
		Level:    cfg.LogLevel,
		Env:      cfg.Env,
		AppID:    "finkidz-bot",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Storage, catalog & repositories
	store, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeStore()

	lessons, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load lesson catalog", zap.Error(err))
	}
	repo := kvstore.NewProgressRepository(store)

	// 4. Use Cases
	clock := func() time.Time { return time.Now().In(cfg.Location) }
	leaderboardUC := usecase.NewGetLeaderboardUsecase(repo, store).WithClock(clock)
	handleMessageUC := usecase.NewHandleMessageUsecase(repo, store, lessons, leaderboardUC, logger).WithClock(clock)

	// 5. WhatsApp Service
	waService := wa.NewService(cfg.WASessionPath, cfg.GroupID, wa.ReplyOptions{
		DelayMinMs: cfg.ReplyDelayMinMs,
		DelayMaxMs: cfg.ReplyDelayMaxMs,
		ShowTyping: cfg.ShowTyping,
	}, logger)

	// 6. Register Message Handler
	waService.SetMessageHandler(func(ctx context.Context, msg wa.IncomingMessage) {
		logger.Debug("message received",
			zap.String("user", msg.SenderID),
			zap.String("name", msg.PushName),
			zap.String("text", msg.Text),
		)

		response, err := handleMessageUC.Execute(ctx, msg.SenderID, msg.PushName, msg.Text)
		if err != nil {
			logger.Error("failed to handle message", zap.String("user", msg.SenderID), zap.Error(err))
			return
		}
		if response == "" {
			return
		}
		if err := waService.Reply(ctx, msg.Chat, response); err != nil {
			logger.Error("failed to send response", zap.String("chat", msg.Chat.String()), zap.Error(err))
		}
	})

	// 7. Initialize Client (DB, Device, etc) - DO NOT CONNECT YET
	if err := waService.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize whatsapp service", zap.Error(err))
	}

	// 8. Connect / Login Logic
	if !waService.IsLoggedIn() {
		if cfg.BotPhone != "" {
			// pairing needs a live connection
			if err := waService.Connect(); err != nil {
				logger.Fatal("failed to connect for pairing", zap.Error(err))
			}

			logger.Info("not logged in, requesting pair code", zap.String("phone", cfg.BotPhone))
			code, err := waService.Pair(ctx, cfg.BotPhone)
			if err != nil {
				logger.Error("failed to generate pair code", zap.Error(err))
			} else {
				logger.Info("enter this code in WhatsApp (Linked Devices > Link with phone number)", zap.String("pair_code", code))
			}
		} else {
			logger.Info("not logged in and BOT_PHONE not set, printing QR")
			// PrintQR opens the QR channel before connecting to avoid missing the first code
			if err := waService.PrintQR(ctx); err != nil {
				logger.Fatal("qr login failed", zap.Error(err))
			}
		}
	} else {
		if err := waService.Connect(); err != nil {
			logger.Fatal("failed to connect", zap.Error(err))
		}
		logger.Info("client is already logged in")
	}

	logger.Info("bot is running, press Ctrl+C to exit", zap.Int("lessons", lessons.Count()))

	// 9. Wait for OS Signal
	<-ctx.Done()

	logger.Info("shutting down")
	waService.Disconnect()
}
