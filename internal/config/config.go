package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	Env      string `validate:"oneof=development production"`
	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string

	Storage             string `validate:"oneof=sqlite redis firestore"`
	SQLitePath          string `validate:"required_if=Storage sqlite"`
	RedisAddr           string `validate:"required_if=Storage redis"`
	RedisPassword       string
	RedisDB             int    `validate:"gte=0"`
	FirestoreProject    string `validate:"required_if=Storage firestore"`
	FirestoreCollection string

	CatalogPath string // empty uses the embedded catalog
	Timezone    string
	Location    *time.Location `validate:"-"`

	WASessionPath   string
	GroupID         string
	BotPhone        string
	ReplyDelayMinMs int  `validate:"gte=0"` // Minimum delay before reply (milliseconds)
	ReplyDelayMaxMs int  `validate:"gte=0"` // Maximum delay before reply (milliseconds), 0 = use min as fixed
	ShowTyping      bool // Show typing indicator during delay
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults/environment variables")
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:                 getenv("APP_ENV", "development"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFile:             getenv("LOG_FILE", ""),
		Storage:             getenv("STORAGE", "sqlite"),
		SQLitePath:          getenv("SQLITE_PATH", "./data/finkidz.db"),
		RedisAddr:           getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("REDIS_DB", 0),
		FirestoreProject:    getenv("FIRESTORE_PROJECT", ""),
		FirestoreCollection: getenv("FIRESTORE_COLLECTION", "finkidz_kv"),
		CatalogPath:         getenv("CATALOG_PATH", ""),
		Timezone:            getenv("TIMEZONE", "Local"),
		WASessionPath:       getenv("WA_SESSION_PATH", "./data/whatsapp.db"),
		GroupID:             getenv("GROUP_ID", ""),
		BotPhone:            getenv("BOT_PHONE", ""),
		ReplyDelayMinMs:     getenvInt("REPLY_DELAY_MIN_MS", 0),
		ReplyDelayMaxMs:     getenvInt("REPLY_DELAY_MAX_MS", 0),
		ShowTyping:          getenvBool("SHOW_TYPING", false),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
