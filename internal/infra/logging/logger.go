package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config options used in creating zap logger
type Config struct {
	FilePath string // empty writes to stderr
	Level    string // debug, info, warn or error
	Env      string // development or production
	AppID    string
}

// NewLogger builds a console logger for development and a JSON logger for
// production. Stack traces are attached from error level upwards.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if cfg.Env == "production" {
		encoder = productionEncoder()
	} else {
		encoder = developmentEncoder()
	}

	var output zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if cfg.FilePath != "" {
		fd, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = zapcore.Lock(fd)
	}

	core := zapcore.NewCore(encoder, output, zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
		return lv >= level
	}))
	logger := zap.New(core, zap.AddStacktrace(zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
		return lv > zap.WarnLevel
	})), zap.AddCaller())
	if cfg.AppID != "" {
		logger = logger.With(zap.String("app", cfg.AppID))
	}
	return logger, nil
}

// ParseLevel accepts the four levels exposed through configuration.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unknown logging level: %s", level)
}

func developmentEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zapcore.NewConsoleEncoder(cfg)
}

func productionEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	}
	cfg.TimeKey = "@timestamp"
	cfg.MessageKey = "message"
	cfg.LevelKey = "log.level"
	cfg.CallerKey = "log.origin.file.name"
	cfg.StacktraceKey = "error.stack_trace"
	return zapcore.NewJSONEncoder(cfg)
}
