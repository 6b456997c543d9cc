package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fardannozami/finkidz/internal/infra/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zap.DebugLevel, false},
		{"", zap.InfoLevel, false},
		{"warn", zap.WarnLevel, false},
		{"error", zap.ErrorLevel, false},
		{"loud", zap.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_ProductionWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finkidz.log")
	logger, err := logging.NewLogger(logging.Config{FilePath: path, Level: "info", Env: "production", AppID: "finkidz"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("lesson completed", zap.String("lesson", "bonds"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug entry should be filtered at info level: %s", out)
	}
	for _, want := range []string{`"message":"lesson completed"`, `"lesson":"bonds"`, `"app":"finkidz"`, `"@timestamp"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in %s", want, out)
		}
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	if _, err := logging.NewLogger(logging.Config{Level: "verbose"}); err == nil {
		t.Error("Expected error for unknown level")
	}
}
