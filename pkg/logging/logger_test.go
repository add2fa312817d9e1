package logging

import (
	"testing"

	"github.com/onestop/forum-service/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json info", "INFO", "json"},
		{"text debug", "DEBUG", "text"},
		{"unknown level falls back to info", "bogus", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	if GetLogger() == nil {
		t.Error("GetLogger() should never return nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("vote-ledger")
	if logger == nil {
		t.Error("WithComponent() should return a logger")
	}
}
