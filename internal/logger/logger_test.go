package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in, slog.LevelWarn); got != tt.want {
			t.Errorf("parseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestInit_DefaultLevelFiltersInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Init(&buf, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected warn line, got %q", out)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init(&buf, slog.LevelWarn).Debug("Request started", "path", "/host/properties")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["path"] != "/host/properties" {
		t.Errorf("Expected path attribute, got %v", line["path"])
	}
}

func TestInitFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	f, err := InitFile(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	slog.Debug("dashboard started")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	if !strings.Contains(string(data), "dashboard started") {
		t.Errorf("Expected log line in file, got %q", data)
	}
}
