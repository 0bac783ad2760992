package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "WARN", expected: zerolog.WarnLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "chatty", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(tt.level, &bytes.Buffer{})
			if logger.GetLevel() != tt.expected {
				t.Errorf("New(%q) level = %v, want %v", tt.level, logger.GetLevel(), tt.expected)
			}
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("table", "users").Msg("parsed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["message"] != "parsed" || entry["table"] != "users" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("failed to close database")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "failed to close database") {
		t.Errorf("Unexpected console output: %q", out)
	}
}
