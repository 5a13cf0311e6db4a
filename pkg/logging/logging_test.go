package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJSONLoggerOutputShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("run finished", Fitness(4.5), Generation(30))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "run finished" {
		t.Errorf("Message = %v, want 'run finished'", entry.Message)
	}
	if entry.Fields["fitness"] != 4.5 {
		t.Errorf("fitness field = %v, want 4.5", entry.Fields["fitness"])
	}
	if entry.Fields["generation"] != float64(30) {
		t.Errorf("generation field = %v, want 30", entry.Fields["generation"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	var entry Entry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "WARN" {
		t.Errorf("First entry level = %v, want WARN", entry.Level)
	}
}

func TestJSONLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("sweep"), TaskID("t-1"))
	child.Info("task done", Fitness(2.25))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["component"] != "sweep" {
		t.Errorf("component field = %v, want sweep", entry.Fields["component"])
	}
	if entry.Fields["task_id"] != "t-1" {
		t.Errorf("task_id field = %v, want t-1", entry.Fields["task_id"])
	}
	if entry.Fields["fitness"] != 2.25 {
		t.Errorf("fitness field = %v, want 2.25", entry.Fields["fitness"])
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := UserID(123456); f.Key != "user_id" || f.Value != int64(123456) {
		t.Errorf("UserID() = %+v", f)
	}
	if f := Seed(42); f.Key != "seed" || f.Value != int64(42) {
		t.Errorf("Seed() = %+v", f)
	}
	if f := Communities(7); f.Key != "communities" || f.Value != 7 {
		t.Errorf("Communities() = %+v", f)
	}
	if f := Duration("elapsed", 5*time.Second); f.Value != "5s" {
		t.Errorf("Duration() = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}

func TestFieldsOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("bare message")

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := raw["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("GetLevel() = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("filtered")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}
}

func BenchmarkJSONLoggerInfo(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", TaskID("t-1"), Generation(i))
	}
}
