package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
	}
	return entry
}

// TestLogger_IncludesCheckFields verifies check fields are present in log output.
func TestLogger_IncludesCheckFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCheck(CheckMeta{Name: "database", Kind: "postgres"}).
		Info(context.Background(), "test message")

	entry := decodeLine(t, buf.String())

	if v, ok := entry["check.name"].(string); !ok || v != "database" {
		t.Errorf("expected check.name='database', got %v", entry["check.name"])
	}
	if v, ok := entry["check.kind"].(string); !ok || v != "postgres" {
		t.Errorf("expected check.kind='postgres', got %v", entry["check.kind"])
	}
	if v, ok := entry["msg"].(string); !ok || v != "test message" {
		t.Errorf("expected msg='test message', got %v", entry["msg"])
	}
	if _, ok := entry["timestamp"].(string); !ok {
		t.Errorf("expected timestamp, got %v", entry["timestamp"])
	}
}

// TestLogger_KindOmittedWhenEmpty verifies check.kind only appears when set.
func TestLogger_KindOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCheck(CheckMeta{Name: "cache"}).Info(context.Background(), "test")

	entry := decodeLine(t, buf.String())
	if _, ok := entry["check.kind"]; ok {
		t.Errorf("expected no check.kind, got %v", entry["check.kind"])
	}
}

// TestLogger_WithCheckDoesNotMutateParent verifies scoped loggers are independent.
func TestLogger_WithCheckDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	_ = logger.WithCheck(CheckMeta{Name: "database"})
	logger.Info(context.Background(), "plain")

	entry := decodeLine(t, buf.String())
	if _, ok := entry["check.name"]; ok {
		t.Errorf("parent logger should not carry check.name, got %v", entry["check.name"])
	}
}

// TestLogger_Levels verifies each method writes its level.
func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(Logger)
	}{
		{"debug", func(l Logger) { l.Debug(context.Background(), "m") }},
		{"info", func(l Logger) { l.Info(context.Background(), "m") }},
		{"warn", func(l Logger) { l.Warn(context.Background(), "m") }},
		{"error", func(l Logger) { l.Error(context.Background(), "m") }},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			tc.log(NewLoggerWithWriter("debug", &buf))

			entry := decodeLine(t, buf.String())
			if v, ok := entry["level"].(string); !ok || v != tc.level {
				t.Errorf("expected level=%q, got %v", tc.level, entry["level"])
			}
		})
	}
}

// TestLogger_SensitiveFieldsRedacted verifies connection strings and secrets are not logged.
func TestLogger_SensitiveFieldsRedacted(t *testing.T) {
	for _, key := range RedactedFields {
		t.Run(key, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter("info", &buf)

			logger.Info(context.Background(), "configured",
				Field{Key: key, Value: "postgres://user:hunter2@db/app"},
			)

			output := buf.String()
			if strings.Contains(output, "hunter2") {
				t.Errorf("raw %s should be redacted, got %s", key, output)
			}
			entry := decodeLine(t, output)
			if entry[key] != "[REDACTED]" {
				t.Errorf("expected %s=[REDACTED], got %v", key, entry[key])
			}
		})
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf).WithCheck(CheckMeta{Name: "filtered"})

	logger.Info(context.Background(), "info message")
	if strings.Contains(buf.String(), "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	logger.Warn(context.Background(), "warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_ConcurrentScopedLoggers verifies scoped loggers never interleave lines.
func TestLogger_ConcurrentScopedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		scoped := logger.WithCheck(CheckMeta{Name: name})
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				scoped.Info(context.Background(), "tick")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Fatalf("expected 200 lines, got %d", len(lines))
	}
	for _, line := range lines {
		decodeLine(t, line)
	}
}

// TestParseLogLevel verifies parsing and the info fallback.
func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
