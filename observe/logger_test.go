package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_EmitsJSON verifies that log entries are valid JSON with
// timestamp, level and message fields.
func TestLogger_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "query dispatched",
		F("endpoint", "https://api.example.com/graphql"),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if entry["level"] != "info" {
		t.Errorf("expected level='info', got %v", entry["level"])
	}
	if entry["msg"] != "query dispatched" {
		t.Errorf("expected msg='query dispatched', got %v", entry["msg"])
	}
	if entry["endpoint"] != "https://api.example.com/graphql" {
		t.Errorf("expected endpoint field, got %v", entry["endpoint"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp field in log entry")
	}
}

// TestLogger_LevelFiltering verifies entries below the configured level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "debug message")
	logger.Info(context.Background(), "info message")

	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got: %s", buf.String())
	}

	logger.Warn(context.Background(), "warn message")
	if buf.Len() == 0 {
		t.Error("expected warn message to be logged")
	}
}

// TestLogger_With verifies attached fields appear in every entry.
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).With(
		F("component", "server"),
		F("request_id", "abc-123"),
	)

	logger.Info(context.Background(), "first message")
	logger.Info(context.Background(), "second message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}

	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d: failed to parse log output: %v", i, err)
		}
		if entry["component"] != "server" {
			t.Errorf("line %d: expected component='server', got %v", i, entry["component"])
		}
		if entry["request_id"] != "abc-123" {
			t.Errorf("line %d: expected request_id='abc-123', got %v", i, entry["request_id"])
		}
	}
}

// TestLogger_RedactsSensitiveFields verifies tokens never reach the log output.
func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "auth configured",
		F("token", "super-secret-token"),
		F("api_key", "sk-1234"),
	)

	output := buf.String()
	if strings.Contains(output, "super-secret-token") || strings.Contains(output, "sk-1234") {
		t.Fatalf("sensitive values leaked into log output: %s", output)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["token"] != "[REDACTED]" {
		t.Errorf("expected token='[REDACTED]', got %v", entry["token"])
	}
}

// TestParseLogLevel verifies level parsing and the info default.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestNopLogger verifies the no-op logger discards everything without panicking.
func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info(context.Background(), "dropped")
	logger.With(F("key", "value")).Error(context.Background(), "also dropped")
}
