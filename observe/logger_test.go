package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line as JSON: %v\nline: %s", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	logger.Info(context.Background(), "found page", F("id", "123"), F("title", "Nextstrain CLI"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e["msg"] != "found page" || e["level"] != "INFO" {
		t.Errorf("entry = %v", e)
	}
	if e["id"] != "123" || e["title"] != "Nextstrain CLI" {
		t.Errorf("fields missing from entry: %v", e)
	}
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", "json", &buf)

	ctx := WithFields(context.Background(), F("title", "Home"))
	logger.Debug(ctx, "search query", F("cql", `title ~ "Home"`))

	e := decodeLines(t, &buf)[0]
	if e["title"] != "Home" {
		t.Errorf("context field missing: %v", e)
	}
	if e["cql"] != `title ~ "Home"` {
		t.Errorf("cql = %v", e["cql"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("WARN", "json", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	if entries[0]["msg"] != "warn" || entries[1]["msg"] != "error" {
		t.Errorf("entries = %v", entries)
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	logger.Info(context.Background(), "config", F("token", "s3cr3t"), F("Authorization", "Basic abc"), F("user", "me"))

	out := buf.String()
	if strings.Contains(out, "s3cr3t") || strings.Contains(out, "Basic abc") {
		t.Fatalf("secret leaked into log output: %s", out)
	}
	e := decodeLines(t, &buf)[0]
	if e["token"] != "[REDACTED]" || e["user"] != "me" {
		t.Errorf("entry = %v", e)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf).With(F("component", "cache"))

	logger.Info(context.Background(), "hello")

	if e := decodeLines(t, &buf)[0]; e["component"] != "cache" {
		t.Errorf("entry = %v", e)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "text", &buf)

	logger.Info(context.Background(), "no page found", F("title", "x"))

	out := buf.String()
	if !strings.Contains(out, `msg="no page found"`) || !strings.Contains(out, "title=x") {
		t.Errorf("text output = %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Info(context.Background(), "x")
	if l.With(F("a", 1)) == nil {
		t.Fatal("With() returned nil")
	}
}
