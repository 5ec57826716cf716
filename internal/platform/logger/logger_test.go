package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/taskhive/taskhive-api/internal/config"
)

// testLogBuffer is a thread-safe buffer for capturing log output in tests.
type testLogBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *testLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *testLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// entries parses the buffer contents as JSON log entries, one per line.
func (b *testLogBuffer) entries(t *testing.T) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestSetupReturnsLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
		if err != nil {
			t.Fatalf("Setup(%q) returned unexpected error: %v", level, err)
		}
		if logger == nil {
			t.Fatalf("Setup(%q) returned a nil logger", level)
		}
	}
}

func TestFromContext(t *testing.T) {
	buf := &testLogBuffer{}
	stored := slog.New(slog.NewJSONHandler(buf, nil))

	ctx := WithLogger(context.Background(), stored)
	got := FromContext(ctx)

	got.Info("hello", slog.String("k", "v"))

	entries := buf.entries(t)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0]["msg"] != "hello" || entries[0]["k"] != "v" {
		t.Errorf("unexpected log entry: %v", entries[0])
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Fatal("FromContext returned nil for an empty context")
	}
	if got := FromContext(nil); got == nil { //nolint:staticcheck // nil context is part of the contract
		t.Fatal("FromContext returned nil for a nil context")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewJSONHandler(&testLogBuffer{}, nil))

	if got := FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Error("expected the provided fallback logger for an empty context")
	}

	stored := slog.New(slog.NewJSONHandler(&testLogBuffer{}, nil))
	ctx := WithLogger(context.Background(), stored)
	if got := FromContextOrDefault(ctx, fallback); got != stored {
		t.Error("expected the context logger to win over the fallback")
	}
}
