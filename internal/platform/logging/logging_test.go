package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "warn", "json"); err != nil {
		t.Fatalf("expected init, got %v", err)
	}
	slog.Info("hidden")
	slog.Warn("scoring failed", "periodId", "p1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warning, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json line, got %v", err)
	}
	if entry["periodId"] != "p1" {
		t.Fatalf("expected periodId attr, got %v", entry)
	}
}

func TestInitWriterRejectsUnknown(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "loud", "json"); err == nil {
		t.Fatalf("expected level error")
	}
	if err := InitWriter(&buf, "info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
