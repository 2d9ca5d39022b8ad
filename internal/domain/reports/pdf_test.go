package reports

import (
	"bytes"
	"testing"
	"time"

	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
)

func TestRenderTarget(t *testing.T) {
	period := evaluation.Period{ID: "p1", Name: "2025 H1", StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)}
	compare := []scoring.CategoryCompare{
		{Name: "Leadership", Self: 4, Peer: 3, Diff: 1, HasSelf: true, HasPeer: true, Weight: 1},
		{Name: "Ekip Çalışması", Peer: 4.5, HasPeer: true, Weight: 1},
	}
	score := scoring.TargetScore{
		Target:          scoring.Target{ID: "alice", Name: "Alice", Department: "eng"},
		OverallAvg:      3.9,
		CategoryCompare: compare,
		Swot:            scoring.DeriveSwot(compare),
		ConfidenceLabel: scoring.ConfidenceLow,
		ConfidenceCoeff: scoring.LowConfidenceCoeff,
	}

	var buf bytes.Buffer
	if err := RenderTarget(&buf, period, score); err != nil {
		t.Fatalf("expected pdf, got %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:8])
	}
}

func TestOptional(t *testing.T) {
	if got := optional(3, false); got != "-" {
		t.Fatalf("expected dash, got %q", got)
	}
	if got := optional(3, true); got != "3.0" {
		t.Fatalf("expected 3.0, got %q", got)
	}
}
