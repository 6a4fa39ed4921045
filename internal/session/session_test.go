package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rootlodge/aligncore/internal/archive"
	"github.com/rootlodge/aligncore/internal/scoring"
)

const modelDoc = `
values:
  - id: safety
    description: keep protective monitors running
    weight: 0.9
    category: safety
risk_factors:
  - id: shutdown
    description: disabling protective systems
    severity_base: 0.6
    triggers: [shutdown]
goals:
  - id: g1
    description: improve safety reporting
    priority: 4
    status: active
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(modelDoc), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestOpenWiresGateAndOrchestrator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = writeModel(t)

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	// The orchestrator consumes the same gate: a goal sweep leaves
	// goal_filter decisions in the gate's ledger.
	if _, err := s.Orchestrator().Orchestrate("boot"); err != nil {
		t.Fatalf("orchestrate: %v", err)
	}
	recent := s.Gate().RecentDecisions(10)
	if len(recent) != 1 || recent[0].Kind != "goal_filter" {
		t.Fatalf("expected one goal_filter decision, got %+v", recent)
	}
}

func TestOpenWithArchiveMirrorsDecisions(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ModelPath = writeModel(t)
	cfg.ArchivePath = filepath.Join(dir, "decisions.db")

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Gate().EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityMedium); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	arc, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}
	defer arc.Close()
	rows, err := arc.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 archived decision, got %d", len(rows))
	}
}

func TestOpenFailsOnMissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected error for missing model document")
	}
}

func TestHandleSharesOneSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = writeModel(t)
	h := NewHandle(cfg)

	first, err := h.Session()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	second, err := h.Session()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if first != second {
		t.Fatal("handle reconstructed the session per call")
	}

	// Ledger state accumulates across callers of the shared handle.
	first.Gate().EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityLow)
	if second.Gate().LedgerLen() != 1 {
		t.Fatal("ledger state not shared through the handle")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := h.Session(); err == nil {
		t.Fatal("closed handle should refuse to reopen")
	}
}
