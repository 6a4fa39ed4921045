package gate

import (
	"errors"
	"testing"

	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/values"
)

func testModel(t *testing.T) *values.Model {
	t.Helper()
	m, err := values.NewModel(
		[]values.CoreValue{
			{ID: "safety", Description: "keep protective monitors running", Weight: 0.9, Category: "safety"},
		},
		[]values.RiskFactor{
			{ID: "shutdown", Description: "disabling protective systems", SeverityBase: 0.6, Triggers: []string{"shutdown"}},
		},
		[]values.StrategicGoal{
			{ID: "g1", Description: "improve safety reporting", Priority: 4, Status: values.GoalActive},
		},
	)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func TestEvaluateApprovedWritesLedger(t *testing.T) {
	g := New(testModel(t), DefaultConfig())

	d, err := g.EvaluateBehaviorChange("improve safety checks", "deploy window", scoring.SeverityMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != scoring.OutcomeApproved {
		t.Fatalf("expected approved, got %s (score %.4f)", d.Outcome, d.Score)
	}
	if d.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", d.Seq)
	}
	recent := g.RecentDecisions(1)
	if len(recent) != 1 || recent[0].ID != d.ID {
		t.Fatal("decision not recorded in ledger")
	}
}

func TestEvaluateRejectedOnHighSeverityShutdown(t *testing.T) {
	g := New(testModel(t), DefaultConfig())

	d, err := g.EvaluateBehaviorChange("shutdown all safety monitors", "", scoring.SeverityHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != scoring.OutcomeRejected {
		t.Fatalf("expected rejected, got %s (score %.4f)", d.Outcome, d.Score)
	}
	if d.Score != 0 {
		t.Fatalf("expected clamped score 0, got %.4f", d.Score)
	}
	if d.Rationale == "" {
		t.Fatal("rejected decision should carry a rationale")
	}
}

func TestEvaluateModifiedSuggestsReducedSeverity(t *testing.T) {
	g := New(testModel(t), DefaultConfig())

	d, err := g.EvaluateBehaviorChange("shutdown all safety monitors", "", scoring.SeverityLow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != scoring.OutcomeModified {
		t.Fatalf("expected modified, got %s (score %.4f)", d.Outcome, d.Score)
	}
	if d.SuggestedSeverity != scoring.SeverityLow {
		t.Fatalf("expected suggested severity low, got %q", d.SuggestedSeverity)
	}
}

func TestEvaluateEmptyInputNoLedgerWrite(t *testing.T) {
	g := New(testModel(t), DefaultConfig())

	_, err := g.EvaluateBehaviorChange("", "", scoring.SeverityLow)
	var invErr *scoring.InvalidInputError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if g.LedgerLen() != 0 {
		t.Fatal("invalid input must not reach the ledger")
	}
}

func TestFilterGoalModifiedReducesPriority(t *testing.T) {
	g := New(testModel(t), DefaultConfig())

	// Priority 1 -> multiplier 0.65, penalty 0.39, score 0.51 -> modified.
	d, err := g.FilterGoal("shutdown stale safety monitors", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != ledger.KindGoalFilter {
		t.Fatalf("expected goal_filter kind, got %s", d.Kind)
	}
	if d.Outcome != scoring.OutcomeModified {
		t.Fatalf("expected modified, got %s (score %.4f)", d.Outcome, d.Score)
	}
	if d.SuggestedPriority >= d.Input.Priority {
		t.Fatalf("suggested priority %.1f not reduced from %.1f", d.SuggestedPriority, d.Input.Priority)
	}
}

func TestMetricsRecomputedFromWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsWindow = 10
	g := New(testModel(t), cfg)

	if m := g.Metrics(); m.Decisions != 0 || m.CurrentScore != 0 {
		t.Fatalf("expected empty metrics, got %+v", m)
	}

	// one approved, one rejected
	g.EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityMedium)
	g.EvaluateBehaviorChange("shutdown all safety monitors", "", scoring.SeverityHigh)

	m := g.Metrics()
	if m.Decisions != 2 {
		t.Fatalf("expected 2 decisions in window, got %d", m.Decisions)
	}
	if m.ApprovalRate != 0.5 {
		t.Fatalf("expected approval rate 0.5, got %.4f", m.ApprovalRate)
	}
	if m.ViolationCounts["shutdown"] != 1 {
		t.Fatalf("expected one shutdown violation, got %+v", m.ViolationCounts)
	}
}

func TestValidateIntegrityHealthy(t *testing.T) {
	g := New(testModel(t), DefaultConfig())
	g.EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityMedium)

	report := g.ValidateIntegrity()
	if !report.Valid {
		t.Fatalf("expected valid sweep, issues: %v", report.Issues)
	}
	if g.Metrics().LastValidatedAt.IsZero() {
		t.Fatal("sweep should stamp LastValidatedAt")
	}
	before := g.LedgerLen()
	g.ValidateIntegrity()
	if g.LedgerLen() != before {
		t.Fatal("validation must not write to the ledger")
	}
}

func TestValidateIntegrityFlagsApprovalCollapse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValidationWindow = 5
	g := New(testModel(t), cfg)

	for i := 0; i < 5; i++ {
		g.EvaluateBehaviorChange("shutdown all safety monitors", "", scoring.SeverityHigh)
	}
	report := g.ValidateIntegrity()
	if report.Valid {
		t.Fatal("expected sweep to flag collapsed approval rate")
	}
	if len(report.Issues) == 0 {
		t.Fatal("expected issues listed")
	}
}

type captureArchiver struct {
	got []ledger.Decision
	err error
}

func (c *captureArchiver) Archive(d ledger.Decision) error {
	c.got = append(c.got, d)
	return c.err
}

func TestArchiverMirrorsDecisions(t *testing.T) {
	g := New(testModel(t), DefaultConfig())
	arc := &captureArchiver{}
	g.AttachArchiver(arc)

	d, err := g.EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arc.got) != 1 || arc.got[0].ID != d.ID {
		t.Fatal("decision not mirrored to archiver")
	}
	if arc.got[0].Seq != d.Seq {
		t.Fatal("archived decision missing sequence number")
	}
}

func TestArchiverFailureDoesNotSurface(t *testing.T) {
	g := New(testModel(t), DefaultConfig())
	g.AttachArchiver(&captureArchiver{err: errors.New("disk full")})

	if _, err := g.EvaluateBehaviorChange("improve safety checks", "", scoring.SeverityMedium); err != nil {
		t.Fatalf("archive failure leaked to caller: %v", err)
	}
	if g.LedgerLen() != 1 {
		t.Fatal("ledger write should survive archive failure")
	}
}
