package values

import (
	"errors"
	"testing"
)

func validDecls() ([]CoreValue, []RiskFactor, []StrategicGoal) {
	vals := []CoreValue{
		{ID: "safety", Description: "protect safety systems", Weight: 0.9, Category: "safety"},
		{ID: "honesty", Description: "report results truthfully", Weight: 0.7, Category: "integrity"},
	}
	risks := []RiskFactor{
		{ID: "shutdown", Description: "disabling monitors", SeverityBase: 0.6, Triggers: []string{"shutdown", "disable"}},
	}
	goals := []StrategicGoal{
		{ID: "g1", Description: "index the corpus", Priority: 5, Status: GoalActive},
	}
	return vals, risks, goals
}

func TestNewModelValid(t *testing.T) {
	vals, risks, goals := validDecls()
	m, err := NewModel(vals, risks, goals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Values()) != 2 || len(m.RiskFactors()) != 1 || len(m.Goals()) != 1 {
		t.Fatalf("unexpected sizes: %d values, %d risks, %d goals",
			len(m.Values()), len(m.RiskFactors()), len(m.Goals()))
	}
	if m.Values()[0].ID != "safety" {
		t.Fatalf("declaration order not preserved, got %s first", m.Values()[0].ID)
	}
}

func TestNewModelRejectsWeightOutOfRange(t *testing.T) {
	vals, risks, goals := validDecls()
	vals[0].Weight = 1.5
	_, err := NewModel(vals, risks, goals)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewModelRejectsZeroSeverity(t *testing.T) {
	vals, risks, goals := validDecls()
	risks[0].SeverityBase = 0
	if _, err := NewModel(vals, risks, goals); err == nil {
		t.Fatal("expected error for zero severity base")
	}
}

func TestNewModelRejectsDuplicateIDWithinCategory(t *testing.T) {
	vals, risks, goals := validDecls()
	vals = append(vals, CoreValue{ID: "safety", Description: "dup", Weight: 0.5, Category: "safety"})
	if _, err := NewModel(vals, risks, goals); err == nil {
		t.Fatal("expected error for duplicate value id")
	}
}

func TestNewModelRejectsPriorityOutOfRange(t *testing.T) {
	vals, risks, goals := validDecls()
	goals[0].Priority = 11
	if _, err := NewModel(vals, risks, goals); err == nil {
		t.Fatal("expected error for priority above 10")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	vals, risks, goals := validDecls()
	m, err := NewModel(vals, risks, goals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot := m.Values()
	snapshot[0].Weight = 0.01
	if m.Values()[0].Weight != 0.9 {
		t.Fatal("mutating a snapshot leaked into the model")
	}
}

func TestFingerprintStableAndSensitive(t *testing.T) {
	vals, risks, goals := validDecls()
	m1, _ := NewModel(vals, risks, goals)
	m2, _ := NewModel(vals, risks, goals)
	if m1.Fingerprint() != m2.Fingerprint() {
		t.Fatal("identical declarations produced different fingerprints")
	}
	if m1.Fingerprint() != m1.Recompute() {
		t.Fatal("recompute differs from construction-time fingerprint")
	}

	vals[0].Weight = 0.8
	m3, _ := NewModel(vals, risks, goals)
	if m3.Fingerprint() == m1.Fingerprint() {
		t.Fatal("fingerprint did not change with a weight change")
	}
}

func TestParseYAMLDocument(t *testing.T) {
	doc := []byte(`
values:
  - id: safety
    description: protect safety systems
    weight: 0.9
    category: safety
risk_factors:
  - id: shutdown
    description: disabling monitors
    severity_base: 0.6
    triggers: [shutdown, disable]
goals:
  - id: g1
    description: index the corpus
    priority: 5
`)
	m, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	goals := m.Goals()
	if goals[0].Status != GoalProposed {
		t.Fatalf("expected unset status to default to proposed, got %s", goals[0].Status)
	}
	if m.RiskFactors()[0].Triggers[1] != "disable" {
		t.Fatalf("triggers not parsed: %v", m.RiskFactors()[0].Triggers)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("values: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
