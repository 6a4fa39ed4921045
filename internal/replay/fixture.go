package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rootlodge/aligncore/internal/gate"
	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture. It carries
// the full value model so a replay is self-contained and reproducible.
type Fixture struct {
	Description string              `json:"description"`
	Model       FixtureModel        `json:"model"`
	Config      FixtureConfig       `json:"config"`
	Evaluations []FixtureEvaluation `json:"evaluations"`
	Expected    []FixtureExpected   `json:"expected"`
}

// FixtureModel is the JSON-serializable value model.
type FixtureModel struct {
	Values      []values.CoreValue     `json:"values"`
	RiskFactors []values.RiskFactor    `json:"risk_factors"`
	Goals       []values.StrategicGoal `json:"goals,omitempty"`
}

// FixtureConfig mirrors the gate thresholds with JSON tags.
type FixtureConfig struct {
	ApproveThreshold float64 `json:"approve_threshold"`
	RejectThreshold  float64 `json:"reject_threshold"`
}

// FixtureEvaluation is one recorded evaluation input.
type FixtureEvaluation struct {
	EvalID      string  `json:"eval_id"`
	Kind        string  `json:"kind"` // "behavior_change" | "goal_filter"
	Description string  `json:"description"`
	Context     string  `json:"context,omitempty"`
	Severity    string  `json:"severity,omitempty"`
	Priority    float64 `json:"priority,omitempty"`
}

// FixtureExpected captures the expected outcome per evaluation.
type FixtureExpected struct {
	EvalID  string `json:"eval_id"`
	Outcome string `json:"outcome"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToModel builds the value model embedded in the fixture.
func (f *Fixture) ToModel() (*values.Model, error) {
	goals := f.Model.Goals
	for i := range goals {
		if goals[i].Status == "" {
			goals[i].Status = values.GoalProposed
		}
	}
	return values.NewModel(f.Model.Values, f.Model.RiskFactors, goals)
}

// ToGateConfig converts the fixture thresholds to a gate config. Zero
// thresholds select the documented defaults.
func (f *Fixture) ToGateConfig() gate.Config {
	cfg := gate.DefaultConfig()
	if f.Config.ApproveThreshold > 0 {
		cfg.Thresholds.Approve = f.Config.ApproveThreshold
	}
	if f.Config.RejectThreshold > 0 {
		cfg.Thresholds.Reject = f.Config.RejectThreshold
	}
	return cfg
}

// ToEvaluations converts the fixture inputs to domain evaluations.
func (f *Fixture) ToEvaluations() []Evaluation {
	out := make([]Evaluation, 0, len(f.Evaluations))
	for _, e := range f.Evaluations {
		out = append(out, Evaluation{
			EvalID:      e.EvalID,
			Kind:        e.Kind,
			Description: e.Description,
			Context:     e.Context,
			Severity:    scoring.ParseSeverity(e.Severity),
			Priority:    e.Priority,
		})
	}
	return out
}

// #endregion fixture-loader
