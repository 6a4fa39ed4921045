package replay

// #region imports
import (
	"fmt"

	"github.com/rootlodge/aligncore/internal/gate"
	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region types

// Evaluation is a single recorded evaluation for replay.
type Evaluation struct {
	EvalID      string
	Kind        string // "behavior_change" | "goal_filter"
	Description string
	Context     string
	Severity    scoring.Severity
	Priority    float64
}

// ReplayResult captures the outcome of replaying one evaluation.
type ReplayResult struct {
	EvalID    string
	Outcome   scoring.Outcome
	Score     float64
	Rationale string
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total    int
	Approved int
	Modified int
	Rejected int
}

// #endregion types

// #region replay

// Replay runs the recorded evaluations through a fresh gate built over the
// given model. Scoring is pure, so replaying a recorded session against the
// same model must reproduce its decisions exactly.
func Replay(model *values.Model, evals []Evaluation, cfg gate.Config) ([]ReplayResult, error) {
	g := gate.New(model, cfg)
	results := make([]ReplayResult, 0, len(evals))

	for _, e := range evals {
		var (
			d   ledger.Decision
			err error
		)
		switch e.Kind {
		case string(ledger.KindGoalFilter):
			d, err = g.FilterGoal(e.Description, e.Priority)
		default:
			d, err = g.EvaluateBehaviorChange(e.Description, e.Context, e.Severity)
		}
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", e.EvalID, err)
		}
		results = append(results, ReplayResult{
			EvalID:    e.EvalID,
			Outcome:   d.Outcome,
			Score:     d.Score,
			Rationale: d.Rationale,
		})
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case scoring.OutcomeApproved:
			s.Approved++
		case scoring.OutcomeModified:
			s.Modified++
		case scoring.OutcomeRejected:
			s.Rejected++
		}
	}
	return s
}

// Verify compares replay results against expected outcomes and returns one
// message per divergence. Empty means the replay reproduced the record.
func Verify(results []ReplayResult, expected []FixtureExpected) []string {
	want := make(map[string]string, len(expected))
	for _, e := range expected {
		want[e.EvalID] = e.Outcome
	}

	var diffs []string
	for _, r := range results {
		exp, ok := want[r.EvalID]
		if !ok {
			continue
		}
		if string(r.Outcome) != exp {
			diffs = append(diffs, fmt.Sprintf("%s: expected %s, got %s (score %.4f)",
				r.EvalID, exp, r.Outcome, r.Score))
		}
	}
	return diffs
}

// #endregion replay
