package ledger

// #region imports
import (
	"time"

	"github.com/rootlodge/aligncore/internal/scoring"
)

// #endregion imports

// #region kind
// Kind tags which evaluation pipeline produced a decision.
type Kind string

const (
	KindBehaviorChange Kind = "behavior_change"
	KindGoalFilter     Kind = "goal_filter"
)

// #endregion kind

// #region input
// Input is the evaluation request preserved inside the decision record.
type Input struct {
	Description string           `json:"description"`
	Context     string           `json:"context,omitempty"`
	Severity    scoring.Severity `json:"severity,omitempty"` // behavior_change only
	Priority    float64          `json:"priority,omitempty"` // goal_filter only
}

// #endregion input

// #region decision
// Decision is an immutable record of one alignment evaluation. Once recorded
// it is never mutated; the ledger may only FIFO-evict it.
type Decision struct {
	ID         string              `json:"id"`
	Kind       Kind                `json:"kind"`
	Input      Input               `json:"input"`
	Base       float64             `json:"base"`
	Score      float64             `json:"score"`
	Violations []scoring.Violation `json:"violations,omitempty"`
	Outcome    scoring.Outcome     `json:"outcome"`
	Rationale  string              `json:"rationale"`

	// Suggested adjustments, populated on modified outcomes only.
	SuggestedSeverity scoring.Severity `json:"suggested_severity,omitempty"`
	SuggestedPriority float64          `json:"suggested_priority,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`
}

// #endregion decision
