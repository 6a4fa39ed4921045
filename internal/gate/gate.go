package gate

// #region imports
import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region gate-struct

// Gate runs every proposed behavior change and goal through the scorer,
// records the decision, and classifies the outcome. One gate per session;
// mutating operations are serialized by an internal mutex.
type Gate struct {
	mu     sync.Mutex
	model  *values.Model
	scorer *scoring.Scorer
	log    *ledger.Ledger
	config Config

	archive       Archiver
	lastValidated time.Time
}

// New creates a gate over an immutable value model.
func New(model *values.Model, config Config) *Gate {
	if config.MetricsWindow <= 0 {
		config.MetricsWindow = DefaultConfig().MetricsWindow
	}
	if config.ValidationWindow <= 0 {
		config.ValidationWindow = DefaultConfig().ValidationWindow
	}
	if config.Thresholds == (scoring.Thresholds{}) {
		config.Thresholds = scoring.DefaultThresholds()
	}
	return &Gate{
		model:  model,
		scorer: scoring.NewScorer(model, config.Matcher),
		log:    ledger.New(config.LedgerCapacity),
		config: config,
	}
}

// AttachArchiver sets the durable decision mirror. Optional.
func (g *Gate) AttachArchiver(a Archiver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.archive = a
}

// #endregion gate-struct

// #region evaluate-behavior-change

// EvaluateBehaviorChange scores a proposed behavior change, records the
// decision, and returns it. A scoring error means no ledger write happened.
func (g *Gate) EvaluateBehaviorChange(change, context string, severity scoring.Severity) (ledger.Decision, error) {
	res, err := g.scorer.Score(change, severity.Multiplier())
	if err != nil {
		return ledger.Decision{}, err
	}

	d := ledger.Decision{
		ID:   uuid.New().String(),
		Kind: ledger.KindBehaviorChange,
		Input: ledger.Input{
			Description: change,
			Context:     context,
			Severity:    severity,
		},
		Base:       res.Base,
		Score:      res.Score,
		Violations: res.Violations,
		Outcome:    g.config.Thresholds.Classify(res.Score),
		Timestamp:  time.Now().UTC(),
	}
	if d.Outcome == scoring.OutcomeModified {
		d.SuggestedSeverity = reducedSeverity(severity)
	}
	d.Rationale = rationale(d)

	g.record(&d)
	return d, nil
}

// #endregion evaluate-behavior-change

// #region filter-goal

// FilterGoal runs a strategic goal through the same pipeline with
// kind=goal_filter. A modified outcome carries a reduced priority
// suggestion; a rejected goal must never reach the task orchestrator.
func (g *Gate) FilterGoal(goal string, priority float64) (ledger.Decision, error) {
	res, err := g.scorer.Score(goal, scoring.PriorityMultiplier(priority))
	if err != nil {
		return ledger.Decision{}, err
	}

	d := ledger.Decision{
		ID:   uuid.New().String(),
		Kind: ledger.KindGoalFilter,
		Input: ledger.Input{
			Description: goal,
			Priority:    priority,
		},
		Base:       res.Base,
		Score:      res.Score,
		Violations: res.Violations,
		Outcome:    g.config.Thresholds.Classify(res.Score),
		Timestamp:  time.Now().UTC(),
	}
	if d.Outcome == scoring.OutcomeModified {
		// Scale the requested priority down by the achieved score.
		d.SuggestedPriority = math.Round(priority*res.Score*10) / 10
	}
	d.Rationale = rationale(d)

	g.record(&d)
	return d, nil
}

// #endregion filter-goal

// #region record

func (g *Gate) record(d *ledger.Decision) {
	g.mu.Lock()
	defer g.mu.Unlock()

	d.Seq = g.log.Record(*d)
	if g.archive != nil {
		if err := g.archive.Archive(*d); err != nil {
			log.Printf("[GATE] archive write failed for %s: %v", d.ID, err)
		}
	}

	log.Printf("[GATE] %s seq=%d score=%.4f outcome=%s violations=%d",
		d.Kind, d.Seq, d.Score, d.Outcome, len(d.Violations))
}

// #endregion record

// #region metrics

// Metrics recomputes integrity metrics from the last MetricsWindow
// decisions. Never cached: the ledger can change between calls.
func (g *Gate) Metrics() IntegrityMetrics {
	g.mu.Lock()
	lastValidated := g.lastValidated
	g.mu.Unlock()

	recent := g.log.Recent(g.config.MetricsWindow)
	m := IntegrityMetrics{
		ViolationCounts: make(map[string]int),
		Decisions:       len(recent),
		LastValidatedAt: lastValidated,
	}
	if len(recent) == 0 {
		return m
	}

	var scoreSum float64
	accepted := 0
	for _, d := range recent {
		scoreSum += d.Score
		if d.Outcome != scoring.OutcomeRejected {
			accepted++
		}
		for _, v := range d.Violations {
			m.ViolationCounts[v.RiskFactorID]++
		}
	}
	m.CurrentScore = scoreSum / float64(len(recent))
	m.ApprovalRate = float64(accepted) / float64(len(recent))
	return m
}

// #endregion metrics

// #region validate

// ValidateIntegrity sweeps for structural mutation of the value model and
// for a collapsed approval rate. Read-only with respect to the ledger.
func (g *Gate) ValidateIntegrity() ValidationReport {
	now := time.Now().UTC()
	report := ValidationReport{Valid: true, CheckedAt: now}

	if g.model.Recompute() != g.model.Fingerprint() {
		report.Valid = false
		report.Issues = append(report.Issues, "value model fingerprint changed since construction")
	}

	recent := g.log.Recent(g.config.ValidationWindow)
	if len(recent) > 0 {
		accepted := 0
		for _, d := range recent {
			if d.Outcome != scoring.OutcomeRejected {
				accepted++
			}
		}
		rate := float64(accepted) / float64(len(recent))
		if rate < g.config.ApprovalFloor {
			report.Valid = false
			report.Issues = append(report.Issues, fmt.Sprintf(
				"approval rate %.3f below floor %.3f over last %d decisions",
				rate, g.config.ApprovalFloor, len(recent)))
		}
	}

	g.mu.Lock()
	g.lastValidated = now
	g.mu.Unlock()

	if !report.Valid {
		log.Printf("[GATE] integrity sweep failed: %v", report.Issues)
	}
	return report
}

// #endregion validate

// #region pass-throughs

// CoreValues returns the model's core values.
func (g *Gate) CoreValues() []values.CoreValue { return g.model.Values() }

// RiskFactors returns the model's risk factors.
func (g *Gate) RiskFactors() []values.RiskFactor { return g.model.RiskFactors() }

// StrategicGoals returns the model's strategic goals.
func (g *Gate) StrategicGoals() []values.StrategicGoal { return g.model.Goals() }

// RecentDecisions returns up to n ledger entries, newest first.
func (g *Gate) RecentDecisions(n int) []ledger.Decision { return g.log.Recent(n) }

// LedgerLen returns the number of retained decisions.
func (g *Gate) LedgerLen() int { return g.log.Len() }

// #endregion pass-throughs

// #region helpers

// reducedSeverity steps a severity down one level for a modified outcome.
func reducedSeverity(s scoring.Severity) scoring.Severity {
	switch s {
	case scoring.SeverityHigh:
		return scoring.SeverityMedium
	case scoring.SeverityMedium, scoring.SeverityUnspecified:
		return scoring.SeverityLow
	default:
		return scoring.SeverityLow
	}
}

// rationale builds the human-readable explanation stored on the decision.
func rationale(d ledger.Decision) string {
	switch d.Outcome {
	case scoring.OutcomeApproved:
		return fmt.Sprintf("score %.4f clears the approval threshold", d.Score)
	case scoring.OutcomeModified:
		if d.Kind == ledger.KindGoalFilter {
			return fmt.Sprintf("score %.4f in the modification band: priority reduced to %.1f", d.Score, d.SuggestedPriority)
		}
		return fmt.Sprintf("score %.4f in the modification band: severity reduced to %s", d.Score, d.SuggestedSeverity)
	default:
		if len(d.Violations) > 0 {
			return fmt.Sprintf("score %.4f below the rejection threshold: %d risk factor(s) triggered, worst %s (-%.4f)",
				d.Score, len(d.Violations), d.Violations[0].RiskFactorID, d.Violations[0].Penalty)
		}
		return fmt.Sprintf("score %.4f below the rejection threshold: no core value matched", d.Score)
	}
}

// #endregion helpers
