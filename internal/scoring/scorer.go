package scoring

// #region imports
import (
	"sort"
	"strings"

	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region scorer
// Scorer computes alignment scores against an immutable value model.
// Score is a pure function: identical input always yields identical output.
type Scorer struct {
	model   *values.Model
	matcher Matcher

	// Token sets precomputed at construction. The model is immutable for
	// the session, so these never change.
	valueTokens [][]string
	riskTokens  [][]string
	vals        []values.CoreValue
	risks       []values.RiskFactor
}

// NewScorer builds a scorer over the given model. A nil matcher selects the
// token-overlap reference strategy.
func NewScorer(model *values.Model, matcher Matcher) *Scorer {
	if matcher == nil {
		matcher = NewTokenMatcher()
	}
	vals := model.Values()
	risks := model.RiskFactors()

	valueTokens := make([][]string, len(vals))
	for i, v := range vals {
		valueTokens[i] = Tokenize(v.Category + " " + v.Description)
	}
	riskTokens := make([][]string, len(risks))
	for i, r := range risks {
		riskTokens[i] = Tokenize(strings.Join(r.Triggers, " "))
	}

	return &Scorer{
		model:       model,
		matcher:     matcher,
		valueTokens: valueTokens,
		riskTokens:  riskTokens,
		vals:        vals,
		risks:       risks,
	}
}

// #endregion scorer

// #region score

// Score evaluates a description under the given penalty multiplier.
// The multiplier comes from Severity.Multiplier for behavior changes or
// PriorityMultiplier for goal filtering.
func (s *Scorer) Score(description string, multiplier float64) (Result, error) {
	if strings.TrimSpace(description) == "" {
		return Result{}, &InvalidInputError{Reason: "empty description"}
	}

	tokens := Tokenize(description)

	// Base alignment: mean weight of the core values the input touches.
	var weightSum float64
	matched := 0
	for i, v := range s.vals {
		if s.matcher.Match(tokens, s.valueTokens[i]) {
			weightSum += v.Weight
			matched++
		}
	}
	base := 0.0
	if matched > 0 {
		base = weightSum / float64(matched)
	}

	// Penalty pass: every risk factor whose trigger set intersects the input.
	var violations []Violation
	var penaltySum float64
	for i, r := range s.risks {
		if s.matcher.Match(tokens, s.riskTokens[i]) {
			penalty := r.SeverityBase * multiplier
			violations = append(violations, Violation{RiskFactorID: r.ID, Penalty: penalty})
			penaltySum += penalty
		}
	}

	sort.SliceStable(violations, func(a, b int) bool {
		if violations[a].Penalty != violations[b].Penalty {
			return violations[a].Penalty > violations[b].Penalty
		}
		return violations[a].RiskFactorID < violations[b].RiskFactorID
	})

	score := base - penaltySum
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return Result{Base: base, Score: score, Violations: violations}, nil
}

// #endregion score
