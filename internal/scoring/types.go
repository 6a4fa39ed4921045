package scoring

// #region severity
// Severity is the caller-supplied weight class for a proposed behavior change.
type Severity string

const (
	SeverityLow         Severity = "low"
	SeverityMedium      Severity = "medium"
	SeverityHigh        Severity = "high"
	SeverityUnspecified Severity = ""
)

// Multiplier maps a severity to a penalty multiplier in [0.5, 2.0].
func (s Severity) Multiplier() float64 {
	switch s {
	case SeverityLow:
		return 0.5
	case SeverityMedium:
		return 1.0
	case SeverityHigh:
		return 2.0
	default:
		return 1.0
	}
}

// ParseSeverity normalizes a severity string. Unknown values map to
// unspecified rather than failing: severity is advisory input, not policy.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s)
	default:
		return SeverityUnspecified
	}
}

// PriorityMultiplier maps a goal priority in [0, 10] onto the same [0.5, 2.0]
// linear multiplier scale used for severities.
func PriorityMultiplier(priority float64) float64 {
	if priority < 0 {
		priority = 0
	}
	if priority > 10 {
		priority = 10
	}
	return 0.5 + 0.15*priority
}

// #endregion severity

// #region outcome
// Outcome classifies an evaluation. Rejection is a successful policy
// judgment, not an error.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeModified Outcome = "modified"
	OutcomeRejected Outcome = "rejected"
)

// #endregion outcome

// #region thresholds
// Thresholds holds the score boundaries for outcome classification.
type Thresholds struct {
	Approve float64 // score >= Approve -> approved
	Reject  float64 // score < Reject -> rejected; in between -> modified
}

// DefaultThresholds returns the documented classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Approve: 0.70, Reject: 0.40}
}

// Classify maps a score onto an outcome.
func (t Thresholds) Classify(score float64) Outcome {
	switch {
	case score >= t.Approve:
		return OutcomeApproved
	case score >= t.Reject:
		return OutcomeModified
	default:
		return OutcomeRejected
	}
}

// #endregion thresholds

// #region violation
// Violation is one triggered risk factor and the penalty it contributed.
type Violation struct {
	RiskFactorID string  `json:"risk_factor_id"`
	Penalty      float64 `json:"penalty"`
}

// #endregion violation

// #region result
// Result is the output of one pure scoring pass.
type Result struct {
	Base       float64     // alignment component before penalties
	Score      float64     // clamp(Base - Σ penalties, 0, 1)
	Violations []Violation // descending penalty, ties by risk factor id
}

// #endregion result

// #region invalid-input-error
// InvalidInputError reports malformed evaluation input. Surfaced to the
// caller before any ledger write.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid evaluation input: " + e.Reason
}

// #endregion invalid-input-error
