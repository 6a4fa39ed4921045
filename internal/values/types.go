package values

// #region core-value
// CoreValue is an operator-declared principle with a scoring weight.
type CoreValue struct {
	ID          string  `yaml:"id" json:"id"`
	Description string  `yaml:"description" json:"description"`
	Weight      float64 `yaml:"weight" json:"weight"` // (0, 1]
	Category    string  `yaml:"category" json:"category"`
}

// #endregion core-value

// #region risk-factor
// RiskFactor is a condition that penalizes the alignment score when triggered.
type RiskFactor struct {
	ID           string   `yaml:"id" json:"id"`
	Description  string   `yaml:"description" json:"description"`
	SeverityBase float64  `yaml:"severity_base" json:"severity_base"` // (0, 1]
	Triggers     []string `yaml:"triggers" json:"triggers"`
}

// #endregion risk-factor

// #region goal-status
// GoalStatus is the lifecycle status of a strategic goal.
type GoalStatus string

const (
	GoalProposed GoalStatus = "proposed"
	GoalActive   GoalStatus = "active"
	GoalRetired  GoalStatus = "retired"
)

// #endregion goal-status

// #region strategic-goal
// StrategicGoal is a high-level objective considered for task creation.
type StrategicGoal struct {
	ID          string     `yaml:"id" json:"id"`
	Description string     `yaml:"description" json:"description"`
	Priority    float64    `yaml:"priority" json:"priority"` // [0, 10]
	Status      GoalStatus `yaml:"status" json:"status"`
}

// #endregion strategic-goal

// #region configuration-error
// ConfigurationError reports a malformed value model at construction.
// It is fatal: a session must not start with a model that fails validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "value model configuration: " + e.Field + ": " + e.Reason
}

// #endregion configuration-error
