package values

// #region imports
import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// #endregion imports

// #region model
// Model is the immutable per-session set of core values, risk factors, and
// strategic goals. Constructed once at session start; reconfiguration means a
// new session, never a mutation.
type Model struct {
	values      []CoreValue
	risks       []RiskFactor
	goals       []StrategicGoal
	fingerprint string
}

// #endregion model

// #region constructor
// NewModel validates the operator-supplied declarations and builds a model.
// Declaration order is preserved: it is the operator's priority order.
func NewModel(vals []CoreValue, risks []RiskFactor, goals []StrategicGoal) (*Model, error) {
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		if v.ID == "" {
			return nil, &ConfigurationError{Field: "values", Reason: "empty id"}
		}
		if seen[v.ID] {
			return nil, &ConfigurationError{Field: "values." + v.ID, Reason: "duplicate id"}
		}
		seen[v.ID] = true
		if v.Weight <= 0 || v.Weight > 1 {
			return nil, &ConfigurationError{
				Field:  "values." + v.ID + ".weight",
				Reason: fmt.Sprintf("%.4f outside (0, 1]", v.Weight),
			}
		}
	}

	seen = make(map[string]bool, len(risks))
	for _, r := range risks {
		if r.ID == "" {
			return nil, &ConfigurationError{Field: "risk_factors", Reason: "empty id"}
		}
		if seen[r.ID] {
			return nil, &ConfigurationError{Field: "risk_factors." + r.ID, Reason: "duplicate id"}
		}
		seen[r.ID] = true
		if r.SeverityBase <= 0 || r.SeverityBase > 1 {
			return nil, &ConfigurationError{
				Field:  "risk_factors." + r.ID + ".severity_base",
				Reason: fmt.Sprintf("%.4f outside (0, 1]", r.SeverityBase),
			}
		}
	}

	seen = make(map[string]bool, len(goals))
	for _, g := range goals {
		if g.ID == "" {
			return nil, &ConfigurationError{Field: "goals", Reason: "empty id"}
		}
		if seen[g.ID] {
			return nil, &ConfigurationError{Field: "goals." + g.ID, Reason: "duplicate id"}
		}
		seen[g.ID] = true
		if g.Priority < 0 || g.Priority > 10 {
			return nil, &ConfigurationError{
				Field:  "goals." + g.ID + ".priority",
				Reason: fmt.Sprintf("%.2f outside [0, 10]", g.Priority),
			}
		}
		switch g.Status {
		case GoalProposed, GoalActive, GoalRetired:
		case "":
			// Unset status defaults to proposed at load time; reject here.
			return nil, &ConfigurationError{Field: "goals." + g.ID + ".status", Reason: "empty status"}
		default:
			return nil, &ConfigurationError{
				Field:  "goals." + g.ID + ".status",
				Reason: "unknown status " + string(g.Status),
			}
		}
	}

	m := &Model{
		values: append([]CoreValue(nil), vals...),
		risks:  append([]RiskFactor(nil), risks...),
		goals:  append([]StrategicGoal(nil), goals...),
	}
	m.fingerprint = computeFingerprint(m.values, m.risks, m.goals)
	return m, nil
}

// #endregion constructor

// #region accessors
// Values returns the core values in declaration order.
func (m *Model) Values() []CoreValue {
	return append([]CoreValue(nil), m.values...)
}

// RiskFactors returns the risk factors in declaration order.
func (m *Model) RiskFactors() []RiskFactor {
	return append([]RiskFactor(nil), m.risks...)
}

// Goals returns the strategic goals in declaration order.
func (m *Model) Goals() []StrategicGoal {
	return append([]StrategicGoal(nil), m.goals...)
}

// #endregion accessors

// #region fingerprint
// Fingerprint returns the structural hash computed at construction.
// The integrity sweep compares it against a fresh recomputation to detect
// in-memory mutation of the model.
func (m *Model) Fingerprint() string {
	return m.fingerprint
}

// Recompute hashes the current contents. Equal to Fingerprint() unless the
// model has been mutated through an aliasing bug.
func (m *Model) Recompute() string {
	return computeFingerprint(m.values, m.risks, m.goals)
}

// computeFingerprint builds a SHA-256 over a canonical field serialization.
// Field order is fixed so the hash is deterministic across runs.
func computeFingerprint(vals []CoreValue, risks []RiskFactor, goals []StrategicGoal) string {
	var b strings.Builder
	for _, v := range vals {
		b.WriteString("v|")
		b.WriteString(v.ID)
		b.WriteByte('|')
		b.WriteString(v.Description)
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v.Weight, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(v.Category)
		b.WriteByte('\n')
	}
	for _, r := range risks {
		b.WriteString("r|")
		b.WriteString(r.ID)
		b.WriteByte('|')
		b.WriteString(r.Description)
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.SeverityBase, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(strings.Join(r.Triggers, ","))
		b.WriteByte('\n')
	}
	for _, g := range goals {
		b.WriteString("g|")
		b.WriteString(g.ID)
		b.WriteByte('|')
		b.WriteString(g.Description)
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(g.Priority, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(string(g.Status))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// #endregion fingerprint
