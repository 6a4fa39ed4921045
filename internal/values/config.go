package values

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion imports

// #region document
// Document is the YAML shape of an operator-supplied value model.
type Document struct {
	Values      []CoreValue     `yaml:"values"`
	RiskFactors []RiskFactor    `yaml:"risk_factors"`
	Goals       []StrategicGoal `yaml:"goals"`
}

// #endregion document

// #region load
// Load reads a YAML value-model document from disk and builds a model.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read value model: %w", err)
	}
	return Parse(data)
}

// Parse builds a model from a YAML document. Goals with no declared status
// default to proposed before validation.
func Parse(data []byte) (*Model, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse value model: %w", err)
	}
	for i := range doc.Goals {
		if doc.Goals[i].Status == "" {
			doc.Goals[i].Status = GoalProposed
		}
	}
	return NewModel(doc.Values, doc.RiskFactors, doc.Goals)
}

// #endregion load
