// Command fixture-export builds a self-contained replay fixture from an
// archived decision log and the value model that produced it. The resulting
// JSON can be replayed anywhere with cmd/replay.
package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rootlodge/aligncore/internal/archive"
	"github.com/rootlodge/aligncore/internal/gate"
	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/replay"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region main
func main() {
	dbPath := flag.String("db", envOr("ALIGN_DB", "decisions.db"), "path to the decision archive")
	modelPath := flag.String("model", envOr("ALIGN_MODEL", "values.yaml"), "value model to embed")
	outPath := flag.String("out", "fixture.json", "output fixture path")
	last := flag.Int("last", 0, "export only the N most recent decisions (0 = all)")
	desc := flag.String("desc", "", "fixture description")
	flag.Parse()

	if err := run(*dbPath, *modelPath, *outPath, *last, *desc); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

func run(dbPath, modelPath, outPath string, last int, desc string) error {
	model, err := values.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model %s: %w", modelPath, err)
	}

	a, err := archive.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", dbPath, err)
	}
	defer a.Close()

	decisions, err := a.Recent(last)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	if len(decisions) == 0 {
		return fmt.Errorf("archive %s holds no decisions", dbPath)
	}

	f := buildFixture(model, decisions, desc)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Printf("wrote %s: %d evaluations from %s\n", outPath, len(f.Evaluations), dbPath)
	return nil
}

// #endregion main

// #region build
func buildFixture(model *values.Model, decisions []ledger.Decision, desc string) replay.Fixture {
	cfg := gate.DefaultConfig()
	f := replay.Fixture{
		Description: desc,
		Model: replay.FixtureModel{
			Values:      model.Values(),
			RiskFactors: model.RiskFactors(),
			Goals:       model.Goals(),
		},
		Config: replay.FixtureConfig{
			ApproveThreshold: cfg.Thresholds.Approve,
			RejectThreshold:  cfg.Thresholds.Reject,
		},
	}

	// Archive rows come back newest first; fixtures read better oldest first.
	for i := len(decisions) - 1; i >= 0; i-- {
		d := decisions[i]
		f.Evaluations = append(f.Evaluations, replay.FixtureEvaluation{
			EvalID:      d.ID,
			Kind:        string(d.Kind),
			Description: d.Input.Description,
			Context:     d.Input.Context,
			Severity:    string(d.Input.Severity),
			Priority:    d.Input.Priority,
		})
		f.Expected = append(f.Expected, replay.FixtureExpected{
			EvalID:  d.ID,
			Outcome: string(d.Outcome),
		})
	}
	return f
}

// #endregion build

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
