// Command replay re-runs recorded evaluations through a fresh gate and
// reports whether the outcomes reproduce. Two modes: --fixture replays a
// self-contained JSON fixture and verifies its expected outcomes; --db
// replays archived decisions against a value model loaded from YAML.
package main

// #region imports
import (
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
	fixturePath := flag.String("fixture", "", "path to a JSON replay fixture")
	dbPath := flag.String("db", "", "path to a decision archive to replay")
	modelPath := flag.String("model", envOr("ALIGN_MODEL", "values.yaml"), "value model for --db mode")
	last := flag.Int("last", 0, "limit --db replay to the N most recent decisions (0 = all)")
	flag.Parse()

	switch {
	case *fixturePath != "":
		os.Exit(runFixtureMode(*fixturePath))
	case *dbPath != "":
		os.Exit(runArchiveMode(*dbPath, *modelPath, *last))
	default:
		fmt.Fprintln(os.Stderr, "usage: replay --fixture <file> | replay --db <file> [--model <yaml>] [--last N]")
		os.Exit(2)
	}
}

// #endregion main

// #region fixture-mode
func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	model, err := f.ToModel()
	if err != nil {
		log.Fatalf("fixture model invalid: %v", err)
	}

	results, err := replay.Replay(model, f.ToEvaluations(), f.ToGateConfig())
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	printSummary(f.Description, replay.Summarize(results))

	diffs := replay.Verify(results, f.Expected)
	if len(diffs) == 0 {
		fmt.Println("all expected outcomes reproduced")
		return 0
	}
	for _, d := range diffs {
		fmt.Printf("divergence: %s\n", d)
	}
	return 1
}

// #endregion fixture-mode

// #region archive-mode
func runArchiveMode(dbPath, modelPath string, last int) int {
	model, err := values.Load(modelPath)
	if err != nil {
		log.Fatalf("failed to load model %s: %v", modelPath, err)
	}

	a, err := archive.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open archive %s: %v", dbPath, err)
	}
	defer a.Close()

	decisions, err := a.Recent(last)
	if err != nil {
		log.Fatalf("archive query failed: %v", err)
	}

	results, err := replay.Replay(model, toEvaluations(decisions), gate.DefaultConfig())
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	printSummary(dbPath, replay.Summarize(results))

	diffs := replay.Verify(results, expectedFrom(decisions))
	if len(diffs) == 0 {
		fmt.Println("archive outcomes reproduced against current model")
		return 0
	}
	for _, d := range diffs {
		fmt.Printf("divergence: %s\n", d)
	}
	return 1
}

func toEvaluations(decisions []ledger.Decision) []replay.Evaluation {
	out := make([]replay.Evaluation, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, replay.Evaluation{
			EvalID:      d.ID,
			Kind:        string(d.Kind),
			Description: d.Input.Description,
			Context:     d.Input.Context,
			Severity:    d.Input.Severity,
			Priority:    d.Input.Priority,
		})
	}
	return out
}

func expectedFrom(decisions []ledger.Decision) []replay.FixtureExpected {
	out := make([]replay.FixtureExpected, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, replay.FixtureExpected{EvalID: d.ID, Outcome: string(d.Outcome)})
	}
	return out
}

// #endregion archive-mode

// #region helpers
func printSummary(label string, s replay.ReplaySummary) {
	fmt.Printf("%s: %d replayed (approved=%d modified=%d rejected=%d)\n",
		label, s.Total, s.Approved, s.Modified, s.Rejected)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
