// Command inspect lists archived gate decisions from a SQLite decision log.
package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rootlodge/aligncore/internal/archive"
	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
)

// #endregion imports

// #region main
func main() {
	dbPath := flag.String("db", envOr("ALIGN_DB", "decisions.db"), "path to the decision archive")
	last := flag.Int("last", 20, "number of most recent decisions to show")
	outcome := flag.String("outcome", "", "filter by outcome (approved|modified|rejected)")
	counts := flag.Bool("counts", false, "print per-outcome totals instead of rows")
	asJSON := flag.Bool("json", false, "emit decisions as JSON")
	flag.Parse()

	a, err := archive.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open archive %s: %v", *dbPath, err)
	}
	defer a.Close()

	if *counts {
		runCountMode(a)
		return
	}
	runListMode(a, *last, *outcome, *asJSON)
}

// #endregion main

// #region modes
func runCountMode(a *archive.Archive) {
	totals, err := a.CountByOutcome()
	if err != nil {
		log.Fatalf("count query failed: %v", err)
	}
	for _, o := range []string{"approved", "modified", "rejected"} {
		fmt.Printf("%-10s %d\n", o, totals[o])
	}
}

func runListMode(a *archive.Archive, last int, outcome string, asJSON bool) {
	decisions, err := a.Recent(last)
	if err != nil {
		log.Fatalf("archive query failed: %v", err)
	}
	if outcome != "" {
		decisions = filterByOutcome(decisions, scoring.Outcome(outcome))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(decisions); err != nil {
			log.Fatalf("encode failed: %v", err)
		}
		return
	}

	for _, d := range decisions {
		fmt.Printf("seq=%-6d %s  %-15s %-8s score=%.4f base=%.4f violations=%d\n",
			d.Seq, d.Timestamp.Format("2006-01-02 15:04:05"), d.Kind, d.Outcome,
			d.Score, d.Base, len(d.Violations))
		fmt.Printf("           input: %q\n", d.Input.Description)
		if d.Rationale != "" {
			fmt.Printf("           rationale: %s\n", d.Rationale)
		}
	}
}

func filterByOutcome(decisions []ledger.Decision, o scoring.Outcome) []ledger.Decision {
	out := decisions[:0]
	for _, d := range decisions {
		if d.Outcome == o {
			out = append(out, d)
		}
	}
	return out
}

// #endregion modes

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
