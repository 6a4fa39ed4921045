// Command alignd is an interactive driver for the alignment-gated
// orchestration core: evaluate behavior changes, filter goals, sweep the
// task set, and inspect metrics from a single session.
package main

// #region imports
import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/session"
	"github.com/rootlodge/aligncore/internal/tasks"
)

// #endregion imports

// #region main
func main() {
	modelPath := envOr("ALIGN_MODEL", "values.yaml")
	archivePath := envOr("ALIGN_DB", "") // empty = in-memory ledger only

	cfg := session.DefaultConfig()
	cfg.ModelPath = modelPath
	cfg.ArchivePath = archivePath

	handle := session.NewHandle(cfg)
	s, err := handle.Session()
	if err != nil {
		log.Fatalf("failed to open session: %v", err)
	}
	defer handle.Close()

	fmt.Println("Alignment core ready.")
	fmt.Printf("  model: %s | archive: %s\n", modelPath, orNone(archivePath))
	fmt.Println("Commands: eval <severity> <text> | goal <priority> <text> | run | tasks |")
	fmt.Println("          complete|fail|cancel <id> | metrics | validate | decisions [n] | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		dispatch(s, line)
	}
}

// #endregion main

// #region dispatch
func dispatch(s *session.Session, line string) {
	fields := strings.SplitN(line, " ", 3)
	cmd := fields[0]

	switch cmd {
	case "eval":
		if len(fields) < 3 {
			fmt.Println("usage: eval <low|medium|high> <text>")
			return
		}
		d, err := s.Gate().EvaluateBehaviorChange(fields[2], "", scoring.ParseSeverity(fields[1]))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("[%s] score=%.4f outcome=%s\n  %s\n", d.ID[:8], d.Score, d.Outcome, d.Rationale)

	case "goal":
		if len(fields) < 3 {
			fmt.Println("usage: goal <priority 0-10> <text>")
			return
		}
		priority, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			fmt.Printf("bad priority %q\n", fields[1])
			return
		}
		d, err := s.Gate().FilterGoal(fields[2], priority)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("[%s] score=%.4f outcome=%s\n  %s\n", d.ID[:8], d.Score, d.Outcome, d.Rationale)

	case "run":
		snap, err := s.Orchestrator().Orchestrate("")
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("pending=%d in_progress=%d completed=%d\n",
			len(snap.Pending), len(snap.InProgress), len(snap.Completed))

	case "tasks":
		printTasks("pending", s.Orchestrator().PendingTasks())
		printTasks("in_progress", s.Orchestrator().InProgressTasks())
		printTasks("completed", s.Orchestrator().CompletedTasks())

	case "complete", "fail", "cancel":
		if len(fields) < 2 {
			fmt.Printf("usage: %s <task id>\n", cmd)
			return
		}
		var t tasks.Task
		var err error
		switch cmd {
		case "complete":
			t, err = s.Orchestrator().Complete(fields[1])
		case "fail":
			t, err = s.Orchestrator().Fail(fields[1])
		default:
			t, err = s.Orchestrator().Cancel(fields[1])
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("task %s now %s\n", t.ID, t.State)

	case "metrics":
		m := s.Gate().Metrics()
		fmt.Printf("score=%.4f approval_rate=%.4f decisions=%d\n", m.CurrentScore, m.ApprovalRate, m.Decisions)
		for id, n := range m.ViolationCounts {
			fmt.Printf("  violation %s: %d\n", id, n)
		}

	case "validate":
		report := s.Gate().ValidateIntegrity()
		fmt.Printf("valid=%v\n", report.Valid)
		for _, issue := range report.Issues {
			fmt.Printf("  issue: %s\n", issue)
		}

	case "decisions":
		n := 10
		if len(fields) > 1 {
			if parsed, err := strconv.Atoi(fields[1]); err == nil {
				n = parsed
			}
		}
		for _, d := range s.Gate().RecentDecisions(n) {
			fmt.Printf("seq=%d %s %s score=%.4f %q\n", d.Seq, d.Kind, d.Outcome, d.Score, d.Input.Description)
		}

	default:
		fmt.Printf("unknown command %q\n", cmd)
	}
}

func printTasks(label string, list []tasks.Task) {
	fmt.Printf("%s (%d):\n", label, len(list))
	for _, t := range list {
		fmt.Printf("  %s p=%.1f goal=%q %q\n", t.ID[:8], t.Priority, t.SourceGoalID, t.Description)
	}
}

// #endregion dispatch

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// #endregion helpers
