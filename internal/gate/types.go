package gate

// #region imports
import (
	"time"

	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
)

// #endregion imports

// #region config
// Config holds the gate's classification thresholds and window sizes.
type Config struct {
	Thresholds       scoring.Thresholds
	Matcher          scoring.Matcher // nil -> token-overlap reference matcher
	LedgerCapacity   int             // 0 -> ledger.DefaultCapacity
	MetricsWindow    int             // decisions considered by Metrics
	ValidationWindow int             // decisions considered by the approval-floor check
	ApprovalFloor    float64         // minimum non-rejected share before flagging
}

// DefaultConfig returns the documented gate defaults.
func DefaultConfig() Config {
	return Config{
		Thresholds:       scoring.DefaultThresholds(),
		MetricsWindow:    100,
		ValidationWindow: 50,
		ApprovalFloor:    0.1,
	}
}

// #endregion config

// #region metrics
// IntegrityMetrics is derived from the ledger on demand, never cached.
type IntegrityMetrics struct {
	CurrentScore    float64        // mean score across the metrics window
	ApprovalRate    float64        // non-rejected share of the window
	ViolationCounts map[string]int // triggered risk factor -> count
	Decisions       int            // window size actually observed
	LastValidatedAt time.Time      // zero until the first validation sweep
}

// #endregion metrics

// #region validation-report
// ValidationReport is the output of an integrity sweep.
type ValidationReport struct {
	Valid     bool
	Issues    []string
	CheckedAt time.Time
}

// #endregion validation-report

// #region archiver
// Archiver mirrors recorded decisions to durable storage. Archive failures
// are logged and swallowed: the in-memory ledger stays the source of truth.
type Archiver interface {
	Archive(ledger.Decision) error
}

// #endregion archiver
