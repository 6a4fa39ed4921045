// Package archive persists gate decisions in SQLite. The in-memory ledger
// stays the source of truth for metrics; the archive is a durable audit
// mirror and the data source for replay fixtures.
package archive

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
	_ "modernc.org/sqlite"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decision_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	decision_id     TEXT NOT NULL,
	seq             INTEGER NOT NULL,
	kind            TEXT NOT NULL,
	description     TEXT NOT NULL,
	context         TEXT,
	severity        TEXT,
	priority        REAL,
	base            REAL NOT NULL,
	score           REAL NOT NULL,
	outcome         TEXT NOT NULL,
	violations_json TEXT,
	rationale       TEXT,
	suggested_severity TEXT,
	suggested_priority REAL,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decision_log_seq ON decision_log(seq);
`

// #endregion schema

// #region archive-struct
// Archive wraps the SQLite decision log.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database and runs migrations.
func Open(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// DB returns the underlying *sql.DB for tooling.
func (a *Archive) DB() *sql.DB {
	return a.db
}

// #endregion archive-struct

// #region archive-write

// Archive appends one decision row. Satisfies the gate's Archiver contract.
func (a *Archive) Archive(d ledger.Decision) error {
	var violationsJSON interface{}
	if len(d.Violations) > 0 {
		raw, err := json.Marshal(d.Violations)
		if err != nil {
			return fmt.Errorf("marshal violations: %w", err)
		}
		violationsJSON = string(raw)
	}

	_, err := a.db.Exec(
		`INSERT INTO decision_log
		 (decision_id, seq, kind, description, context, severity, priority,
		  base, score, outcome, violations_json, rationale,
		  suggested_severity, suggested_priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.Seq,
		string(d.Kind),
		d.Input.Description,
		nullIfEmpty(d.Input.Context),
		nullIfEmpty(string(d.Input.Severity)),
		d.Input.Priority,
		d.Base,
		d.Score,
		string(d.Outcome),
		violationsJSON,
		nullIfEmpty(d.Rationale),
		nullIfEmpty(string(d.SuggestedSeverity)),
		d.SuggestedPriority,
		d.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("archive decision: %w", err)
	}
	return nil
}

// #endregion archive-write

// #region archive-read

// Recent returns up to limit archived decisions, newest first. A limit of
// zero or less returns everything.
func (a *Archive) Recent(limit int) ([]ledger.Decision, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := a.db.Query(
		`SELECT decision_id, seq, kind, description, context, severity, priority,
		        base, score, outcome, violations_json, rationale,
		        suggested_severity, suggested_priority, created_at
		 FROM decision_log ORDER BY seq DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Decision
	for rows.Next() {
		var d ledger.Decision
		var kind, outcome, createdStr string
		var context, severity, violationsJSON, rationale, suggestedSeverity sql.NullString

		if err := rows.Scan(&d.ID, &d.Seq, &kind, &d.Input.Description, &context,
			&severity, &d.Input.Priority, &d.Base, &d.Score, &outcome,
			&violationsJSON, &rationale, &suggestedSeverity, &d.SuggestedPriority,
			&createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		d.Kind = ledger.Kind(kind)
		d.Outcome = scoring.Outcome(outcome)
		if context.Valid {
			d.Input.Context = context.String
		}
		if severity.Valid {
			d.Input.Severity = scoring.Severity(severity.String)
		}
		if violationsJSON.Valid {
			if err := json.Unmarshal([]byte(violationsJSON.String), &d.Violations); err != nil {
				return nil, fmt.Errorf("unmarshal violations: %w", err)
			}
		}
		if rationale.Valid {
			d.Rationale = rationale.String
		}
		if suggestedSeverity.Valid {
			d.SuggestedSeverity = scoring.Severity(suggestedSeverity.String)
		}
		d.Timestamp, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountByOutcome returns archived decision counts grouped by outcome.
func (a *Archive) CountByOutcome() (map[string]int, error) {
	rows, err := a.db.Query(`SELECT outcome, COUNT(*) FROM decision_log GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

// #endregion archive-read

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
