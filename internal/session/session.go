// Package session wires one value model, gate, orchestrator, and optional
// archive into a single session-scoped handle. The gate's ledger and the
// orchestrator's task set only mean anything when they accumulate across
// calls, so these components must never be reconstructed per request.
package session

// #region imports
import (
	"fmt"
	"log"
	"sync"

	"github.com/rootlodge/aligncore/internal/archive"
	"github.com/rootlodge/aligncore/internal/gate"
	"github.com/rootlodge/aligncore/internal/tasks"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region config

// Config bundles everything needed to start a session.
type Config struct {
	ModelPath   string // YAML value-model document
	ArchivePath string // SQLite decision archive; empty disables archiving
	Gate        gate.Config
	Tasks       tasks.Config
}

// DefaultConfig returns a config with gate and orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		Gate:  gate.DefaultConfig(),
		Tasks: tasks.DefaultConfig(),
	}
}

// #endregion config

// #region session

// Session owns the per-agent-session alignment state. Lifetime = session
// lifetime; there is no cross-session sharing.
type Session struct {
	model   *values.Model
	gate    *gate.Gate
	orch    *tasks.Orchestrator
	archive *archive.Archive
}

// Open loads the value model and constructs the session components.
func Open(cfg Config) (*Session, error) {
	model, err := values.Load(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return OpenModel(model, cfg)
}

// OpenModel constructs a session over an already-built model.
func OpenModel(model *values.Model, cfg Config) (*Session, error) {
	s := &Session{
		model: model,
		gate:  gate.New(model, cfg.Gate),
	}
	s.orch = tasks.NewOrchestrator(s.gate, cfg.Tasks)

	if cfg.ArchivePath != "" {
		arc, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("open session archive: %w", err)
		}
		s.archive = arc
		s.gate.AttachArchiver(arc)
	}

	log.Printf("[SESSION] opened: %d values, %d risk factors, %d goals, archive=%v",
		len(model.Values()), len(model.RiskFactors()), len(model.Goals()), s.archive != nil)
	return s, nil
}

// Model returns the session's immutable value model.
func (s *Session) Model() *values.Model { return s.model }

// Gate returns the session's alignment gate.
func (s *Session) Gate() *gate.Gate { return s.gate }

// Orchestrator returns the session's task orchestrator.
func (s *Session) Orchestrator() *tasks.Orchestrator { return s.orch }

// Close releases the archive connection, if any.
func (s *Session) Close() error {
	if s.archive != nil {
		return s.archive.Close()
	}
	return nil
}

// #endregion session

// #region handle

// Handle constructs the session lazily on first use and hands every caller
// the same instance. Inject the handle; never rebuild gates per call.
type Handle struct {
	mu  sync.Mutex
	cfg Config
	s   *Session
	err error
}

// NewHandle wraps a config for deferred construction.
func NewHandle(cfg Config) *Handle {
	return &Handle{cfg: cfg}
}

// Session returns the shared session, constructing it on first call.
// A failed construction is sticky: later calls return the same error.
func (h *Handle) Session() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.s == nil && h.err == nil {
		h.s, h.err = Open(h.cfg)
	}
	return h.s, h.err
}

// Close tears down the session if it was ever constructed.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.s == nil {
		return nil
	}
	err := h.s.Close()
	h.s = nil
	h.err = fmt.Errorf("session closed")
	return err
}

// #endregion handle
