package tasks

// #region imports
import (
	"fmt"
	"time"
)

// #endregion imports

// #region task-state

// TaskState is the lifecycle state of a task.
type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskInProgress TaskState = "in_progress"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
	TaskCancelled  TaskState = "cancelled"
)

// Terminal reports whether the state is absorbing.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// #endregion task-state

// #region task-event

// TaskEvent is one history entry. Timestamps are monotonically non-decreasing
// within a task's history.
type TaskEvent struct {
	State TaskState `json:"state"`
	At    time.Time `json:"at"`
}

// #endregion task-event

// #region task

// Task is a unit of agent work tracked through the admission state machine.
type Task struct {
	ID              string      `json:"id"`
	SourceGoalID    string      `json:"source_goal_id,omitempty"`
	Description     string      `json:"description"`
	Priority        float64     `json:"priority"`
	State           TaskState   `json:"state"`
	ContextSnapshot string      `json:"context_snapshot,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	History         []TaskEvent `json:"history"`
}

// #endregion task

// #region snapshot

// Snapshot is the per-state task view returned by Orchestrate.
type Snapshot struct {
	Pending    []Task
	InProgress []Task
	Completed  []Task
}

// #endregion snapshot

// #region config

// Config holds the orchestrator's admission and retention limits.
type Config struct {
	MaxInProgress    int // max concurrent in-progress tasks; 0 = unbounded
	RetainedTerminal int // terminal tasks kept before FIFO eviction; 0 = default
	MaxLiveTasks     int // hard cap on pending+in-progress tasks; 0 = no cap
}

// DefaultRetainedTerminal bounds retained terminal tasks per session.
const DefaultRetainedTerminal = 500

// DefaultConfig returns the documented orchestrator defaults.
func DefaultConfig() Config {
	return Config{RetainedTerminal: DefaultRetainedTerminal}
}

// #endregion config

// #region errors

// InvalidTransitionError reports an illegal task state change. The task is
// left unchanged.
type InvalidTransitionError struct {
	TaskID string
	From   TaskState
	To     TaskState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: illegal transition %s -> %s", e.TaskID, e.From, e.To)
}

// CapacityExceededError reports that the configured live-task cap is full.
type CapacityExceededError struct {
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("live task cap %d exceeded", e.Limit)
}

// UnknownTaskError reports a lookup for a task id the orchestrator does not
// hold (possibly evicted).
type UnknownTaskError struct {
	TaskID string
}

func (e *UnknownTaskError) Error() string {
	return "unknown task " + e.TaskID
}

// #endregion errors
