package tasks

// #region imports
import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rootlodge/aligncore/internal/ledger"
	"github.com/rootlodge/aligncore/internal/scoring"
	"github.com/rootlodge/aligncore/internal/values"
)

// #endregion imports

// #region goal-filter-interface

// GoalFilter abstracts the alignment gate so the orchestrator can be tested
// without a full gate. *gate.Gate satisfies it.
type GoalFilter interface {
	FilterGoal(goal string, priority float64) (ledger.Decision, error)
	StrategicGoals() []values.StrategicGoal
}

// #endregion goal-filter-interface

// #region orchestrator-struct

// Orchestrator owns the task state machine. Goal-derived tasks are admitted
// only through the alignment gate; rejected goals never become tasks.
// One orchestrator per session; mutations are serialized by a mutex.
type Orchestrator struct {
	mu     sync.Mutex
	filter GoalFilter
	config Config

	tasks map[string]*Task
	order []string // task ids in creation order

	// Latest filter outcome per goal id, consulted at admission time.
	goalOutcomes map[string]scoring.Outcome
}

// NewOrchestrator creates an orchestrator fed by the given goal filter.
func NewOrchestrator(filter GoalFilter, config Config) *Orchestrator {
	if config.RetainedTerminal <= 0 {
		config.RetainedTerminal = DefaultRetainedTerminal
	}
	return &Orchestrator{
		filter:       filter,
		config:       config,
		tasks:        make(map[string]*Task),
		goalOutcomes: make(map[string]scoring.Outcome),
	}
}

// #endregion orchestrator-struct

// #region create

// CreateTask adds a pending task from an external planning signal.
func (o *Orchestrator) CreateTask(description string, priority float64, contextSnapshot string) (Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.createLocked("", description, priority, contextSnapshot)
}

func (o *Orchestrator) createLocked(goalID, description string, priority float64, contextSnapshot string) (Task, error) {
	if o.config.MaxLiveTasks > 0 && o.liveCountLocked() >= o.config.MaxLiveTasks {
		return Task{}, &CapacityExceededError{Limit: o.config.MaxLiveTasks}
	}

	now := time.Now().UTC()
	t := &Task{
		ID:              uuid.New().String(),
		SourceGoalID:    goalID,
		Description:     description,
		Priority:        priority,
		State:           TaskPending,
		ContextSnapshot: contextSnapshot,
		CreatedAt:       now,
		UpdatedAt:       now,
		History:         []TaskEvent{{State: TaskPending, At: now}},
	}
	o.tasks[t.ID] = t
	o.order = append(o.order, t.ID)
	log.Printf("[ORCH] created task %s goal=%q priority=%.1f", t.ID, goalID, priority)
	return t.clone(), nil
}

// clone copies the task with an independent history slice, so snapshots
// never alias orchestrator state.
func (t *Task) clone() Task {
	c := *t
	c.History = append([]TaskEvent(nil), t.History...)
	return c
}

// #endregion create

// #region orchestrate

// Orchestrate derives tasks from active strategic goals, filters each new
// candidate through the gate, admits pending tasks up to the throttle, and
// returns the per-state snapshot. Poll-driven; bounded by the number of
// goals plus retained tasks per call.
func (o *Orchestrator) Orchestrate(contextSnapshot string) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, g := range o.filter.StrategicGoals() {
		if g.Status != values.GoalActive {
			continue
		}
		if o.hasLiveTaskForGoalLocked(g.ID) {
			continue
		}

		d, err := o.filter.FilterGoal(g.Description, g.Priority)
		if err != nil {
			return Snapshot{}, err
		}
		o.goalOutcomes[g.ID] = d.Outcome

		switch d.Outcome {
		case scoring.OutcomeRejected:
			// Blocked goal: visible through the gate's decision ledger,
			// never silently dropped into a task.
			log.Printf("[ORCH] goal %s blocked by gate (score %.4f)", g.ID, d.Score)
		case scoring.OutcomeModified:
			if _, err := o.createLocked(g.ID, g.Description, d.SuggestedPriority, contextSnapshot); err != nil {
				return Snapshot{}, err
			}
		default:
			if _, err := o.createLocked(g.ID, g.Description, g.Priority, contextSnapshot); err != nil {
				return Snapshot{}, err
			}
		}
	}

	o.admitLocked()
	return o.snapshotLocked(), nil
}

// hasLiveTaskForGoalLocked reports whether a non-terminal task already
// represents the goal.
func (o *Orchestrator) hasLiveTaskForGoalLocked(goalID string) bool {
	for _, id := range o.order {
		t := o.tasks[id]
		if t.SourceGoalID == goalID && !t.State.Terminal() {
			return true
		}
	}
	return false
}

// #endregion orchestrate

// #region admission

// admitLocked moves eligible pending tasks to in-progress while the
// throttle has free slots. Order: priority descending, then earliest
// CreatedAt (stable over creation order).
func (o *Orchestrator) admitLocked() {
	inProgress := o.inProgressCountLocked()

	var pending []*Task
	for _, id := range o.order {
		if o.tasks[id].State == TaskPending {
			pending = append(pending, o.tasks[id])
		}
	}
	sort.SliceStable(pending, func(a, b int) bool {
		if pending[a].Priority != pending[b].Priority {
			return pending[a].Priority > pending[b].Priority
		}
		return pending[a].CreatedAt.Before(pending[b].CreatedAt)
	})

	for _, t := range pending {
		if o.config.MaxInProgress > 0 && inProgress >= o.config.MaxInProgress {
			break
		}
		if t.SourceGoalID != "" && o.goalOutcomes[t.SourceGoalID] == scoring.OutcomeRejected {
			// A goal rejected after its task was created never admits.
			continue
		}
		o.transitionLocked(t, TaskInProgress)
		inProgress++
	}
}

// #endregion admission

// #region transitions

// Complete moves an in-progress task to completed.
func (o *Orchestrator) Complete(id string) (Task, error) {
	return o.finish(id, TaskCompleted)
}

// Fail moves an in-progress task to failed.
func (o *Orchestrator) Fail(id string) (Task, error) {
	return o.finish(id, TaskFailed)
}

// Cancel moves a pending or in-progress task to cancelled. Synchronous and
// immediate: no in-flight work is modeled at this layer.
func (o *Orchestrator) Cancel(id string) (Task, error) {
	return o.finish(id, TaskCancelled)
}

// Admit moves a specific pending task to in-progress, subject to the same
// throttle and goal-outcome rules as automatic admission.
func (o *Orchestrator) Admit(id string) (Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, ok := o.tasks[id]
	if !ok {
		return Task{}, &UnknownTaskError{TaskID: id}
	}
	if !legalTransition(t.State, TaskInProgress) {
		return Task{}, &InvalidTransitionError{TaskID: id, From: t.State, To: TaskInProgress}
	}
	if t.SourceGoalID != "" && o.goalOutcomes[t.SourceGoalID] == scoring.OutcomeRejected {
		return Task{}, &InvalidTransitionError{TaskID: id, From: t.State, To: TaskInProgress}
	}
	if o.config.MaxInProgress > 0 && o.inProgressCountLocked() >= o.config.MaxInProgress {
		return Task{}, &CapacityExceededError{Limit: o.config.MaxInProgress}
	}
	o.transitionLocked(t, TaskInProgress)
	return t.clone(), nil
}

func (o *Orchestrator) finish(id string, to TaskState) (Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, ok := o.tasks[id]
	if !ok {
		return Task{}, &UnknownTaskError{TaskID: id}
	}
	if !legalTransition(t.State, to) {
		return Task{}, &InvalidTransitionError{TaskID: id, From: t.State, To: to}
	}
	o.transitionLocked(t, to)
	o.evictTerminalLocked()

	// A freed slot admits the next waiting pending task immediately.
	o.admitLocked()
	return t.clone(), nil
}

// legalTransition encodes the state machine. Terminal states are absorbing.
func legalTransition(from, to TaskState) bool {
	switch to {
	case TaskInProgress:
		return from == TaskPending
	case TaskCompleted, TaskFailed:
		return from == TaskInProgress
	case TaskCancelled:
		return from == TaskPending || from == TaskInProgress
	}
	return false
}

// transitionLocked applies a validated transition and appends history.
func (o *Orchestrator) transitionLocked(t *Task, to TaskState) {
	now := time.Now().UTC()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.State = to
	t.UpdatedAt = now
	t.History = append(t.History, TaskEvent{State: to, At: now})
	log.Printf("[ORCH] task %s -> %s", t.ID, to)
}

// #endregion transitions

// #region retention

// evictTerminalLocked drops the oldest terminal tasks beyond the retention
// bound. Pending and in-progress tasks are never evicted.
func (o *Orchestrator) evictTerminalLocked() {
	terminal := 0
	for _, id := range o.order {
		if o.tasks[id].State.Terminal() {
			terminal++
		}
	}
	if terminal <= o.config.RetainedTerminal {
		return
	}

	keep := o.order[:0]
	for _, id := range o.order {
		if terminal > o.config.RetainedTerminal && o.tasks[id].State.Terminal() {
			delete(o.tasks, id)
			terminal--
			continue
		}
		keep = append(keep, id)
	}
	o.order = keep
}

// #endregion retention

// #region reads

// PendingTasks returns pending tasks in creation order.
func (o *Orchestrator) PendingTasks() []Task { return o.inState(TaskPending) }

// InProgressTasks returns in-progress tasks in creation order.
func (o *Orchestrator) InProgressTasks() []Task { return o.inState(TaskInProgress) }

// CompletedTasks returns completed tasks in creation order.
func (o *Orchestrator) CompletedTasks() []Task { return o.inState(TaskCompleted) }

// Task returns a copy of the task with the given id.
func (o *Orchestrator) Task(id string) (Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.tasks[id]
	if !ok {
		return Task{}, &UnknownTaskError{TaskID: id}
	}
	return t.clone(), nil
}

func (o *Orchestrator) inState(s TaskState) []Task {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Task
	for _, id := range o.order {
		if o.tasks[id].State == s {
			out = append(out, o.tasks[id].clone())
		}
	}
	return out
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	var snap Snapshot
	for _, id := range o.order {
		t := o.tasks[id]
		switch t.State {
		case TaskPending:
			snap.Pending = append(snap.Pending, t.clone())
		case TaskInProgress:
			snap.InProgress = append(snap.InProgress, t.clone())
		case TaskCompleted:
			snap.Completed = append(snap.Completed, t.clone())
		}
	}
	return snap
}

func (o *Orchestrator) inProgressCountLocked() int {
	n := 0
	for _, id := range o.order {
		if o.tasks[id].State == TaskInProgress {
			n++
		}
	}
	return n
}

func (o *Orchestrator) liveCountLocked() int {
	live := 0
	for _, id := range o.order {
		if !o.tasks[id].State.Terminal() {
			live++
		}
	}
	return live
}

// #endregion reads
