package ledger

// #region imports
import "sync"

// #endregion imports

// #region constants

// DefaultCapacity bounds the retained decision history per session.
const DefaultCapacity = 500

// #endregion constants

// #region ledger-struct

// Ledger is a bounded, append-only, time-ordered decision record. Appending
// beyond capacity evicts the oldest entry. Entries are never mutated.
// Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries []Decision // ring buffer
	head    int        // index of oldest entry
	size    int
	nextSeq uint64
}

// New creates a ledger with the given capacity. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{entries: make([]Decision, capacity), nextSeq: 1}
}

// #endregion ledger-struct

// #region record

// Record appends a decision and returns its session-scoped sequence number.
// Eviction of the oldest entry is silent; a record never fails.
func (l *Ledger) Record(d Decision) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	d.Seq = l.nextSeq
	l.nextSeq++

	idx := (l.head + l.size) % len(l.entries)
	l.entries[idx] = d
	if l.size < len(l.entries) {
		l.size++
	} else {
		l.head = (l.head + 1) % len(l.entries)
	}
	return d.Seq
}

// #endregion record

// #region reads

// Recent returns up to n decisions, newest first. n is clamped to the
// current size.
func (l *Ledger) Recent(n int) []Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > l.size {
		n = l.size
	}
	out := make([]Decision, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.head + l.size - 1 - i) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}

// All returns the retained decisions oldest first.
func (l *Ledger) All() []Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Decision, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.entries[(l.head+i)%len(l.entries)])
	}
	return out
}

// Len returns the number of retained decisions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Cap returns the fixed capacity.
func (l *Ledger) Cap() int {
	return len(l.entries)
}

// #endregion reads
