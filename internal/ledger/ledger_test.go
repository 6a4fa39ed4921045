package ledger

import (
	"fmt"
	"testing"
)

func TestRecordAssignsMonotonicSequence(t *testing.T) {
	l := New(10)
	for i := 1; i <= 5; i++ {
		seq := l.Record(Decision{ID: fmt.Sprintf("d%d", i)})
		if seq != uint64(i) {
			t.Fatalf("expected seq %d, got %d", i, seq)
		}
	}
	if l.Len() != 5 {
		t.Fatalf("expected 5 entries, got %d", l.Len())
	}
}

func TestBoundedEvictionKeepsNewest(t *testing.T) {
	l := New(3)
	for i := 1; i <= 7; i++ {
		l.Record(Decision{ID: fmt.Sprintf("d%d", i)})
	}
	if l.Len() != 3 {
		t.Fatalf("expected len == capacity 3, got %d", l.Len())
	}
	all := l.All()
	// Retained entries are exactly the most recent capacity writes, by seq.
	for i, want := range []uint64{5, 6, 7} {
		if all[i].Seq != want {
			t.Fatalf("all[%d].Seq = %d, want %d", i, all[i].Seq, want)
		}
	}
}

func TestRecentNewestFirstAndClamped(t *testing.T) {
	l := New(5)
	for i := 1; i <= 4; i++ {
		l.Record(Decision{ID: fmt.Sprintf("d%d", i)})
	}
	recent := l.Recent(100)
	if len(recent) != 4 {
		t.Fatalf("expected clamp to 4, got %d", len(recent))
	}
	if recent[0].Seq != 4 || recent[3].Seq != 1 {
		t.Fatalf("not newest first: first seq %d, last seq %d", recent[0].Seq, recent[3].Seq)
	}
	if len(l.Recent(-1)) != 0 {
		t.Fatal("negative n should return nothing")
	}
}

func TestSequenceSurvivesEviction(t *testing.T) {
	l := New(2)
	var last uint64
	for i := 0; i < 10; i++ {
		last = l.Record(Decision{})
	}
	if last != 10 {
		t.Fatalf("sequence reset after eviction: got %d", last)
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	l := New(4)
	l.Record(Decision{ID: "keep", Rationale: "original"})
	snap := l.All()
	snap[0].Rationale = "mutated"
	if l.All()[0].Rationale != "original" {
		t.Fatal("mutating a snapshot leaked into the ledger")
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	l := New(0)
	if l.Cap() != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, l.Cap())
	}
}
