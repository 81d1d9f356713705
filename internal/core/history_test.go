package core

import (
	"fmt"
	"testing"
)

func TestHistoryRecentBeforeFull(t *testing.T) {
	h := NewHistory(5)
	for i := 1; i <= 3; i++ {
		if evicted := h.Append(Message{Seq: uint64(i)}); evicted {
			t.Fatalf("append %d evicted on non-full history", i)
		}
	}

	got := h.Recent(10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, m := range got {
		if m.Seq != uint64(i+1) {
			t.Fatalf("got[%d].Seq = %d, want %d", i, m.Seq, i+1)
		}
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	h := NewHistory(100)
	evictions := 0
	for i := 1; i <= 250; i++ {
		if h.Append(Message{Seq: uint64(i), Text: fmt.Sprintf("m%d", i)}) {
			evictions++
		}
	}

	if h.Len() != 100 {
		t.Fatalf("len = %d, want 100", h.Len())
	}
	if evictions != 150 {
		t.Fatalf("evictions = %d, want 150", evictions)
	}

	got := h.Recent(100)
	for i, m := range got {
		want := uint64(151 + i)
		if m.Seq != want {
			t.Fatalf("got[%d].Seq = %d, want %d", i, m.Seq, want)
		}
	}
}

func TestHistoryRecentSubset(t *testing.T) {
	h := NewHistory(4)
	for i := 1; i <= 6; i++ {
		h.Append(Message{Seq: uint64(i)})
	}

	got := h.Recent(2)
	if len(got) != 2 || got[0].Seq != 5 || got[1].Seq != 6 {
		t.Fatalf("unexpected recent slice: %+v", got)
	}
	if empty := h.Recent(0); len(empty) != 0 || empty == nil {
		t.Fatalf("Recent(0) = %#v, want empty non-nil slice", empty)
	}
}

func TestHistoryRecentReturnsCopy(t *testing.T) {
	h := NewHistory(3)
	h.Append(Message{Text: "original"})

	got := h.Recent(1)
	got[0].Text = "mutated"

	if again := h.Recent(1); again[0].Text != "original" {
		t.Fatalf("history was mutated through Recent: %q", again[0].Text)
	}
}

func TestHistoryDefaultLimit(t *testing.T) {
	if got := NewHistory(0).Cap(); got != DefaultHistoryLimit {
		t.Fatalf("cap = %d, want %d", got, DefaultHistoryLimit)
	}
}
