package inspector

import "testing"

func TestHistoryAddAndPrevious(t *testing.T) {
	h := NewCommandHistory(10)
	h.Add("step")
	h.Add("continue")
	if got := h.Previous(); got != "continue" {
		t.Fatalf("Previous: got %q, want %q", got, "continue")
	}
	if got := h.Previous(); got != "step" {
		t.Fatalf("Previous again: got %q, want %q", got, "step")
	}
	if got := h.Previous(); got != "" {
		t.Fatalf("Previous past the start: got %q, want empty", got)
	}
}

func TestHistoryNextAfterPrevious(t *testing.T) {
	h := NewCommandHistory(10)
	h.Add("step")
	h.Add("continue")
	h.Previous()
	h.Previous()
	if got := h.Next(); got != "continue" {
		t.Fatalf("Next: got %q, want %q", got, "continue")
	}
}

func TestHistoryIgnoresEmptyAndConsecutiveDuplicates(t *testing.T) {
	h := NewCommandHistory(10)
	h.Add("")
	h.Add("step")
	h.Add("step")
	if got := h.Size(); got != 1 {
		t.Errorf("Size after empty + duplicate adds: got %d, want 1", got)
	}
}

func TestHistoryTrimsToMaxSize(t *testing.T) {
	h := NewCommandHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")
	all := h.All()
	if len(all) != 2 || all[0] != "b" || all[1] != "c" {
		t.Errorf("History over maxSize: got %v, want [b c]", all)
	}
}

func TestNewCommandHistoryDefaultsMaxSize(t *testing.T) {
	h := NewCommandHistory(0)
	if h.maxSize != 1000 {
		t.Errorf("NewCommandHistory(0): maxSize = %d, want 1000", h.maxSize)
	}
}
