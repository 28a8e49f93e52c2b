package mmu_test

import (
	"testing"

	"github.com/shemnei/rv64sim/memory"
	"github.com/shemnei/rv64sim/mmu"
	"github.com/shemnei/rv64sim/trap"
)

func TestFetchWordRoundTrip(t *testing.T) {
	mem := memory.New(16)
	u := mmu.New(mem)
	if err := u.WriteUint32(0, 0, 0xDEADBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := u.FetchWord(0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got 0x%X, want 0xDEADBEEF", got)
	}
}

func TestFetchOutOfRangeRaisesTrap(t *testing.T) {
	mem := memory.New(4)
	u := mmu.New(mem)
	_, err := u.FetchWord(0x1000)
	if err == nil {
		t.Fatal("expected trap")
	}
	tr, ok := err.(*trap.Trap)
	if !ok {
		t.Fatalf("expected *trap.Trap, got %T", err)
	}
	if tr.Kind != trap.InstructionAccessFault {
		t.Errorf("got %v, want InstructionAccessFault", tr.Kind)
	}
}

func TestStoreOutOfRangeRaisesTrap(t *testing.T) {
	mem := memory.New(4)
	u := mmu.New(mem)
	err := u.WriteUint64(0, 0x2000, 1)
	tr, ok := err.(*trap.Trap)
	if !ok || tr.Kind != trap.StoreAccessFault {
		t.Fatalf("got %v, want StoreAccessFault", err)
	}
}
