package inspector

import (
	"testing"

	"github.com/shemnei/rv64sim/register"
)

func TestPollDetectsRegisterChange(t *testing.T) {
	wm := NewWatchpointManager()
	wm.AddRegister("a0", register.X10)

	values := map[register.IntReg]uint64{register.X10: 7}
	read := func(wp *Watchpoint) uint64 { return values[wp.Register] }

	if changed := wm.Poll(read); len(changed) != 1 {
		t.Fatalf("first Poll: got %d changed, want 1 (zero LastValue -> initial 7)", len(changed))
	}

	if changed := wm.Poll(read); len(changed) != 0 {
		t.Fatalf("second Poll with no change: got %d changed, want 0", len(changed))
	}

	values[register.X10] = 42
	changed := wm.Poll(read)
	if len(changed) != 1 || changed[0].LastValue != 42 {
		t.Fatalf("Poll after change: got %+v, want one entry with LastValue=42", changed)
	}
}

func TestPollIncrementsHitCount(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.AddMemory("0x1000", 0x1000)

	var v uint64
	read := func(*Watchpoint) uint64 { return v }
	wm.Poll(read) // v starts equal to the zero-value LastValue: no change yet
	v = 1
	wm.Poll(read)
	v = 2
	wm.Poll(read)

	if wm.All()[0].HitCount != 2 || wp.ID != wm.All()[0].ID {
		t.Errorf("HitCount after 2 value changes: got %d, want 2", wm.All()[0].HitCount)
	}
}

func TestWatchpointDelete(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.AddRegister("sp", register.X2)
	if err := wm.Delete(wp.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := wm.Delete(wp.ID); err == nil {
		t.Error("second Delete of the same ID should error")
	}
}
