package inspector

import (
	"strings"
	"testing"

	"github.com/shemnei/rv64sim/cpu"
	"github.com/shemnei/rv64sim/endian"
	"github.com/shemnei/rv64sim/memory"
)

// encodeADDI builds ADDI rd, x0, imm, small enough (< 2048) to fit the
// I-immediate without needing sign-extension helpers.
func encodeADDI(rd uint32, imm uint32) uint32 {
	return (imm << 20) | (0 << 15) | (0 << 12) | (rd << 7) | 0x13
}

const ecallWord = 0b000000000000_00000_000_00000_1110011

func newTestSession(t *testing.T) *Session {
	t.Helper()
	mem := memory.New(1 << 16)
	prog := []uint32{
		encodeADDI(1, 5),   // pc=0: ADDI x1, x0, 5
		encodeADDI(17, 93), // pc=4: ADDI x17, x0, 93 (a7 = sys_exit)
		encodeADDI(10, 7),  // pc=8: ADDI x10, x0, 7  (a0 = exit code)
		ecallWord,          // pc=12: ECALL
	}
	for i, w := range prog {
		addr := uint64(i * 4)
		if err := mem.WriteUint32(addr, w, endian.Little); err != nil {
			t.Fatalf("seeding program memory at 0x%X failed: %v", addr, err)
		}
	}
	c := cpu.New(mem, 0)
	return NewSession(c, 10)
}

func TestSessionStepExecutesOneInstruction(t *testing.T) {
	s := newTestSession(t)
	err, _ := s.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s.CPU.PC() != 4 {
		t.Errorf("after one Step: PC=%d, want 4", s.CPU.PC())
	}
}

func TestSessionContinueStopsAtBreakpoint(t *testing.T) {
	s := newTestSession(t)
	s.Breakpoints.Add(8, false)

	bp, err := s.Continue(100)
	if err != nil {
		t.Fatalf("Continue failed: %v", err)
	}
	if bp == nil || bp.Address != 8 {
		t.Fatalf("Continue: got breakpoint %+v, want one at address 8", bp)
	}
	if s.CPU.PC() != 8 {
		t.Errorf("Continue stopped with PC=%d, want 8", s.CPU.PC())
	}

	if err := s.Breakpoints.Delete(bp.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Continue(100); err != nil {
		t.Fatalf("Continue to completion: got err %v, want nil (clean sys_exit halt)", err)
	}
	if s.CPU.Status() != cpu.StatusHalted || s.CPU.ExitCode != 7 {
		t.Errorf("after running to ECALL: status=%s exitCode=%d, want halted/7", s.CPU.Status(), s.CPU.ExitCode)
	}
}

func TestSessionExecuteCommands(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Execute("break 0x8"); err != nil {
		t.Fatalf("break command failed: %v", err)
	}
	if len(s.Breakpoints.All()) != 1 {
		t.Fatalf("after break command: got %d breakpoints, want 1", len(s.Breakpoints.All()))
	}

	out, err := s.Execute("regs")
	if err != nil {
		t.Fatalf("regs command failed: %v", err)
	}
	if !strings.Contains(out, "zero") {
		t.Errorf("regs output missing register dump: %q", out)
	}

	if _, err := s.Execute("watch a1"); err != nil {
		t.Fatalf("watch command failed: %v", err)
	}
	if len(s.Watchpoints.All()) != 1 {
		t.Fatalf("after watch command: got %d watchpoints, want 1", len(s.Watchpoints.All()))
	}

	if s.History.Size() != 3 {
		t.Errorf("History.Size after 3 commands: got %d, want 3", s.History.Size())
	}
}

func TestSessionExecuteUnknownCommandErrors(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Execute("frobnicate"); err == nil {
		t.Error("unknown command: expected an error, got nil")
	}
}

func TestSessionDisassembleNamesADDI(t *testing.T) {
	s := newTestSession(t)
	out := s.Disassemble(0)
	if !strings.Contains(out, "ADDI") {
		t.Errorf("Disassemble(0): got %q, want it to mention ADDI", out)
	}
}
