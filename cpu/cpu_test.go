package cpu

import (
	"testing"

	"github.com/shemnei/rv64sim/endian"
	"github.com/shemnei/rv64sim/memory"
)

func newTestCPU(t *testing.T, entry uint64, words map[uint64]uint32) *CPU {
	t.Helper()
	mem := memory.New(0x80000000 + 1<<20)
	for addr, w := range words {
		if err := mem.WriteUint32(addr, w, endian.Little); err != nil {
			t.Fatalf("seeding memory at 0x%X: %v", addr, err)
		}
	}
	return New(mem, entry)
}

func TestLUIThenADDI(t *testing.T) {
	const base = 0x80000000
	c := newTestCPU(t, base, map[uint64]uint32{
		base:     0x123450B7, // LUI x1, 0x12345
		base + 4: 0x67808093, // ADDI x1, x1, 0x678
	})
	if err := c.Tick(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if err := c.Tick(); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	if got := c.Int().Get(1); got != 0x12345678 {
		t.Errorf("X[1] = 0x%X, want 0x12345678", got)
	}
}

func TestJALForward(t *testing.T) {
	const base = 0x80000000
	// JAL x1, +8: imm=8 lands entirely in bit 3 of the J-immediate, which
	// the scattered J-format encoding places at word bit 23.
	word := uint32(1<<23) | uint32(1<<7) | 0b1101111
	c := newTestCPU(t, base, map[uint64]uint32{base: word})
	if err := c.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := c.Int().Get(1); got != base+4 {
		t.Errorf("X[1] = 0x%X, want 0x%X", got, base+4)
	}
	if c.PC() != base+8 {
		t.Errorf("PC = 0x%X, want 0x%X", c.PC(), base+8)
	}
}

func TestBEQTakenBackward(t *testing.T) {
	const base = 0x80000000
	addi := func(rd, imm uint32) uint32 {
		return (imm << 20) | (0 << 15) | (0 << 12) | (rd << 7) | 0b0010011
	}
	// BEQ x5, x6, -4: imm=-4 assembled into B-format's scattered slices
	// (imm[12]->31, imm[10:5]->30:25, imm[4:1]->11:8, imm[11]->7).
	beq := uint32(1<<31) | uint32(0x3F<<25) | uint32(6<<20) | uint32(5<<15) | uint32(0xE<<8) | uint32(1<<7) | 0b1100011
	c := newTestCPU(t, base, map[uint64]uint32{
		base:     addi(5, 7),
		base + 4: addi(6, 7),
		base + 8: beq,
	})
	for i := 0; i < 3; i++ {
		if err := c.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
	}
	if c.PC() != base+4 {
		t.Errorf("PC = 0x%X, want 0x%X", c.PC(), base+4)
	}
}

func TestLBSignExtension(t *testing.T) {
	const base = 0x80000000
	c := newTestCPU(t, base, map[uint64]uint32{
		base: 0b000000000000_00010_000_00001_0000011, // LB x1, 0(x2)
	})
	if err := c.Memory().WriteUint8(base, 0x1000, 0xFF); err != nil {
		t.Fatalf("seed byte: %v", err)
	}
	c.Int().Set(2, 0x1000)
	if err := c.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := c.Int().Get(1); got != -1 {
		t.Errorf("X[1] = 0x%X, want all-ones (-1)", uint64(got))
	}
}

func TestSRAIPreservesSign(t *testing.T) {
	const base = 0x80000000
	// SRAI x2, x1, 4: funct6=010000, shamt=4, rs1=1, funct3=101, rd=2, opcode=0010011
	word := uint32(0b010000<<26) | (4 << 20) | (1 << 15) | (0b101 << 12) | (2 << 7) | 0b0010011
	c := newTestCPU(t, base, map[uint64]uint32{base: word})
	c.Int().Set(1, -16) // 0xFFFF_FFFF_FFFF_FFF0
	if err := c.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := c.Int().Get(2); got != -1 {
		t.Errorf("X[2] = 0x%X, want all-ones (-1)", uint64(got))
	}
}

func TestECallSysExitHalts(t *testing.T) {
	const base = 0x80000000
	c := newTestCPU(t, base, map[uint64]uint32{base: 0x00000073}) // ECALL
	c.Int().Set(17, 93)                                           // a7 = sys_exit
	c.Int().Set(10, 42)                                           // a0 = exit code
	if err := c.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if c.Status() != StatusHalted {
		t.Fatalf("status = %v, want halted", c.Status())
	}
	if c.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", c.ExitCode)
	}
}

func TestIllegalInstructionTraps(t *testing.T) {
	const base = 0x80000000
	c := newTestCPU(t, base, map[uint64]uint32{base: 0xFFFFFFFF})
	if err := c.Tick(); err == nil {
		t.Fatal("expected a trap for an illegal instruction")
	}
	if c.Status() != StatusTrapped {
		t.Errorf("status = %v, want trapped", c.Status())
	}
}
