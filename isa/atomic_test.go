package isa_test

import (
	"testing"

	"github.com/shemnei/rv64sim/register"
)

// encodeAMO builds an R-type word for an AMO op: funct5 in bits[31:27],
// aq/rl (left zero here, a single-hart core has nothing to order against)
// in bits[26:25].
func encodeAMO(funct3, rd, rs1, rs2, funct5 uint32) uint32 {
	return (funct5 << 27) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | 0b0101111
}

func TestLRWThenSCWSucceeds(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Int().Set(register.X1, 0x100)
	if err := c.Memory().WriteUint32(0, 0x100, 99); err != nil {
		t.Fatalf("seeding memory failed: %v", err)
	}

	lr := findDescriptor("LR.W")
	lrWord := encodeAMO(0b010, 5, 1, 0, 0b00010)
	if err := lr.Exec(c, lrWord, 0); err != nil {
		t.Fatalf("LR.W exec failed: %v", err)
	}
	if got := c.Int().Get(register.X5); got != 99 {
		t.Errorf("LR.W: got %d, want 99", got)
	}

	c.Int().Set(register.X6, 77)
	sc := findDescriptor("SC.W")
	scWord := encodeAMO(0b010, 7, 1, 6, 0b00011)
	if err := sc.Exec(c, scWord, 4); err != nil {
		t.Fatalf("SC.W exec failed: %v", err)
	}
	if got := c.Int().Get(register.X7); got != 0 {
		t.Errorf("SC.W after matching LR.W: got status %d, want 0 (success)", got)
	}
	v, err := c.Memory().ReadUint32(8, 0x100)
	if err != nil || v != 77 {
		t.Errorf("SC.W: memory at 0x100 = %d (err=%v), want 77", v, err)
	}
}

func TestSCWFailsWithoutReservation(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Int().Set(register.X1, 0x100)
	c.Int().Set(register.X2, 5)
	sc := findDescriptor("SC.W")
	word := encodeAMO(0b010, 3, 1, 2, 0b00011)
	if err := sc.Exec(c, word, 0); err != nil {
		t.Fatalf("SC.W exec failed: %v", err)
	}
	if got := c.Int().Get(register.X3); got != 1 {
		t.Errorf("SC.W without reservation: got status %d, want 1 (failure)", got)
	}
}

func TestAMOADDWReturnsOldValue(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Int().Set(register.X1, 0x200)
	c.Int().Set(register.X2, 10)
	if err := c.Memory().WriteUint32(0, 0x200, 5); err != nil {
		t.Fatalf("seeding memory failed: %v", err)
	}
	d := findDescriptor("AMOADD.W")
	word := encodeAMO(0b010, 3, 1, 2, 0b00000)
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("AMOADD.W exec failed: %v", err)
	}
	if got := c.Int().Get(register.X3); got != 5 {
		t.Errorf("AMOADD.W: returned old value %d, want 5", got)
	}
	v, err := c.Memory().ReadUint32(4, 0x200)
	if err != nil || v != 15 {
		t.Errorf("AMOADD.W: memory after add = %d (err=%v), want 15", v, err)
	}
}

func TestAMOMAXUTreatsOperandsUnsigned(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Int().Set(register.X1, 0x300)
	c.Int().Set(register.X2, 1) // small positive
	if err := c.Memory().WriteUint32(0, 0x300, 0xFFFFFFFF); err != nil {
		t.Fatalf("seeding memory failed: %v", err)
	}
	d := findDescriptor("AMOMAXU.W")
	word := encodeAMO(0b010, 3, 1, 2, 0b11100)
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("AMOMAXU.W exec failed: %v", err)
	}
	v, err := c.Memory().ReadUint32(4, 0x300)
	if err != nil || v != 0xFFFFFFFF {
		t.Errorf("AMOMAXU.W: memory after op = 0x%X (err=%v), want 0xFFFFFFFF (unsigned max)", v, err)
	}
}
