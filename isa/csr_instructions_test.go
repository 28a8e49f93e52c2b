package isa_test

import (
	"testing"

	"github.com/shemnei/rv64sim/isa"
	"github.com/shemnei/rv64sim/register"
)

func TestCSRRWWritesAndReturnsOldValue(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.CSRs().Write(isa.CSRFrm, 3)
	c.Int().Set(register.X2, 5)
	word := encodeI(0x73, 1, 1, 2, int32(isa.CSRFrm)) // CSRRW x1, frm, x2
	d := findDescriptor("CSRRW")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("CSRRW exec failed: %v", err)
	}
	if got := c.Int().Get(register.X1); got != 3 {
		t.Errorf("CSRRW: old value returned %d, want 3", got)
	}
	v, _ := c.CSRs().Read(isa.CSRFrm)
	if v != 5 {
		t.Errorf("CSRRW: new frm = %d, want 5", v)
	}
}

func TestCSRRSSetsBitsWithoutClearing(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.CSRs().Write(isa.CSRFflags, 0b00001)
	c.Int().Set(register.X2, 0b00010)
	word := encodeI(0x73, 0, 2, 2, int32(isa.CSRFflags)) // CSRRS x0, fflags, x2
	d := findDescriptor("CSRRS")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("CSRRS exec failed: %v", err)
	}
	v, _ := c.CSRs().Read(isa.CSRFflags)
	if v != 0b00011 {
		t.Errorf("CSRRS: fflags = 0b%b, want 0b00011", v)
	}
}

func TestCSRRCIClearsImmediateBits(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.CSRs().Write(isa.CSRFflags, 0b11111)
	word := encodeI(0x73, 0, 7, 0b00101, int32(isa.CSRFflags)) // CSRRCI x0, fflags, 0b00101
	d := findDescriptor("CSRRCI")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("CSRRCI exec failed: %v", err)
	}
	v, _ := c.CSRs().Read(isa.CSRFflags)
	if v != 0b11010 {
		t.Errorf("CSRRCI: fflags = 0b%b, want 0b11010", v)
	}
}

func TestCSROnUnimplementedAddressTraps(t *testing.T) {
	c := newFakeCore(1 << 16)
	word := encodeI(0x73, 1, 1, 0, 0x7FF) // CSRRW on an address this bank doesn't implement
	d := findDescriptor("CSRRW")
	if err := d.Exec(c, word, 0); err == nil {
		t.Error("CSRRW on unimplemented CSR: expected a trap, got nil")
	}
}

func TestCSRWriteToReadOnlyTraps(t *testing.T) {
	c := newFakeCore(1 << 16)
	word := encodeI(0x73, 1, 1, 0, int32(isa.CSRMisa))
	d := findDescriptor("CSRRW")
	if err := d.Exec(c, word, 0); err == nil {
		t.Error("CSRRW to misa (read-only): expected a trap, got nil")
	}
}
