package isa_test

import (
	"math"
	"testing"

	"github.com/shemnei/rv64sim/register"
)

func TestFADDDouble(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetDouble(register.F1, 1.5)
	c.Float().SetDouble(register.F2, 2.25)
	word := encodeR(0b1010011, 3, 0, 1, 2, 0b0000001) // FADD.D f3, f1, f2
	d := findDescriptor("FADD.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FADD.D exec failed: %v", err)
	}
	if got := c.Float().GetDouble(register.F3); got != 3.75 {
		t.Errorf("FADD.D: got %v, want 3.75", got)
	}
}

func TestFMULSingle(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetSingle(register.F1, 2)
	c.Float().SetSingle(register.F2, 3)
	word := encodeR(0b1010011, 3, 0, 1, 2, 0b0001000) // FMUL.S f3, f1, f2
	d := findDescriptor("FMUL.S")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FMUL.S exec failed: %v", err)
	}
	if got := c.Float().GetSingle(register.F3); got != 6 {
		t.Errorf("FMUL.S: got %v, want 6", got)
	}
}

func TestFMINIgnoresNaNOperand(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetDouble(register.F1, math.NaN())
	c.Float().SetDouble(register.F2, 4)
	word := encodeR(0b1010011, 3, 0, 1, 2, 0b0010101) // FMIN.D f3, f1, f2
	d := findDescriptor("FMIN.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FMIN.D exec failed: %v", err)
	}
	if got := c.Float().GetDouble(register.F3); got != 4 {
		t.Errorf("FMIN.D with NaN operand: got %v, want 4 (the non-NaN operand)", got)
	}
}

func TestFEQSetsIntegerResult(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetDouble(register.F1, 5)
	c.Float().SetDouble(register.F2, 5)
	word := encodeR(0b1010011, 5, 2, 1, 2, 0b1010001) // FEQ.D x5, f1, f2
	d := findDescriptor("FEQ.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FEQ.D exec failed: %v", err)
	}
	if got := c.Int().Get(register.X5); got != 1 {
		t.Errorf("FEQ.D equal operands: got %d, want 1", got)
	}
}

func TestFCVTWDTruncatesTowardZero(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetDouble(register.F1, 3.9)
	word := encodeR(0b1010011, 5, 1, 1, 0, 0b1100001) // FCVT.W.D x5, f1, rtz
	d := findDescriptor("FCVT.W.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FCVT.W.D exec failed: %v", err)
	}
	if got := c.Int().Get(register.X5); got != 3 {
		t.Errorf("FCVT.W.D: got %d, want 3", got)
	}
}

func TestFMVXDRoundTripsBits(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetBits(register.F1, 0x4010000000000000) // 4.0 in IEEE-754 double
	word := encodeR(0b1010011, 5, 0, 1, 0, 0b1110001)   // FMV.X.D x5, f1
	d := findDescriptor("FMV.X.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FMV.X.D exec failed: %v", err)
	}
	if got := uint64(c.Int().Get(register.X5)); got != 0x4010000000000000 {
		t.Errorf("FMV.X.D: got 0x%X, want 0x4010000000000000", got)
	}
}

func TestFCLASSDetectsNegativeInfinity(t *testing.T) {
	c := newFakeCore(1 << 16)
	c.Float().SetDouble(register.F1, math.Inf(-1))
	word := encodeR(0b1010011, 5, 1, 1, 0, 0b1110001) // FCLASS.D x5, f1
	d := findDescriptor("FCLASS.D")
	if err := d.Exec(c, word, 0); err != nil {
		t.Fatalf("FCLASS.D exec failed: %v", err)
	}
	if got := c.Int().Get(register.X5); got != 1<<0 {
		t.Errorf("FCLASS.D(-Inf): got class bits 0x%X, want bit 0 set", got)
	}
}
