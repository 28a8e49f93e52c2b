// Package isa implements the RISC-V instruction-format field parser, the
// static instruction descriptor table, and the mask/required decoder.
package isa

// slice describes one scattered bit range copied from the instruction word
// into the assembled field: bits [lo:hi] of the word land at bit offset
// dest in the destination value.
type slice struct {
	lo, hi, dest uint
}

// fieldSpec is the declarative description of one assembled field: an
// optional sign-extension source bit, an optional pre-shift (to leave low
// bits zero before any slice is OR'd in), and the list of source/dest
// slices applied in order. This is the Go rendering of the "bitfield
// assembly DSL" described in spec §4.3/§9 and grounded directly on
// original_source's instruction_format! macro, which performs the same
// zero-out-then-OR algorithm at compile time via Rust macros; Go has no
// equivalent declarative-macro facility, so the DSL here is data consumed
// by one generic assemble function instead of code generated per field.
type fieldSpec struct {
	signBit  int // bit index to test for sign extension, or -1 for none
	preShift uint
	slices   []slice
}

// assemble runs the algorithm from spec §4.3 step by step: initialize to
// zero (or all-ones if the sign bit is set), pre-shift, then for each slice
// clear the destination bits and OR in the extracted source bits.
func assemble(word uint32, f fieldSpec) uint32 {
	var val uint32
	if f.signBit >= 0 && (word>>uint(f.signBit))&1 == 1 {
		val = ^uint32(0)
	}
	val <<= f.preShift
	for _, s := range f.slices {
		width := s.hi - s.lo + 1
		mask := uint32((uint64(1) << width) - 1)
		bits := (word >> s.lo) & mask
		destMask := mask << s.dest
		val = (val &^ destMask) | (bits << s.dest)
	}
	return val
}

// signExtend32To64 reinterprets a 32-bit assembled field as a signed i32,
// then widens to i64 — the "cast chain" that
// spec §4.3 insists must not be short-circuited, since skipping the
// intermediate i32 step would corrupt the sign for values whose top
// assembled bit sits below bit 31.
func signExtend32To64(v uint32) int64 {
	return int64(int32(v))
}

func bits5(word uint32, lo uint) uint32 {
	return (word >> lo) & 0x1F
}

// Opcode, Funct3, and Funct7 are the fields every format-independent
// decode step needs before a format is even chosen.
func Opcode(word uint32) uint32 { return word & 0x7F }
func Funct3(word uint32) uint32 { return (word >> 12) & 0x7 }
func Funct7(word uint32) uint32 { return (word >> 25) & 0x7F }

// FormatR holds the fields of an R-type instruction: rd, rs1, rs2.
type FormatR struct {
	Rd, Rs1, Rs2 uint32
}

func ParseR(word uint32) FormatR {
	return FormatR{
		Rd:  bits5(word, 7),
		Rs1: bits5(word, 15),
		Rs2: bits5(word, 20),
	}
}

// FormatR4 additionally carries rs3, for fused multiply-add instructions.
type FormatR4 struct {
	Rd, Rs1, Rs2, Rs3 uint32
}

func ParseR4(word uint32) FormatR4 {
	return FormatR4{
		Rd:  bits5(word, 7),
		Rs1: bits5(word, 15),
		Rs2: bits5(word, 20),
		Rs3: bits5(word, 27),
	}
}

var iImmSpec = fieldSpec{signBit: 31, slices: []slice{{20, 31, 0}}}

// FormatI holds the fields of an I-type instruction: rd, rs1, and a
// sign-extended 12-bit immediate.
type FormatI struct {
	Rd, Rs1 uint32
	Imm     int64
}

func ParseI(word uint32) FormatI {
	return FormatI{
		Rd:  bits5(word, 7),
		Rs1: bits5(word, 15),
		Imm: signExtend32To64(assemble(word, iImmSpec)),
	}
}

var sImmSpec = fieldSpec{signBit: 31, slices: []slice{{7, 11, 0}, {25, 31, 5}}}

// FormatS holds the fields of an S-type instruction: rs1, rs2, and a
// sign-extended 12-bit immediate assembled from two scattered slices.
type FormatS struct {
	Rs1, Rs2 uint32
	Imm      int64
}

func ParseS(word uint32) FormatS {
	return FormatS{
		Rs1: bits5(word, 15),
		Rs2: bits5(word, 20),
		Imm: signExtend32To64(assemble(word, sImmSpec)),
	}
}

var bImmSpec = fieldSpec{
	signBit:  31,
	preShift: 1,
	slices:   []slice{{8, 11, 1}, {25, 30, 5}, {7, 7, 11}, {31, 31, 12}},
}

// FormatB holds the fields of a B-type (branch) instruction: rs1, rs2, and
// a sign-extended, pre-shifted-by-1 13-bit immediate.
type FormatB struct {
	Rs1, Rs2 uint32
	Imm      int64
}

func ParseB(word uint32) FormatB {
	return FormatB{
		Rs1: bits5(word, 15),
		Rs2: bits5(word, 20),
		Imm: signExtend32To64(assemble(word, bImmSpec)),
	}
}

var uImmSpec = fieldSpec{signBit: 31, preShift: 12, slices: []slice{{12, 31, 12}}}

// FormatU holds the fields of a U-type instruction: rd and a
// sign-extended, pre-shifted-by-12 immediate (the upper 20 bits).
type FormatU struct {
	Rd  uint32
	Imm int64
}

func ParseU(word uint32) FormatU {
	return FormatU{
		Rd:  bits5(word, 7),
		Imm: signExtend32To64(assemble(word, uImmSpec)),
	}
}

var jImmSpec = fieldSpec{
	signBit:  31,
	preShift: 1,
	slices:   []slice{{21, 30, 1}, {20, 20, 11}, {12, 19, 12}, {31, 31, 20}},
}

// FormatJ holds the fields of a J-type (jump) instruction: rd and a
// sign-extended, pre-shifted-by-1 21-bit immediate.
type FormatJ struct {
	Rd  uint32
	Imm int64
}

func ParseJ(word uint32) FormatJ {
	return FormatJ{
		Rd:  bits5(word, 7),
		Imm: signExtend32To64(assemble(word, jImmSpec)),
	}
}

// Shamt6 extracts a 6-bit shift amount from bits [20:25], used by RV64I's
// SLLI/SRLI/SRAI (whose encoding widens the 5-bit RV32I shamt field by one
// bit to cover 64-bit shifts).
func Shamt6(word uint32) uint32 {
	return (word >> 20) & 0x3F
}

// RoundingMode extracts the rm field (bits [12:14]), shared encoding
// position with Funct3, used by the F/D instructions that take a rounding
// mode operand.
func RoundingMode(word uint32) uint32 {
	return Funct3(word)
}
