package isa

import "math/bits"

// mulhSS returns the high 64 bits of the signed 128-bit product a*b.
func mulhSS(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

// mulhSU returns the high 64 bits of the product of signed a and unsigned b.
func mulhSU(a int64, b uint64) int64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return int64(hi)
}

// mulhUU returns the high 64 bits of the unsigned 128-bit product a*b.
func mulhUU(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

// divS implements RISC-V signed division: divide-by-zero yields -1 with the
// dividend as remainder, and the MinInt64/-1 overflow case yields the
// dividend back with a zero remainder, rather than trapping or panicking.
func divS(a, b int64) (quotient, remainder int64) {
	switch {
	case b == 0:
		return -1, a
	case a == -1<<63 && b == -1:
		return a, 0
	default:
		return a / b, a % b
	}
}

func divU(a, b uint64) (quotient, remainder uint64) {
	if b == 0 {
		return ^uint64(0), a
	}
	return a / b, a % b
}

func divS32(a, b int32) (quotient, remainder int32) {
	switch {
	case b == 0:
		return -1, a
	case a == -1<<31 && b == -1:
		return a, 0
	default:
		return a / b, a % b
	}
}

func divU32(a, b uint32) (quotient, remainder uint32) {
	if b == 0 {
		return ^uint32(0), a
	}
	return a / b, a % b
}

var mulInstructions = []Descriptor{
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 0, 1), Mnemonic: "MUL", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { return a * b })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 1, 1), Mnemonic: "MULH", Extension: "RV64M", Exec: makeRegOp(mulhSS)},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 2, 1), Mnemonic: "MULHSU", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { return mulhSU(a, uint64(b)) })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 3, 1), Mnemonic: "MULHU", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { return int64(mulhUU(uint64(a), uint64(b))) })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 4, 1), Mnemonic: "DIV", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { q, _ := divS(a, b); return q })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 5, 1), Mnemonic: "DIVU", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { q, _ := divU(uint64(a), uint64(b)); return int64(q) })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 6, 1), Mnemonic: "REM", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { _, r := divS(a, b); return r })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg, 7, 1), Mnemonic: "REMU", Extension: "RV64M", Exec: makeRegOp(func(a, b int64) int64 { _, r := divU(uint64(a), uint64(b)); return int64(r) })},

	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg32, 0, 1), Mnemonic: "MULW", Extension: "RV64M", Exec: makeRegOpW(func(a, b int32) int32 { return a * b })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg32, 4, 1), Mnemonic: "DIVW", Extension: "RV64M", Exec: makeRegOpW(func(a, b int32) int32 { q, _ := divS32(a, b); return q })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg32, 5, 1), Mnemonic: "DIVUW", Extension: "RV64M", Exec: makeRegOpW(func(a, b int32) int32 { q, _ := divU32(uint32(a), uint32(b)); return int32(q) })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg32, 6, 1), Mnemonic: "REMW", Extension: "RV64M", Exec: makeRegOpW(func(a, b int32) int32 { _, r := divS32(a, b); return r })},
	{Mask: maskOpcodeFunct3F7, Required: reqF3F7(opReg32, 7, 1), Mnemonic: "REMUW", Extension: "RV64M", Exec: makeRegOpW(func(a, b int32) int32 { _, r := divU32(uint32(a), uint32(b)); return int32(r) })},
}
