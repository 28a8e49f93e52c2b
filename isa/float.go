package isa

import (
	"math"
	"math/big"

	"github.com/shemnei/rv64sim/register"
	"github.com/shemnei/rv64sim/trap"
)

const (
	opLoadFP  = 0b0000111
	opStoreFP = 0b0100111
	opFMADD   = 0b1000011
	opFMSUB   = 0b1000111
	opFNMSUB  = 0b1001011
	opFNMADD  = 0b1001111
	opOPFP    = 0b1010011

	fmtS = 0b00
	fmtD = 0b01

	fpFADD    = 0x00
	fpFSUB    = 0x01
	fpFMUL    = 0x02
	fpFDIV    = 0x03
	fpFSGNJ   = 0x04
	fpFMINMAX = 0x05
	fpFCVTFF  = 0x08
	fpFSQRT   = 0x0B
	fpFCMP    = 0x14
	fpFCVTIF  = 0x18 // int <- float
	fpFCVTFI  = 0x1A // float <- int
	fpFCLASS  = 0x1C // also FMV.X.*
	fpFMVIF   = 0x1E // float <- int bits
)

func fr(n uint32) register.FloatReg { return register.FloatReg(n) }

func reqFP7(op5 uint32, fmt uint32) uint32 { return (op5 << 2) | fmt }

const (
	maskR4Fmt   = maskOpcode | (0x3 << 25)
	maskFPBare  = maskOpcode | (0x7F << 25)
	maskFPFunct = maskFPBare | (0x7 << 12)
	maskFPRS2   = maskFPBare | (0x1F << 20)
	maskFPFull  = maskFPFunct | (0x1F << 20)
)

func reqR4(op, fmt uint32) uint32    { return op | (fmt << 25) }
func reqFPBare(f7 uint32) uint32     { return opOPFP | (f7 << 25) }
func reqFPFunct(f7, f3 uint32) uint32 { return opOPFP | (f7 << 25) | (f3 << 12) }
func reqFPRS2(f7, rs2 uint32) uint32 { return opOPFP | (f7 << 25) | (rs2 << 20) }
func reqFPFull(f7, f3, rs2 uint32) uint32 {
	return opOPFP | (f7 << 25) | (f3 << 12) | (rs2 << 20)
}

var floatInstructions = buildFloatInstructions()

func buildFloatInstructions() []Descriptor {
	var out []Descriptor

	out = append(out,
		Descriptor{Mask: maskOpcodeFunct3, Required: reqF3(opLoadFP, 2), Mnemonic: "FLW", Extension: "RV64F", Exec: execFLW},
		Descriptor{Mask: maskOpcodeFunct3, Required: reqF3(opLoadFP, 3), Mnemonic: "FLD", Extension: "RV64D", Exec: execFLD},
		Descriptor{Mask: maskOpcodeFunct3, Required: reqF3(opStoreFP, 2), Mnemonic: "FSW", Extension: "RV64F", Exec: execFSW},
		Descriptor{Mask: maskOpcodeFunct3, Required: reqF3(opStoreFP, 3), Mnemonic: "FSD", Extension: "RV64D", Exec: execFSD},
	)

	for _, fm := range []struct {
		name string
		op   uint32
		fmt  uint32
		bits int
	}{
		{"FMADD.S", opFMADD, fmtS, 32}, {"FMADD.D", opFMADD, fmtD, 64},
		{"FMSUB.S", opFMSUB, fmtS, 32}, {"FMSUB.D", opFMSUB, fmtD, 64},
		{"FNMSUB.S", opFNMSUB, fmtS, 32}, {"FNMSUB.D", opFNMSUB, fmtD, 64},
		{"FNMADD.S", opFNMADD, fmtS, 32}, {"FNMADD.D", opFNMADD, fmtD, 64},
	} {
		out = append(out, Descriptor{
			Mask: maskR4Fmt, Required: reqR4(fm.op, fm.fmt), Mnemonic: fm.name, Extension: "RV64D",
			Exec: makeFMA(fm.op, fm.bits == 64),
		})
	}

	for _, fm := range []struct {
		suffix string
		fmt    uint32
		bits   int
	}{{"S", fmtS, 32}, {"D", fmtD, 64}} {
		d64 := fm.bits == 64
		out = append(out,
			Descriptor{Mask: maskFPBare, Required: reqFPBare(reqFP7(fpFADD, fm.fmt)), Mnemonic: "FADD." + fm.suffix, Extension: "RV64F", Exec: makeFPArith(d64, arithAdd)},
			Descriptor{Mask: maskFPBare, Required: reqFPBare(reqFP7(fpFSUB, fm.fmt)), Mnemonic: "FSUB." + fm.suffix, Extension: "RV64F", Exec: makeFPArith(d64, arithSub)},
			Descriptor{Mask: maskFPBare, Required: reqFPBare(reqFP7(fpFMUL, fm.fmt)), Mnemonic: "FMUL." + fm.suffix, Extension: "RV64F", Exec: makeFPArith(d64, arithMul)},
			Descriptor{Mask: maskFPBare, Required: reqFPBare(reqFP7(fpFDIV, fm.fmt)), Mnemonic: "FDIV." + fm.suffix, Extension: "RV64F", Exec: makeFPArith(d64, arithDiv)},
			Descriptor{Mask: maskFPRS2, Required: reqFPRS2(reqFP7(fpFSQRT, fm.fmt), 0), Mnemonic: "FSQRT." + fm.suffix, Extension: "RV64F", Exec: makeFPSqrt(d64)},

			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFSGNJ, fm.fmt), 0), Mnemonic: "FSGNJ." + fm.suffix, Extension: "RV64F", Exec: makeSignInject(d64, sgnjCopy)},
			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFSGNJ, fm.fmt), 1), Mnemonic: "FSGNJN." + fm.suffix, Extension: "RV64F", Exec: makeSignInject(d64, sgnjNeg)},
			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFSGNJ, fm.fmt), 2), Mnemonic: "FSGNJX." + fm.suffix, Extension: "RV64F", Exec: makeSignInject(d64, sgnjXor)},

			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFMINMAX, fm.fmt), 0), Mnemonic: "FMIN." + fm.suffix, Extension: "RV64F", Exec: makeFPBinOp(d64, fpMin)},
			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFMINMAX, fm.fmt), 1), Mnemonic: "FMAX." + fm.suffix, Extension: "RV64F", Exec: makeFPBinOp(d64, fpMax)},

			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFCMP, fm.fmt), 2), Mnemonic: "FEQ." + fm.suffix, Extension: "RV64F", Exec: makeFPCompare(d64, func(a, b float64) bool { return a == b })},
			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFCMP, fm.fmt), 1), Mnemonic: "FLT." + fm.suffix, Extension: "RV64F", Exec: makeFPCompare(d64, func(a, b float64) bool { return a < b })},
			Descriptor{Mask: maskFPFunct, Required: reqFPFunct(reqFP7(fpFCMP, fm.fmt), 0), Mnemonic: "FLE." + fm.suffix, Extension: "RV64F", Exec: makeFPCompare(d64, func(a, b float64) bool { return a <= b })},

			Descriptor{Mask: maskFPFull, Required: reqFPFull(reqFP7(fpFCLASS, fm.fmt), 1, 0), Mnemonic: "FCLASS." + fm.suffix, Extension: "RV64F", Exec: makeFClass(d64)},
		)

		for _, conv := range []struct {
			suffix string
			rs2    uint32
			signed bool
			bits   int
		}{
			{"W", 0, true, 32}, {"WU", 1, false, 32}, {"L", 2, true, 64}, {"LU", 3, false, 64},
		} {
			out = append(out,
				Descriptor{Mask: maskFPRS2, Required: reqFPRS2(reqFP7(fpFCVTIF, fm.fmt), conv.rs2), Mnemonic: "FCVT." + conv.suffix + "." + fm.suffix, Extension: "RV64F", Exec: makeFCVTToInt(d64, conv.signed, conv.bits)},
				Descriptor{Mask: maskFPRS2, Required: reqFPRS2(reqFP7(fpFCVTFI, fm.fmt), conv.rs2), Mnemonic: "FCVT." + fm.suffix + "." + conv.suffix, Extension: "RV64F", Exec: makeFCVTFromInt(d64, conv.signed, conv.bits)},
			)
		}
	}

	out = append(out,
		Descriptor{Mask: maskFPRS2, Required: reqFPRS2(reqFP7(fpFCVTFF, fmtS), 1), Mnemonic: "FCVT.S.D", Extension: "RV64D", Exec: execFCVTSD},
		Descriptor{Mask: maskFPRS2, Required: reqFPRS2(reqFP7(fpFCVTFF, fmtD), 0), Mnemonic: "FCVT.D.S", Extension: "RV64D", Exec: execFCVTDS},

		Descriptor{Mask: maskFPFull, Required: reqFPFull(reqFP7(fpFCLASS, fmtS), 0, 0), Mnemonic: "FMV.X.W", Extension: "RV64F", Exec: execFMVXW},
		Descriptor{Mask: maskFPFull, Required: reqFPFull(reqFP7(fpFCLASS, fmtD), 0, 0), Mnemonic: "FMV.X.D", Extension: "RV64D", Exec: execFMVXD},
		Descriptor{Mask: maskFPFull, Required: reqFPFull(reqFP7(fpFMVIF, fmtS), 0, 0), Mnemonic: "FMV.W.X", Extension: "RV64F", Exec: execFMVWX},
		Descriptor{Mask: maskFPFull, Required: reqFPFull(reqFP7(fpFMVIF, fmtD), 0, 0), Mnemonic: "FMV.D.X", Extension: "RV64D", Exec: execFMVDX},
	)

	return out
}

func execFLW(c Core, word uint32, pc uint64) error {
	f := ParseI(word)
	addr := uint64(c.Int().Get(ir(f.Rs1)) + f.Imm)
	v, err := c.Memory().ReadUint32(pc, addr)
	if err != nil {
		return err
	}
	c.Float().SetSingle(fr(f.Rd), math.Float32frombits(v))
	c.SetPC(pc + 4)
	return nil
}

func execFLD(c Core, word uint32, pc uint64) error {
	f := ParseI(word)
	addr := uint64(c.Int().Get(ir(f.Rs1)) + f.Imm)
	v, err := c.Memory().ReadUint64(pc, addr)
	if err != nil {
		return err
	}
	c.Float().SetDouble(fr(f.Rd), math.Float64frombits(v))
	c.SetPC(pc + 4)
	return nil
}

func execFSW(c Core, word uint32, pc uint64) error {
	f := ParseS(word)
	addr := uint64(c.Int().Get(ir(f.Rs1)) + f.Imm)
	bits := math.Float32bits(c.Float().GetSingle(fr(f.Rs2)))
	if err := c.Memory().WriteUint32(pc, addr, bits); err != nil {
		return err
	}
	c.SetPC(pc + 4)
	return nil
}

func execFSD(c Core, word uint32, pc uint64) error {
	f := ParseS(word)
	addr := uint64(c.Int().Get(ir(f.Rs1)) + f.Imm)
	bits := math.Float64bits(c.Float().GetDouble(fr(f.Rs2)))
	if err := c.Memory().WriteUint64(pc, addr, bits); err != nil {
		return err
	}
	c.SetPC(pc + 4)
	return nil
}

// bigRoundingMode maps a resolved RISC-V rm encoding onto the big.Float
// rounding mode that reproduces it for the narrowing step every
// single-precision op performs when going from a float64 intermediate
// down to a 24-bit mantissa.
func bigRoundingMode(rm uint32) big.RoundingMode {
	switch rm {
	case RoundTowardZero:
		return big.ToZero
	case RoundDown:
		return big.ToNegativeInf
	case RoundUp:
		return big.ToPositiveInf
	case RoundNearestMax:
		return big.ToNearestAway
	default:
		return big.ToNearestEven
	}
}

// resolveRM extracts an instruction's rm field, resolves RoundDynamic
// through the CSR file's frm, and traps IllegalInstruction on a reserved
// encoding (5 or 6), whether given directly or reached through a
// malformed frm.
func resolveRM(c Core, word uint32, pc uint64) (uint32, error) {
	raw := RoundingMode(word)
	if raw == 5 || raw == 6 {
		return 0, trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
	}
	rm := c.CSRs().EffectiveRoundingMode(raw)
	if rm > RoundNearestMax {
		return 0, trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
	}
	return rm, nil
}

// narrowSingle rounds a float64 arithmetic result to float32 under rm.
// Double-precision ops have no wider Go type to compute in, so their
// rounding mode is always Go's native round-to-nearest-even; only the
// single-precision narrowing step is mode-sensitive in this
// implementation.
func narrowSingle(v float64, rm uint32) (float32, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return float32(v), false
	}
	bf := new(big.Float).SetPrec(24).SetMode(bigRoundingMode(rm)).SetFloat64(v)
	f, acc := bf.Float32()
	return f, acc != big.Exact
}

// classifyArithFlags derives the accrued-exception bits a binary
// arithmetic op signals from its operands and float64-precision result.
// Overflow is only tracked relative to operand/result finiteness, not
// exact IEEE subnormal boundaries, and underflow is not tracked at all.
func classifyArithFlags(a, b, result float64, divide bool) uint64 {
	var flags uint64
	if math.IsNaN(a) || math.IsNaN(b) || (math.IsNaN(result) && !math.IsNaN(a) && !math.IsNaN(b)) {
		flags |= FlagNV
	}
	if divide && b == 0 && !math.IsNaN(a) {
		flags |= FlagDZ
	}
	if math.IsInf(result, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		flags |= FlagOF
	}
	return flags
}

type arithKind int

const (
	arithAdd arithKind = iota
	arithSub
	arithMul
	arithDiv
)

// makeFPArith builds FADD/FSUB/FMUL/FDIV: it resolves the instruction's
// rounding mode, computes in float64, narrows single-precision results
// under that mode, and records accrued-exception flags in fflags.
func makeFPArith(d64 bool, kind arithKind) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		rm, err := resolveRM(c, word, pc)
		if err != nil {
			return err
		}
		f := ParseR(word)
		var a, b float64
		if d64 {
			a = c.Float().GetDouble(fr(f.Rs1))
			b = c.Float().GetDouble(fr(f.Rs2))
		} else {
			a = float64(c.Float().GetSingle(fr(f.Rs1)))
			b = float64(c.Float().GetSingle(fr(f.Rs2)))
		}
		var result float64
		switch kind {
		case arithAdd:
			result = a + b
		case arithSub:
			result = a - b
		case arithMul:
			result = a * b
		case arithDiv:
			result = a / b
		}
		c.CSRs().SetFlags(classifyArithFlags(a, b, result, kind == arithDiv))
		if d64 {
			c.Float().SetDouble(fr(f.Rd), result)
		} else {
			narrowed, inexact := narrowSingle(result, rm)
			if inexact {
				c.CSRs().SetFlags(FlagNX)
			}
			c.Float().SetSingle(fr(f.Rd), narrowed)
		}
		c.SetPC(pc + 4)
		return nil
	}
}

// makeFPSqrt builds FSQRT, the one unary op with a rounding-mode field.
func makeFPSqrt(d64 bool) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		rm, err := resolveRM(c, word, pc)
		if err != nil {
			return err
		}
		f := ParseR(word)
		var a float64
		if d64 {
			a = c.Float().GetDouble(fr(f.Rs1))
		} else {
			a = float64(c.Float().GetSingle(fr(f.Rs1)))
		}
		result := math.Sqrt(a)
		if a < 0 && !math.IsNaN(a) {
			c.CSRs().SetFlags(FlagNV)
		}
		if d64 {
			c.Float().SetDouble(fr(f.Rd), result)
		} else {
			narrowed, inexact := narrowSingle(result, rm)
			if inexact {
				c.CSRs().SetFlags(FlagNX)
			}
			c.Float().SetSingle(fr(f.Rd), narrowed)
		}
		c.SetPC(pc + 4)
		return nil
	}
}

// makeFMA builds the four fused multiply-add variants from the R4 operand
// layout and a sign/addend transform selected by opcode. Both widths route
// through math.FMA for the single rounding step the RISC-V spec requires;
// the single-precision path resolves rm and narrows only the final result.
func makeFMA(op uint32, d64 bool) func(Core, uint32, uint64) error {
	negProduct := op == opFNMSUB || op == opFNMADD
	negAddend := op == opFMSUB || op == opFNMADD
	return func(c Core, word uint32, pc uint64) error {
		rm, err := resolveRM(c, word, pc)
		if err != nil {
			return err
		}
		f := ParseR4(word)
		var a, b, d float64
		if d64 {
			a = c.Float().GetDouble(fr(f.Rs1))
			b = c.Float().GetDouble(fr(f.Rs2))
			d = c.Float().GetDouble(fr(f.Rs3))
		} else {
			a = float64(c.Float().GetSingle(fr(f.Rs1)))
			b = float64(c.Float().GetSingle(fr(f.Rs2)))
			d = float64(c.Float().GetSingle(fr(f.Rs3)))
		}
		if negProduct {
			a = -a
		}
		if negAddend {
			d = -d
		}
		result := math.FMA(a, b, d)
		if math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(d) ||
			(math.IsNaN(result) && !math.IsNaN(a) && !math.IsNaN(b) && !math.IsNaN(d)) {
			c.CSRs().SetFlags(FlagNV)
		}
		if math.IsInf(result, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) && !math.IsInf(d, 0) {
			c.CSRs().SetFlags(FlagOF)
		}
		if d64 {
			c.Float().SetDouble(fr(f.Rd), result)
		} else {
			narrowed, inexact := narrowSingle(result, rm)
			if inexact {
				c.CSRs().SetFlags(FlagNX)
			}
			c.Float().SetSingle(fr(f.Rd), narrowed)
		}
		c.SetPC(pc + 4)
		return nil
	}
}

func makeFPBinOp(d64 bool, op func(a, b float64) float64) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		if d64 {
			a := c.Float().GetDouble(fr(f.Rs1))
			b := c.Float().GetDouble(fr(f.Rs2))
			c.Float().SetDouble(fr(f.Rd), op(a, b))
		} else {
			a := float64(c.Float().GetSingle(fr(f.Rs1)))
			b := float64(c.Float().GetSingle(fr(f.Rs2)))
			c.Float().SetSingle(fr(f.Rd), float32(op(a, b)))
		}
		c.SetPC(pc + 4)
		return nil
	}
}

func fpMin(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}

func fpMax(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}

type sgnjRule func(a, b float64) float64

func sgnjCopy(a, b float64) float64 {
	return math.Copysign(a, b)
}
func sgnjNeg(a, b float64) float64 {
	return math.Copysign(a, -b)
}
func sgnjXor(a, b float64) float64 {
	if math.Signbit(a) != math.Signbit(b) {
		return math.Copysign(a, -1)
	}
	return math.Copysign(a, 1)
}

func makeSignInject(d64 bool, rule sgnjRule) func(Core, uint32, uint64) error {
	return makeFPBinOp(d64, func(a, b float64) float64 { return rule(a, b) })
}

func makeFPCompare(d64 bool, pred func(a, b float64) bool) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		var a, b float64
		if d64 {
			a = c.Float().GetDouble(fr(f.Rs1))
			b = c.Float().GetDouble(fr(f.Rs2))
		} else {
			a = float64(c.Float().GetSingle(fr(f.Rs1)))
			b = float64(c.Float().GetSingle(fr(f.Rs2)))
		}
		var v int64
		if pred(a, b) {
			v = 1
		}
		c.Int().Set(ir(f.Rd), v)
		c.SetPC(pc + 4)
		return nil
	}
}

// exact float64 representations of 2^63 and 2^64, used to bound the
// int64/uint64 saturation ranges without relying on an int64->float64
// conversion of MaxInt64/MaxUint64 (which itself rounds up past the range).
const (
	twoPow63 = 9223372036854775808.0
	twoPow64 = 18446744073709551616.0
)

// roundToInteger rounds src to the nearest integral float64 under rm.
// FCVT.W{U}.{S,D} and FCVT.L{U}.{S,D} round before truncating; they don't
// simply truncate toward zero regardless of rm.
func roundToInteger(src float64, rm uint32) float64 {
	switch rm {
	case RoundTowardZero:
		return math.Trunc(src)
	case RoundDown:
		return math.Floor(src)
	case RoundUp:
		return math.Ceil(src)
	case RoundNearestMax:
		return math.Round(src)
	default:
		return math.RoundToEven(src)
	}
}

// makeFCVTToInt builds FCVT.W/WU/L/LU.{S,D}: resolve rm, round to an
// integral value under that mode, then saturate out-of-range and NaN
// inputs to the RISC-V canonical results and raise NV.
func makeFCVTToInt(d64 bool, signed bool, bits int) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		rm, err := resolveRM(c, word, pc)
		if err != nil {
			return err
		}
		f := ParseR(word)
		var src float64
		if d64 {
			src = c.Float().GetDouble(fr(f.Rs1))
		} else {
			src = float64(c.Float().GetSingle(fr(f.Rs1)))
		}

		rounded := roundToInteger(src, rm)

		var result int64
		invalid := false
		switch {
		case math.IsNaN(rounded):
			invalid = true
			result = saturateMax(signed, bits)
		case bits == 32 && signed:
			switch {
			case rounded < math.MinInt32:
				invalid, result = true, math.MinInt32
			case rounded > math.MaxInt32:
				invalid, result = true, math.MaxInt32
			default:
				result = int64(int32(rounded))
			}
		case bits == 32 && !signed:
			switch {
			case rounded < 0:
				invalid, result = true, 0
			case rounded > math.MaxUint32:
				invalid, result = true, int64(uint32(math.MaxUint32))
			default:
				result = int64(uint32(rounded))
			}
		case bits == 64 && signed:
			switch {
			case rounded < -twoPow63:
				invalid, result = true, math.MinInt64
			case rounded >= twoPow63:
				invalid, result = true, math.MaxInt64
			default:
				result = int64(rounded)
			}
		default: // bits == 64, unsigned
			switch {
			case rounded < 0:
				invalid, result = true, 0
			case rounded >= twoPow64:
				invalid, result = true, -1 // all ones: the bit pattern of math.MaxUint64
			default:
				result = int64(uint64(rounded))
			}
		}

		if invalid {
			c.CSRs().SetFlags(FlagNV)
		} else if rounded != src {
			c.CSRs().SetFlags(FlagNX)
		}

		c.Int().Set(ir(f.Rd), result)
		c.SetPC(pc + 4)
		return nil
	}
}

// saturateMax returns the canonical RISC-V saturated result for an
// invalid (NaN) conversion: the maximum representable value for the
// destination's signedness and width.
func saturateMax(signed bool, bits int) int64 {
	switch {
	case bits == 32 && signed:
		return math.MaxInt32
	case bits == 32 && !signed:
		return int64(uint32(math.MaxUint32))
	case signed:
		return math.MaxInt64
	default:
		return -1 // all ones: the bit pattern of math.MaxUint64
	}
}

// makeFCVTFromInt builds FCVT.S/D.W/WU/L/LU: converting from an integer is
// always exact for double precision and for widths up to 32 bits going to
// single, but a 64-bit source narrowed to single precision can lose bits
// and is rm-sensitive, so rm is resolved and applied for that single case.
func makeFCVTFromInt(d64 bool, signed bool, bits int) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		rm, err := resolveRM(c, word, pc)
		if err != nil {
			return err
		}
		f := ParseR(word)
		raw := c.Int().Get(ir(f.Rs1))
		var src float64
		switch {
		case bits == 32 && signed:
			src = float64(int32(raw))
		case bits == 32 && !signed:
			src = float64(uint32(raw))
		case bits == 64 && signed:
			src = float64(raw)
		default:
			src = float64(uint64(raw))
		}
		if d64 {
			c.Float().SetDouble(fr(f.Rd), src)
		} else {
			narrowed, inexact := narrowSingle(src, rm)
			if inexact {
				c.CSRs().SetFlags(FlagNX)
			}
			c.Float().SetSingle(fr(f.Rd), narrowed)
		}
		c.SetPC(pc + 4)
		return nil
	}
}

// execFCVTSD narrows a double to single under the resolved rounding mode.
func execFCVTSD(c Core, word uint32, pc uint64) error {
	rm, err := resolveRM(c, word, pc)
	if err != nil {
		return err
	}
	f := ParseR(word)
	src := c.Float().GetDouble(fr(f.Rs1))
	narrowed, inexact := narrowSingle(src, rm)
	if inexact {
		c.CSRs().SetFlags(FlagNX)
	}
	if math.IsNaN(src) {
		c.CSRs().SetFlags(FlagNV)
	}
	c.Float().SetSingle(fr(f.Rd), narrowed)
	c.SetPC(pc + 4)
	return nil
}

// execFCVTDS widens a single to double. Widening float32 into float64 is
// always exact, so rm cannot affect the numeric result; it is still
// resolved so a reserved rm/frm encoding traps IllegalInstruction here too.
func execFCVTDS(c Core, word uint32, pc uint64) error {
	if _, err := resolveRM(c, word, pc); err != nil {
		return err
	}
	f := ParseR(word)
	c.Float().SetDouble(fr(f.Rd), float64(c.Float().GetSingle(fr(f.Rs1))))
	c.SetPC(pc + 4)
	return nil
}

func execFMVXW(c Core, word uint32, pc uint64) error {
	f := ParseR(word)
	bits := c.Float().Bits(fr(f.Rs1))
	c.Int().Set(ir(f.Rd), int64(int32(uint32(bits))))
	c.SetPC(pc + 4)
	return nil
}

func execFMVXD(c Core, word uint32, pc uint64) error {
	f := ParseR(word)
	c.Int().Set(ir(f.Rd), int64(c.Float().Bits(fr(f.Rs1))))
	c.SetPC(pc + 4)
	return nil
}

func execFMVWX(c Core, word uint32, pc uint64) error {
	f := ParseR(word)
	v := uint32(c.Int().Get(ir(f.Rs1)))
	c.Float().SetSingle(fr(f.Rd), math.Float32frombits(v))
	c.SetPC(pc + 4)
	return nil
}

func execFMVDX(c Core, word uint32, pc uint64) error {
	f := ParseR(word)
	c.Float().SetBits(fr(f.Rd), uint64(c.Int().Get(ir(f.Rs1))))
	c.SetPC(pc + 4)
	return nil
}

func makeFClass(d64 bool) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		var classBits uint64
		if d64 {
			classBits = classifyBits64(math.Float64bits(c.Float().GetDouble(fr(f.Rs1))))
		} else {
			classBits = classifyBits32(math.Float32bits(c.Float().GetSingle(fr(f.Rs1))))
		}
		c.Int().Set(ir(f.Rd), int64(classBits))
		c.SetPC(pc + 4)
		return nil
	}
}

func classifyBits32(bits uint32) uint64 {
	sign := bits >> 31
	exp := (bits >> 23) & 0xFF
	mant := bits & 0x7FFFFF
	switch {
	case exp == 0xFF && mant == 0:
		if sign == 1 {
			return 1 << 0
		}
		return 1 << 7
	case exp == 0xFF:
		if mant&0x400000 == 0 {
			return 1 << 8
		}
		return 1 << 9
	case exp == 0 && mant == 0:
		if sign == 1 {
			return 1 << 3
		}
		return 1 << 4
	case exp == 0:
		if sign == 1 {
			return 1 << 2
		}
		return 1 << 5
	default:
		if sign == 1 {
			return 1 << 1
		}
		return 1 << 6
	}
}

func classifyBits64(bits uint64) uint64 {
	sign := bits >> 63
	exp := (bits >> 52) & 0x7FF
	mant := bits & 0xFFFFFFFFFFFFF
	switch {
	case exp == 0x7FF && mant == 0:
		if sign == 1 {
			return 1 << 0
		}
		return 1 << 7
	case exp == 0x7FF:
		if mant&0x8000000000000 == 0 {
			return 1 << 8
		}
		return 1 << 9
	case exp == 0 && mant == 0:
		if sign == 1 {
			return 1 << 3
		}
		return 1 << 4
	case exp == 0:
		if sign == 1 {
			return 1 << 2
		}
		return 1 << 5
	default:
		if sign == 1 {
			return 1 << 1
		}
		return 1 << 6
	}
}
