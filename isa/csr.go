package isa

// CSR addresses this core implements concretely. The RISC-V CSR space is
// 4096 entries wide; everything not listed here traps IllegalInstruction
// rather than behaving as a silent no-op, since spec's "trap or no-op
// placeholder" language is a floor this implementation exceeds for the
// float-status CSRs that F/D rounding actually needs (see SPEC_FULL §4.7).
const (
	CSRFflags  = 0x001
	CSRFrm     = 0x002
	CSRFcsr    = 0x003
	CSRMisa    = 0x301 // read-only
	CSRMhartid = 0xF14 // read-only
)

// Rounding modes, per the RISC-V F/D rounding-mode encoding.
const (
	RoundNearestEven = 0
	RoundTowardZero  = 1
	RoundDown        = 2
	RoundUp          = 3
	RoundNearestMax  = 4
	// 5 and 6 reserved; 7 means "dynamic", i.e. "read FRM".
	RoundDynamic = 7
)

// CSRFile is a small, concrete control-and-status-register bank: just
// enough to back Zicsr's instructions and the F/D extension's dynamic
// rounding mode and accrued-exception flags.
type CSRFile struct {
	fflags uint64 // bits [4:0]
	frm    uint64 // bits [2:0]
}

// Read returns the value of addr and whether addr is implemented.
func (c *CSRFile) Read(addr uint32) (uint64, bool) {
	switch addr {
	case CSRFflags:
		return c.fflags, true
	case CSRFrm:
		return c.frm, true
	case CSRFcsr:
		return (c.frm << 5) | c.fflags, true
	case CSRMisa:
		// RV64, extensions I M A F D C (bit per letter, A=0 offset 'A').
		return (uint64(2) << 62) | misaExtBits("imafdc"), true
	case CSRMhartid:
		return 0, true
	default:
		return 0, false
	}
}

func misaExtBits(letters string) uint64 {
	var bits uint64
	for _, l := range letters {
		bits |= 1 << uint(l-'a')
	}
	return bits
}

// Write stores value into addr and reports whether addr is implemented and
// writable. The read-only identification CSRs report ok=true from Read but
// ok=false from Write (a write to them should trap IllegalInstruction, not
// succeed silently).
func (c *CSRFile) Write(addr uint32, value uint64) bool {
	switch addr {
	case CSRFflags:
		c.fflags = value & 0x1F
		return true
	case CSRFrm:
		c.frm = value & 0x7
		return true
	case CSRFcsr:
		c.fflags = value & 0x1F
		c.frm = (value >> 5) & 0x7
		return true
	default:
		return false
	}
}

// EffectiveRoundingMode resolves an instruction's rm field: a concrete mode
// is used as-is; RoundDynamic defers to the frm CSR.
func (c *CSRFile) EffectiveRoundingMode(rm uint32) uint32 {
	if rm == RoundDynamic {
		return uint32(c.frm)
	}
	return rm
}

// SetFlags ORs the given accrued-exception bits into fflags, as every
// floating-point instruction that signals an exception must.
func (c *CSRFile) SetFlags(bits uint64) {
	c.fflags |= bits & 0x1F
}

// Accrued-exception flag bits for fflags/fcsr, in RISC-V bit order.
const (
	FlagNX uint64 = 1 << 0 // inexact
	FlagUF uint64 = 1 << 1 // underflow
	FlagOF uint64 = 1 << 2 // overflow
	FlagDZ uint64 = 1 << 3 // divide by zero
	FlagNV uint64 = 1 << 4 // invalid operation
)
