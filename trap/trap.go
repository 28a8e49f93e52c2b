// Package trap defines the unified disposition for exceptions raised by the
// CPU during fetch, decode, or execute.
package trap

import "fmt"

// Kind enumerates the trap causes this core can raise. The full RISC-V
// privileged-spec cause list is wider; the synchronous exception causes are
// represented, per spec §7. This core raises only the access faults,
// IllegalInstruction, Breakpoint and EnvironmentCallFromM; the misaligned,
// page-fault and U/S-mode environment-call kinds are never produced.
type Kind int

const (
	InstructionAddressMisaligned Kind = iota
	InstructionAccessFault
	IllegalInstruction
	Breakpoint
	LoadAddressMisaligned
	LoadAccessFault
	StoreAddressMisaligned
	StoreAccessFault
	EnvironmentCallFromU
	EnvironmentCallFromS
	EnvironmentCallFromM
	InstructionPageFault
	LoadPageFault
	StorePageFault
)

func (k Kind) String() string {
	switch k {
	case InstructionAddressMisaligned:
		return "instruction address misaligned"
	case InstructionAccessFault:
		return "instruction access fault"
	case IllegalInstruction:
		return "illegal instruction"
	case Breakpoint:
		return "breakpoint"
	case LoadAddressMisaligned:
		return "load address misaligned"
	case LoadAccessFault:
		return "load access fault"
	case StoreAddressMisaligned:
		return "store address misaligned"
	case StoreAccessFault:
		return "store access fault"
	case EnvironmentCallFromU:
		return "environment call from U-mode"
	case EnvironmentCallFromS:
		return "environment call from S-mode"
	case EnvironmentCallFromM:
		return "environment call from M-mode"
	case InstructionPageFault:
		return "instruction page fault"
	case LoadPageFault:
		return "load page fault"
	case StorePageFault:
		return "store page fault"
	default:
		return "unknown trap"
	}
}

// Trap records a single exception: its cause, the PC at which it was
// raised, and, where meaningful, the faulting address or instruction word.
type Trap struct {
	Kind        Kind
	PC          uint64
	Addr        *uint64
	Instruction *uint32
}

// New creates a Trap with no address/instruction context.
func New(kind Kind, pc uint64) *Trap {
	return &Trap{Kind: kind, PC: pc}
}

// WithAddr attaches a faulting address (e.g. the target of a load/store).
func (t *Trap) WithAddr(addr uint64) *Trap {
	t.Addr = &addr
	return t
}

// WithInstruction attaches the offending 32-bit instruction word.
func (t *Trap) WithInstruction(word uint32) *Trap {
	t.Instruction = &word
	return t
}

// Error implements the error interface so semantic functions can return a
// *Trap directly as their error result.
func (t *Trap) Error() string {
	switch {
	case t.Addr != nil:
		return fmt.Sprintf("%s at pc=0x%X addr=0x%X", t.Kind, t.PC, *t.Addr)
	case t.Instruction != nil:
		return fmt.Sprintf("%s at pc=0x%X word=0x%08X", t.Kind, t.PC, *t.Instruction)
	default:
		return fmt.Sprintf("%s at pc=0x%X", t.Kind, t.PC)
	}
}
