// Package cpu implements the RV64GC hart: the concrete register/memory/CSR
// state behind isa.Core, and the fetch-decode-execute tick loop that drives
// it.
package cpu

import (
	"fmt"

	"github.com/shemnei/rv64sim/isa"
	"github.com/shemnei/rv64sim/memory"
	"github.com/shemnei/rv64sim/mmu"
	"github.com/shemnei/rv64sim/register"
	"github.com/shemnei/rv64sim/trap"
)

// Status is the hart's coarse execution state.
type Status int

const (
	StatusInitializing Status = iota
	StatusRunning
	StatusHalted
	StatusTrapped
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusTrapped:
		return "trapped"
	default:
		return "unknown"
	}
}

type reservation struct {
	addr  uint64
	valid bool
}

// CPU is the concrete RV64GC hart. It implements isa.Core so the static
// instruction table in the isa package can mutate its state without the two
// packages importing each other.
type CPU struct {
	intRegs   register.IntRegisters
	floatRegs register.FloatRegisters
	csrs      isa.CSRFile
	mmu       *mmu.MMU

	pc     uint64
	status Status

	ExitCode  int64
	LastTrap  error
	Cycles    uint64

	res reservation
}

// New creates a hart over the given memory image with PC at entry.
func New(mem *memory.Memory, entry uint64) *CPU {
	c := &CPU{
		mmu:    mmu.New(mem),
		pc:     entry,
		status: StatusInitializing,
	}
	return c
}

func (c *CPU) Int() *register.IntRegisters     { return &c.intRegs }
func (c *CPU) Float() *register.FloatRegisters { return &c.floatRegs }
func (c *CPU) CSRs() *isa.CSRFile              { return &c.csrs }
func (c *CPU) Memory() *mmu.MMU                { return c.mmu }

func (c *CPU) PC() uint64     { return c.pc }
func (c *CPU) SetPC(pc uint64) { c.pc = pc }

func (c *CPU) Status() Status { return c.status }

// Halt transitions the hart to its terminal, non-trapped state and records
// exitCode (conventionally a0 at the point of an ECALL sys_exit request).
func (c *CPU) Halt(exitCode int64) {
	c.status = StatusHalted
	c.ExitCode = exitCode
}

func (c *CPU) LoadReservation() (uint64, bool) {
	return c.res.addr, c.res.valid
}

func (c *CPU) SetLoadReservation(addr uint64) {
	c.res = reservation{addr: addr, valid: true}
}

func (c *CPU) ClearLoadReservation() {
	c.res.valid = false
}

// Tick executes exactly one instruction: fetch, decode, execute, re-zero
// x0 against any semantic function that forgot the x0-is-always-zero
// discipline, tick the MMU, then advance the cycle count. It returns the
// trap that stopped execution, if any; a nil return with Status() still
// Running means the hart is ready for another Tick.
func (c *CPU) Tick() error {
	if c.status == StatusHalted || c.status == StatusTrapped {
		return nil
	}
	c.status = StatusRunning

	pc := c.pc
	word, err := c.mmu.FetchWord(pc)
	if err != nil {
		return c.fault(err)
	}

	descriptor, ok := isa.Decode(word)
	if !ok {
		return c.fault(trap.New(trap.IllegalInstruction, pc).WithInstruction(word))
	}

	if err := descriptor.Exec(c, word, pc); err != nil {
		return c.fault(err)
	}

	c.intRegs.ZeroX0()
	c.mmu.Tick()
	c.Cycles++
	return nil
}

func (c *CPU) fault(err error) error {
	c.status = StatusTrapped
	c.LastTrap = err
	return err
}

// Run ticks the hart until it halts, traps, or maxCycles is exhausted
// (maxCycles == 0 means unbounded). It returns the terminal trap, if any.
func (c *CPU) Run(maxCycles uint64) error {
	for maxCycles == 0 || c.Cycles < maxCycles {
		if c.status == StatusHalted || c.status == StatusTrapped {
			return c.LastTrap
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return fmt.Errorf("cpu: exceeded cycle budget of %d", maxCycles)
}
