package isa_test

import (
	"github.com/shemnei/rv64sim/isa"
	"github.com/shemnei/rv64sim/memory"
	"github.com/shemnei/rv64sim/mmu"
	"github.com/shemnei/rv64sim/register"
)

// fakeCore is a minimal isa.Core backed by real register/memory/CSR state,
// standing in for cpu.CPU so instruction semantics can be exercised without
// importing the cpu package (which itself imports isa).
type fakeCore struct {
	ints   register.IntRegisters
	floats register.FloatRegisters
	csrs   isa.CSRFile
	mem    *mmu.MMU

	pc       uint64
	halted   bool
	exitCode int64
	resAddr  uint64
	resValid bool
}

func newFakeCore(memSize uint64) *fakeCore {
	return &fakeCore{mem: mmu.New(memory.New(memSize))}
}

func (c *fakeCore) Int() *register.IntRegisters     { return &c.ints }
func (c *fakeCore) Float() *register.FloatRegisters { return &c.floats }
func (c *fakeCore) CSRs() *isa.CSRFile              { return &c.csrs }
func (c *fakeCore) Memory() *mmu.MMU                { return c.mem }

func (c *fakeCore) PC() uint64      { return c.pc }
func (c *fakeCore) SetPC(pc uint64) { c.pc = pc }

func (c *fakeCore) Halt(exitCode int64) {
	c.halted = true
	c.exitCode = exitCode
}

func (c *fakeCore) LoadReservation() (uint64, bool) { return c.resAddr, c.resValid }
func (c *fakeCore) SetLoadReservation(addr uint64)  { c.resAddr, c.resValid = addr, true }
func (c *fakeCore) ClearLoadReservation()           { c.resValid = false }

// findDescriptor locates the table entry with the given mnemonic, failing
// the test immediately if it isn't there.
func findDescriptor(mnemonic string) *isa.Descriptor {
	for i := range isa.Instructions {
		if isa.Instructions[i].Mnemonic == mnemonic {
			return &isa.Instructions[i]
		}
	}
	panic("no descriptor named " + mnemonic)
}
