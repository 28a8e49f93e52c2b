package isa

import (
	"github.com/shemnei/rv64sim/mmu"
	"github.com/shemnei/rv64sim/register"
)

// Core is the minimal architectural-state surface a semantic function needs.
// Decoupling the instruction table from a concrete CPU type (rather than
// importing the cpu package directly, which would create an import cycle
// since cpu.CPU.Tick calls into isa.Decode) lets the cpu package own the
// concrete register/memory/CSR state while isa owns only the decode table
// and the semantics that mutate it through this interface.
type Core interface {
	Int() *register.IntRegisters
	Float() *register.FloatRegisters
	CSRs() *CSRFile
	Memory() *mmu.MMU

	PC() uint64
	SetPC(uint64)

	// Halt transitions the core to its terminal state and records the
	// guest-visible exit code (conventionally a0 at the point of an ECALL
	// exit request).
	Halt(exitCode int64)

	// LoadReservation/SetLoadReservation/ClearLoadReservation back LR.W/
	// LR.D/SC.W/SC.D's single-hart reservation-set model (spec §4.5, RV32A/
	// RV64A).
	LoadReservation() (addr uint64, ok bool)
	SetLoadReservation(addr uint64)
	ClearLoadReservation()
}
