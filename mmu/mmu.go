// Package mmu presents the CPU's typed memory-access surface, translating
// raw memory.Error values into the architectural trap taxonomy. It is a
// single-hart pass-through today; its purpose is to give a future
// translation/permission layer a seam that does not touch the executor.
package mmu

import (
	"errors"

	"github.com/shemnei/rv64sim/endian"
	"github.com/shemnei/rv64sim/memory"
	"github.com/shemnei/rv64sim/trap"
)

// MMU wraps a flat Memory image.
type MMU struct {
	Memory *memory.Memory
}

// New wraps the given memory image.
func New(mem *memory.Memory) *MMU {
	return &MMU{Memory: mem}
}

// Tick is reserved for future timer/interrupt bookkeeping; it does nothing
// today, mirroring original_source's empty MemoryManagementUnit::tick.
func (m *MMU) Tick() {}

func asTrap(err error, pc uint64, addr uint64, faultKind trap.Kind) error {
	if err == nil {
		return nil
	}
	var memErr *memory.Error
	if errors.As(err, &memErr) {
		return trap.New(faultKind, pc).WithAddr(addr)
	}
	return trap.New(faultKind, pc).WithAddr(addr)
}

// FetchWord reads a 32-bit instruction word at addr (always little-endian,
// per the RISC-V encoding). Failure is reported as InstructionAccessFault.
func (m *MMU) FetchWord(pc uint64) (uint32, error) {
	v, err := m.Memory.ReadUint32(pc, endian.Little)
	if err != nil {
		return 0, asTrap(err, pc, pc, trap.InstructionAccessFault)
	}
	return v, nil
}

// ReadUint8/16/32/64 read a value of the given width at addr, little-endian
// (RISC-V's native load/store byte order), reporting LoadAccessFault.
func (m *MMU) ReadUint8(pc, addr uint64) (uint8, error) {
	v, err := m.Memory.ReadUint8(addr)
	if err != nil {
		return 0, asTrap(err, pc, addr, trap.LoadAccessFault)
	}
	return v, nil
}

func (m *MMU) ReadUint16(pc, addr uint64) (uint16, error) {
	v, err := m.Memory.ReadUint16(addr, endian.Little)
	if err != nil {
		return 0, asTrap(err, pc, addr, trap.LoadAccessFault)
	}
	return v, nil
}

func (m *MMU) ReadUint32(pc, addr uint64) (uint32, error) {
	v, err := m.Memory.ReadUint32(addr, endian.Little)
	if err != nil {
		return 0, asTrap(err, pc, addr, trap.LoadAccessFault)
	}
	return v, nil
}

func (m *MMU) ReadUint64(pc, addr uint64) (uint64, error) {
	v, err := m.Memory.ReadUint64(addr, endian.Little)
	if err != nil {
		return 0, asTrap(err, pc, addr, trap.LoadAccessFault)
	}
	return v, nil
}

// WriteUint8/16/32/64 write a value of the given width at addr,
// little-endian, reporting StoreAccessFault.
func (m *MMU) WriteUint8(pc, addr uint64, v uint8) error {
	if err := m.Memory.WriteUint8(addr, v); err != nil {
		return asTrap(err, pc, addr, trap.StoreAccessFault)
	}
	return nil
}

func (m *MMU) WriteUint16(pc, addr uint64, v uint16) error {
	if err := m.Memory.WriteUint16(addr, v, endian.Little); err != nil {
		return asTrap(err, pc, addr, trap.StoreAccessFault)
	}
	return nil
}

func (m *MMU) WriteUint32(pc, addr uint64, v uint32) error {
	if err := m.Memory.WriteUint32(addr, v, endian.Little); err != nil {
		return asTrap(err, pc, addr, trap.StoreAccessFault)
	}
	return nil
}

func (m *MMU) WriteUint64(pc, addr uint64, v uint64) error {
	if err := m.Memory.WriteUint64(addr, v, endian.Little); err != nil {
		return asTrap(err, pc, addr, trap.StoreAccessFault)
	}
	return nil
}
