// Package memory implements the simulator's flat, byte-addressable virtual
// memory image.
package memory

import (
	"fmt"

	"github.com/shemnei/rv64sim/endian"
)

// ErrorKind distinguishes why a memory access failed.
type ErrorKind int

const (
	// OutOfRange means the access fell outside [0, len(Memory)).
	OutOfRange ErrorKind = iota
	// PermissionDenied means a write hit an image marked read-only.
	PermissionDenied
)

// Error is returned by every Memory accessor that fails.
type Error struct {
	Kind    ErrorKind
	Address uint64
	Width   int
	Size    uint64 // image length in bytes; set for OutOfRange
	Op      string // "read" or "write"
}

func (e *Error) Error() string {
	switch e.Kind {
	case PermissionDenied:
		return fmt.Sprintf("memory: %s permission denied at 0x%X (width %d)", e.Op, e.Address, e.Width)
	default:
		return fmt.Sprintf("memory: %s out of range at 0x%X (width %d, size %d)", e.Op, e.Address, e.Width, e.Size)
	}
}

// Memory is a contiguous, zero-initialized byte buffer addressed from 0.
// Unlike the teacher's segmented ARM layout, the RV64 image is one flat
// region sized up front; it is never grown during execution.
type Memory struct {
	data     []byte
	readOnly bool // true once MakeReadOnly has been called

	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64
}

// New allocates a zeroed memory image of the given size in bytes.
func New(size uint64) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Len returns the size of the backing buffer in bytes.
func (m *Memory) Len() uint64 {
	return uint64(len(m.data))
}

// MakeReadOnly locks the image against further writes, mirroring the
// teacher's Memory.MakeCodeReadOnly, generalized to the whole flat image
// since this core has no segment table to lock selectively. Neither the ELF
// loader nor the command-line driver calls it; the lock is engaged only by
// callers that ask for it.
func (m *Memory) MakeReadOnly() {
	m.readOnly = true
}

func (m *Memory) bounds(addr uint64, width int, op string) error {
	if addr+uint64(width) > m.Len() || addr+uint64(width) < addr {
		return &Error{Kind: OutOfRange, Address: addr, Width: width, Size: m.Len(), Op: op}
	}
	return nil
}

// ReadAt copies len(dst) bytes starting at addr into dst.
func (m *Memory) ReadAt(addr uint64, dst []byte) error {
	if err := m.bounds(addr, len(dst), "read"); err != nil {
		return err
	}
	copy(dst, m.data[addr:])
	m.AccessCount++
	m.ReadCount++
	return nil
}

// WriteAt copies src into memory starting at addr.
func (m *Memory) WriteAt(addr uint64, src []byte) error {
	if m.readOnly {
		return &Error{Kind: PermissionDenied, Address: addr, Width: len(src), Op: "write"}
	}
	if err := m.bounds(addr, len(src), "write"); err != nil {
		return err
	}
	copy(m.data[addr:], src)
	m.AccessCount++
	m.WriteCount++
	return nil
}

// WriteAtUnsafe bypasses the read-only lock; used by the ELF loader to seed
// the image before the lock is engaged.
func (m *Memory) WriteAtUnsafe(addr uint64, src []byte) error {
	if err := m.bounds(addr, len(src), "write"); err != nil {
		return err
	}
	copy(m.data[addr:], src)
	return nil
}

// ReadUint8 reads a single byte.
func (m *Memory) ReadUint8(addr uint64) (uint8, error) {
	var buf [1]byte
	if err := m.ReadAt(addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteUint8 writes a single byte.
func (m *Memory) WriteUint8(addr uint64, v uint8) error {
	return m.WriteAt(addr, []byte{v})
}

// ReadUint16 reads a 16-bit value using the given byte order.
func (m *Memory) ReadUint16(addr uint64, e endian.Endian) (uint16, error) {
	var buf [2]byte
	if err := m.ReadAt(addr, buf[:]); err != nil {
		return 0, err
	}
	return e.Uint16(buf[:]), nil
}

// WriteUint16 writes a 16-bit value using the given byte order.
func (m *Memory) WriteUint16(addr uint64, v uint16, e endian.Endian) error {
	var buf [2]byte
	e.PutUint16(buf[:], v)
	return m.WriteAt(addr, buf[:])
}

// ReadUint32 reads a 32-bit value using the given byte order.
func (m *Memory) ReadUint32(addr uint64, e endian.Endian) (uint32, error) {
	var buf [4]byte
	if err := m.ReadAt(addr, buf[:]); err != nil {
		return 0, err
	}
	return e.Uint32(buf[:]), nil
}

// WriteUint32 writes a 32-bit value using the given byte order.
func (m *Memory) WriteUint32(addr uint64, v uint32, e endian.Endian) error {
	var buf [4]byte
	e.PutUint32(buf[:], v)
	return m.WriteAt(addr, buf[:])
}

// ReadUint64 reads a 64-bit value using the given byte order.
func (m *Memory) ReadUint64(addr uint64, e endian.Endian) (uint64, error) {
	var buf [8]byte
	if err := m.ReadAt(addr, buf[:]); err != nil {
		return 0, err
	}
	return e.Uint64(buf[:]), nil
}

// WriteUint64 writes a 64-bit value using the given byte order.
func (m *Memory) WriteUint64(addr uint64, v uint64, e endian.Endian) error {
	var buf [8]byte
	e.PutUint64(buf[:], v)
	return m.WriteAt(addr, buf[:])
}

// ReadUint128 reads a 128-bit value (hi, lo words) using the given byte
// order. The MMU has no 128-bit accessor, so no instruction reaches it.
func (m *Memory) ReadUint128(addr uint64, e endian.Endian) (hi, lo uint64, err error) {
	var buf [16]byte
	if err := m.ReadAt(addr, buf[:]); err != nil {
		return 0, 0, err
	}
	hi, lo = e.Uint128(buf[:])
	return hi, lo, nil
}

// WriteUint128 writes a 128-bit value (hi, lo words) using the given byte
// order.
func (m *Memory) WriteUint128(addr uint64, hi, lo uint64, e endian.Endian) error {
	var buf [16]byte
	e.PutUint128(buf[:], hi, lo)
	return m.WriteAt(addr, buf[:])
}

// Reset clears the image back to all-zero and resets access counters.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
	m.AccessCount, m.ReadCount, m.WriteCount = 0, 0, 0
}
