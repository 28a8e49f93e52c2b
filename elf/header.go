package elf

import (
	"fmt"

	"github.com/shemnei/rv64sim/endian"
)

// Header is the ELF file header. Address-sized fields (Entry, ProgHeaderOff,
// SectionHeaderOff) are stored widened to 64 bits regardless of the image's
// declared Class; the class only changes how many bytes were read off the
// wire to produce them.
type Header struct {
	Ident Ident

	Type    ObjectType
	Machine Machine
	Version uint32

	Entry            uint64
	ProgHeaderOff    uint64
	SectionHeaderOff uint64

	Flags uint32

	HeaderSize        uint16
	ProgHeaderEntSize uint16
	ProgHeaderNum     uint16
	SectionHeaderEntSize uint16
	SectionHeaderNum     uint16
	SectionHeaderStrNdx  uint16
}

func (h Header) String() string {
	return fmt.Sprintf(`Header:
	%s
	type     : %s
	machine  : %s
	version  : %d
	entry    : %#x
	phoff    : %d
	shoff    : %d
	flags    : %#x
	ehsize   : %d
	phentsize: %d
	phnum    : %d
	shentsize: %d
	shnum    : %d
	shstrndx : %d`,
		h.Ident, h.Type, h.Machine, h.Version, h.Entry, h.ProgHeaderOff,
		h.SectionHeaderOff, h.Flags, h.HeaderSize, h.ProgHeaderEntSize,
		h.ProgHeaderNum, h.SectionHeaderEntSize, h.SectionHeaderNum,
		h.SectionHeaderStrNdx)
}

// headerSize32 and headerSize64 are the byte sizes of the fixed-layout
// header for each class, identifier included.
const (
	headerSize32 = 52
	headerSize64 = 64
)

// cursor walks a byte slice, consuming fixed-width fields in a declared
// endianness. It mirrors the scattered `consume!` macro in the Rust source
// this package is ported from, as an ordinary method set instead of a macro.
type cursor struct {
	b []byte
	e endian.Endian
}

func (c *cursor) u16() uint16 {
	v := c.e.Uint16(c.b)
	c.b = c.b[2:]
	return v
}

func (c *cursor) u32() uint32 {
	v := c.e.Uint32(c.b)
	c.b = c.b[4:]
	return v
}

func (c *cursor) u64() uint64 {
	v := c.e.Uint64(c.b)
	c.b = c.b[8:]
	return v
}

// uAddr reads an address-sized field: 4 bytes for Class32, 8 for Class64.
func (c *cursor) uAddr(class Class) uint64 {
	if class == Class32 {
		return uint64(c.u32())
	}
	return c.u64()
}

// ParseHeader decodes the ELF file header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	var h Header

	id, err := parseIdent(b)
	if err != nil {
		return h, err
	}
	h.Ident = id

	class, _ := id.ParsedClass()
	e, _ := id.ParsedEndian()

	need := headerSize32
	if class == Class64 {
		need = headerSize64
	}
	if len(b) < need {
		return h, newError(InsufficientSize, "header")
	}

	c := &cursor{b: b[len(id):], e: e}
	h.Type = ObjectType(c.u16())
	h.Machine = Machine(c.u16())
	h.Version = c.u32()
	h.Entry = c.uAddr(class)
	h.ProgHeaderOff = c.uAddr(class)
	h.SectionHeaderOff = c.uAddr(class)
	h.Flags = c.u32()
	h.HeaderSize = c.u16()
	h.ProgHeaderEntSize = c.u16()
	h.ProgHeaderNum = c.u16()
	h.SectionHeaderEntSize = c.u16()
	h.SectionHeaderNum = c.u16()
	h.SectionHeaderStrNdx = c.u16()

	return h, nil
}

// Bytes re-serializes the header back to its on-wire form, used by the
// round-trip test in §8 of the design notes: parsing then re-encoding must
// reproduce the original bytes for every field covered.
func (h Header) Bytes() []byte {
	class, _ := h.Ident.ParsedClass()
	e, _ := h.Ident.ParsedEndian()

	size := headerSize32
	if class == Class64 {
		size = headerSize64
	}
	out := make([]byte, size)
	copy(out, h.Ident[:])

	b := out[len(h.Ident):]
	e.PutUint16(b, uint16(h.Type))
	b = b[2:]
	e.PutUint16(b, uint16(h.Machine))
	b = b[2:]
	e.PutUint32(b, h.Version)
	b = b[4:]

	putAddr := func(v uint64) {
		if class == Class32 {
			e.PutUint32(b, uint32(v))
			b = b[4:]
			return
		}
		e.PutUint64(b, v)
		b = b[8:]
	}
	putAddr(h.Entry)
	putAddr(h.ProgHeaderOff)
	putAddr(h.SectionHeaderOff)

	e.PutUint32(b, h.Flags)
	b = b[4:]
	e.PutUint16(b, h.HeaderSize)
	b = b[2:]
	e.PutUint16(b, h.ProgHeaderEntSize)
	b = b[2:]
	e.PutUint16(b, h.ProgHeaderNum)
	b = b[2:]
	e.PutUint16(b, h.SectionHeaderEntSize)
	b = b[2:]
	e.PutUint16(b, h.SectionHeaderNum)
	b = b[2:]
	e.PutUint16(b, h.SectionHeaderStrNdx)

	return out
}
