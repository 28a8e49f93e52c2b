package elf

import (
	"fmt"

	"github.com/shemnei/rv64sim/endian"
)

// Byte offsets within the 16-byte identifier.
const (
	identMag0 = 0
	identMag1 = 1
	identMag2 = 2
	identMag3 = 3
	identClass = 4
	identData = 5
	identVersion = 6
	identOSABI = 7
	identABIVersion = 8
	identPadStart = 9
)

// Class distinguishes 32- from 64-bit address-sized header fields.
type Class byte

const (
	Class32 Class = 1
	Class64 Class = 2
)

func (c Class) String() string {
	switch c {
	case Class32:
		return "ELF32"
	case Class64:
		return "ELF64"
	default:
		return "UNKNOWN"
	}
}

var magic = [4]byte{0x7F, 'E', 'L', 'F'}

// Ident is the raw 16-byte ELF identifier found at the start of every
// image, before any endian- or class-dependent decoding can take place.
type Ident [16]byte

func (id Ident) magicOK() bool {
	return id[identMag0] == magic[0] && id[identMag1] == magic[1] &&
		id[identMag2] == magic[2] && id[identMag3] == magic[3]
}

// Class returns the raw class byte (use ParsedClass for the validated enum).
func (id Ident) Class() byte { return id[identClass] }

// Data returns the raw endianness byte (use ParsedEndian for the validated
// enum).
func (id Ident) Data() byte { return id[identData] }

func (id Ident) Version() byte      { return id[identVersion] }
func (id Ident) OSABI() byte        { return id[identOSABI] }
func (id Ident) ABIVersion() byte   { return id[identABIVersion] }
func (id Ident) Pad() []byte        { return id[identPadStart:] }

// ParsedClass validates and returns the ELF class.
func (id Ident) ParsedClass() (Class, error) {
	switch Class(id.Class()) {
	case Class32, Class64:
		return Class(id.Class()), nil
	default:
		return 0, newError(InvalidClass, "ident")
	}
}

// ParsedEndian validates and returns the byte order used by every
// multi-byte field beyond the identifier itself.
func (id Ident) ParsedEndian() (endian.Endian, error) {
	e, ok := endian.FromByte(id.Data())
	if !ok {
		return 0, newError(UnknownEndianness, "ident")
	}
	return e, nil
}

func (id Ident) String() string {
	class, classErr := id.ParsedClass()
	classStr := "UNKNOWN"
	if classErr == nil {
		classStr = class.String()
	}
	e, endErr := id.ParsedEndian()
	endStr := "unknown-endian"
	if endErr == nil {
		endStr = e.String()
	}
	return fmt.Sprintf("ident{class=%s data=%s version=%d osabi=%d abiversion=%d}",
		classStr, endStr, id.Version(), id.OSABI(), id.ABIVersion())
}

// parseIdent reads and validates the first 16 bytes of an ELF image.
func parseIdent(b []byte) (Ident, error) {
	var id Ident
	if len(b) < len(id) {
		return id, newError(InsufficientSize, "ident")
	}
	copy(id[:], b[:len(id)])
	if !id.magicOK() {
		return id, newError(InvalidMagic, "ident")
	}
	if _, err := id.ParsedClass(); err != nil {
		return id, err
	}
	if _, err := id.ParsedEndian(); err != nil {
		return id, err
	}
	return id, nil
}
