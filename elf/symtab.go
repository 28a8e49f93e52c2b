package elf

import "github.com/shemnei/rv64sim/endian"

// Symbol is one fixed-stride record of a symbol table.
type Symbol struct {
	Name  uint32 // byte offset into the linked string table
	Value uint64
	Size  uint64
	Info  uint8
	Other uint8
	Shndx uint16
}

// Bind returns the symbol's binding (upper 4 bits of Info).
func (s Symbol) Bind() uint8 { return s.Info >> 4 }

// Type returns the symbol's type (lower 4 bits of Info).
func (s Symbol) Type() uint8 { return s.Info & 0xf }

// symSize32 and symSize64 are the on-wire record sizes per class; ELF32
// symbols store Value/Size as 32-bit fields while ELF64 widens them and
// also reorders Info/Other/Shndx ahead of Value/Size.
const (
	symSize32 = 16
	symSize64 = 24
)

func parseSymbol(c *cursor, class Class) Symbol {
	var s Symbol
	if class == Class32 {
		s.Name = c.u32()
		s.Value = c.uAddr(class)
		s.Size = c.uAddr(class)
		s.Info = byte(c.b[0])
		c.b = c.b[1:]
		s.Other = byte(c.b[0])
		c.b = c.b[1:]
		s.Shndx = c.u16()
		return s
	}
	s.Name = c.u32()
	s.Info = byte(c.b[0])
	c.b = c.b[1:]
	s.Other = byte(c.b[0])
	c.b = c.b[1:]
	s.Shndx = c.u16()
	s.Value = c.uAddr(class)
	s.Size = c.uAddr(class)
	return s
}

// Symtab is a parsed SHT_SYMTAB section paired with the Strtab (found via
// sh_link) that resolves its Name offsets.
type Symtab struct {
	Symbols []Symbol
	Names   Strtab
}

// ParseSymtab decodes every symbol record in an SHT_SYMTAB section's raw
// bytes. entSize is the section's EntSize field; stride 0 falls back to the
// class's natural record size.
func ParseSymtab(data []byte, class Class, e endian.Endian, entSize uint64, names Strtab) (Symtab, error) {
	stride := entSize
	if stride == 0 {
		stride = symSize32
		if class == Class64 {
			stride = symSize64
		}
	}
	if stride == 0 || uint64(len(data))%stride != 0 {
		return Symtab{}, newError(InsufficientSize, "symbol table")
	}

	count := uint64(len(data)) / stride
	out := make([]Symbol, 0, count)
	for i := uint64(0); i < count; i++ {
		rec := data[i*stride : (i+1)*stride]
		c := &cursor{b: rec, e: e}
		out = append(out, parseSymbol(c, class))
	}
	return Symtab{Symbols: out, Names: names}, nil
}

// Name resolves a symbol's name via the linked string table.
func (t Symtab) Name(sym Symbol) (string, bool) {
	return t.Names.AtOffset(sym.Name)
}
