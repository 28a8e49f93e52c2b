// Package elf parses ELF32 and ELF64 images: the file header, program
// header table, section header table, and the derived string- and
// symbol-table views needed to locate and load a program's segments. It is
// a from-scratch decoder (not a wrapper around the standard library's
// debug/elf) so it can be driven purely by the endian/class tag carried in
// the identifier, matching the on-wire layouts this simulator targets.
package elf

import (
	"fmt"

	"github.com/shemnei/rv64sim/memory"
)

// File is a fully parsed ELF image: the header plus both header tables and
// whatever derived views callers asked for.
type File struct {
	Header         Header
	ProgramHeaders []ProgramHeader
	SectionHeaders []SectionHeader

	raw []byte
}

// Parse decodes an ELF header and its program/section header tables from
// raw bytes. It does not validate the target machine; callers that only
// accept RISC-V images should check Header.Machine == EM_RISCV themselves.
func Parse(raw []byte) (*File, error) {
	h, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}

	phdrs, err := ParseProgramHeaders(raw, h)
	if err != nil {
		return nil, err
	}

	shdrs, err := ParseSectionHeaders(raw, h)
	if err != nil {
		return nil, err
	}

	return &File{Header: h, ProgramHeaders: phdrs, SectionHeaders: shdrs, raw: raw}, nil
}

// sectionBytes returns the raw bytes backing a section, or nil for
// SHT_NOBITS sections (which occupy no file space).
func (f *File) sectionBytes(s SectionHeader) []byte {
	if s.Type == SHT_NOBITS {
		return nil
	}
	end := s.Offset + s.Size
	if end > uint64(len(f.raw)) {
		end = uint64(len(f.raw))
	}
	if s.Offset > end {
		return nil
	}
	return f.raw[s.Offset:end]
}

// SectionHeaderStrtab returns the section-header string table named by
// Header.SectionHeaderStrNdx.
func (f *File) SectionHeaderStrtab() (Strtab, error) {
	idx := int(f.Header.SectionHeaderStrNdx)
	if idx < 0 || idx >= len(f.SectionHeaders) {
		return Strtab{}, newError(InsufficientSize, "section header string table")
	}
	return NewStrtab(f.sectionBytes(f.SectionHeaders[idx])), nil
}

// SectionName resolves a section header's Name field via the
// section-header string table.
func (f *File) SectionName(s SectionHeader) (string, error) {
	shstrtab, err := f.SectionHeaderStrtab()
	if err != nil {
		return "", err
	}
	name, ok := shstrtab.AtOffset(s.Name)
	if !ok {
		return "", fmt.Errorf("elf: section name offset %d out of range", s.Name)
	}
	return name, nil
}

// Symtabs returns every SHT_SYMTAB section as a parsed Symtab, resolved
// against the string table named by its sh_link field.
func (f *File) Symtabs() ([]Symtab, error) {
	class, _ := f.Header.Ident.ParsedClass()
	e, _ := f.Header.Ident.ParsedEndian()

	var out []Symtab
	for _, s := range f.SectionHeaders {
		if s.Type != SHT_SYMTAB {
			continue
		}
		if int(s.Link) >= len(f.SectionHeaders) {
			return nil, fmt.Errorf("elf: symtab sh_link %d out of range", s.Link)
		}
		names := NewStrtab(f.sectionBytes(f.SectionHeaders[s.Link]))
		t, err := ParseSymtab(f.sectionBytes(s), class, e, s.EntSize, names)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadInto copies every PT_LOAD segment's file bytes into mem at its
// physical address, leaving the portion of memsz beyond filesz
// implicitly zero (BSS) since mem is freshly allocated.
func (f *File) LoadInto(mem *memory.Memory) error {
	for i, p := range f.ProgramHeaders {
		if p.Type != PT_LOAD {
			continue
		}
		end := p.Offset + p.FileSz
		if end > uint64(len(f.raw)) {
			return fmt.Errorf("elf: segment %d file range [%d,%d) exceeds image size %d", i, p.Offset, end, len(f.raw))
		}
		if err := mem.WriteAtUnsafe(p.PAddr, f.raw[p.Offset:end]); err != nil {
			return fmt.Errorf("elf: loading segment %d at 0x%X: %w", i, p.PAddr, err)
		}
	}
	return nil
}
