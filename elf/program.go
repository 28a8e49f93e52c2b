package elf

// ProgramHeader describes one entry of the program header table. ELF32 and
// ELF64 disagree on where Flags sits in the on-wire layout (after MemSz,
// just before Align, for 32-bit; right after Type, before Offset, for
// 64-bit); this struct normalizes
// both into one field order so callers never need to branch on class.
type ProgramHeader struct {
	Type   SegmentType
	Flags  SegmentFlags
	Offset uint64
	VAddr  uint64
	PAddr  uint64
	FileSz uint64
	MemSz  uint64
	Align  uint64
}

// AlignOK reports whether VAddr and Offset agree modulo Align, per the ELF
// alignment invariant (Align of 0 or 1 means "no constraint").
func (p ProgramHeader) AlignOK() bool {
	if p.Align == 0 || p.Align == 1 {
		return true
	}
	return p.VAddr%p.Align == p.Offset%p.Align
}

func parseProgramHeader(c *cursor, class Class) ProgramHeader {
	var p ProgramHeader
	if class == Class32 {
		p.Type = SegmentType(c.u32())
		p.Offset = c.uAddr(class)
		p.VAddr = c.uAddr(class)
		p.PAddr = c.uAddr(class)
		p.FileSz = c.uAddr(class)
		p.MemSz = c.uAddr(class)
		p.Flags = SegmentFlags(c.u32())
		p.Align = c.uAddr(class)
		return p
	}
	p.Type = SegmentType(c.u32())
	p.Flags = SegmentFlags(c.u32())
	p.Offset = c.uAddr(class)
	p.VAddr = c.uAddr(class)
	p.PAddr = c.uAddr(class)
	p.FileSz = c.uAddr(class)
	p.MemSz = c.uAddr(class)
	p.Align = c.uAddr(class)
	return p
}

// ParseProgramHeaders reads h.ProgHeaderNum entries of stride
// h.ProgHeaderEntSize starting at h.ProgHeaderOff within b.
func ParseProgramHeaders(b []byte, h Header) ([]ProgramHeader, error) {
	class, _ := h.Ident.ParsedClass()
	e, _ := h.Ident.ParsedEndian()

	out := make([]ProgramHeader, 0, h.ProgHeaderNum)
	for i := 0; i < int(h.ProgHeaderNum); i++ {
		off := h.ProgHeaderOff + uint64(i)*uint64(h.ProgHeaderEntSize)
		if off+uint64(h.ProgHeaderEntSize) > uint64(len(b)) {
			return nil, newError(InsufficientSize, "program header")
		}
		c := &cursor{b: b[off : off+uint64(h.ProgHeaderEntSize)], e: e}
		out = append(out, parseProgramHeader(c, class))
	}
	return out, nil
}
