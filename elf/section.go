package elf

// SectionHeader describes one entry of the section header table.
type SectionHeader struct {
	Name      uint32 // byte offset into the section-header string table
	Type      SectionType
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

func parseSectionHeader(c *cursor, class Class) SectionHeader {
	var s SectionHeader
	s.Name = c.u32()
	s.Type = SectionType(c.u32())
	s.Flags = c.uAddr(class)
	s.Addr = c.uAddr(class)
	s.Offset = c.uAddr(class)
	s.Size = c.uAddr(class)
	s.Link = c.u32()
	s.Info = c.u32()
	s.AddrAlign = c.uAddr(class)
	s.EntSize = c.uAddr(class)
	return s
}

// ParseSectionHeaders reads h.SectionHeaderNum entries of stride
// h.SectionHeaderEntSize starting at h.SectionHeaderOff within b.
func ParseSectionHeaders(b []byte, h Header) ([]SectionHeader, error) {
	class, _ := h.Ident.ParsedClass()
	e, _ := h.Ident.ParsedEndian()

	out := make([]SectionHeader, 0, h.SectionHeaderNum)
	for i := 0; i < int(h.SectionHeaderNum); i++ {
		off := h.SectionHeaderOff + uint64(i)*uint64(h.SectionHeaderEntSize)
		if off+uint64(h.SectionHeaderEntSize) > uint64(len(b)) {
			return nil, newError(InsufficientSize, "section header")
		}
		c := &cursor{b: b[off : off+uint64(h.SectionHeaderEntSize)], e: e}
		out = append(out, parseSectionHeader(c, class))
	}
	return out, nil
}
