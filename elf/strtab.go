package elf

// Strtab is a view over a string-table section's backing bytes: a sequence
// of NUL-delimited records. The byte at offset 0 is conventionally the
// empty string, shared by every "no name" reference.
type Strtab struct {
	data []byte
}

// NewStrtab wraps raw section bytes as a string table view.
func NewStrtab(data []byte) Strtab {
	return Strtab{data: data}
}

// AtOffset returns the NUL-terminated record starting at the given byte
// offset, the form used by Name fields in section and symbol headers.
func (s Strtab) AtOffset(offset uint32) (string, bool) {
	if int(offset) >= len(s.data) {
		return "", false
	}
	end := int(offset)
	for end < len(s.data) && s.data[end] != 0 {
		end++
	}
	return string(s.data[offset:end]), true
}

// AtIndex returns the n-th NUL-delimited record, counting from the start of
// the table (index 0 is always "").
func (s Strtab) AtIndex(n int) (string, bool) {
	idx := 0
	start := 0
	for i, b := range s.data {
		if b != 0 {
			continue
		}
		if idx == n {
			return string(s.data[start:i]), true
		}
		idx++
		start = i + 1
	}
	return "", false
}
