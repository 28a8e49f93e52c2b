package isa

// decodeIndex buckets descriptors by their required opcode bits (word bits
// [0:6]), the field every RISC-V instruction format fixes first. This lets
// Decode avoid scanning the whole table on every fetch; since no descriptor
// matches an encoding whose opcode bits differ from its own, bucketing
// changes nothing about which descriptor wins — it is the same linear
// mask/required scan from spec §4.4, just pre-partitioned. Grounded on the
// teacher's two-level opcode-then-pattern decode cascade in
// vm/executor.go's Decode.
var decodeIndex map[uint32][]*Descriptor

func buildDecodeIndex() {
	decodeIndex = make(map[uint32][]*Descriptor)
	for i := range Instructions {
		d := &Instructions[i]
		opcode := d.Required & 0x7F
		decodeIndex[opcode] = append(decodeIndex[opcode], d)
	}
}

// Decode returns the first descriptor whose mask/required pair matches
// word, and false if none does (the caller should raise IllegalInstruction).
func Decode(word uint32) (*Descriptor, bool) {
	opcode := word & 0x7F
	for _, d := range decodeIndex[opcode] {
		if word&d.Mask == d.Required {
			return d, true
		}
	}
	return nil, false
}
