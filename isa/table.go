package isa

// Descriptor is one entry of the static instruction table: a mask/required
// pair identifying which encodings it matches, metadata for diagnostics,
// and the semantic function that mutates CPU state when it is selected.
type Descriptor struct {
	Mask, Required uint32
	Mnemonic       string
	Extension      string
	Exec           func(c Core, word uint32, pc uint64) error
}

// Instructions is the complete, static instruction table, assembled in
// init() from the per-extension descriptor lists so that ordering within
// an extension file is easy to audit while the whole table is built once.
var Instructions []Descriptor

func init() {
	Instructions = make([]Descriptor, 0,
		len(baseInstructions)+len(mulInstructions)+len(atomicInstructions)+
			len(floatInstructions)+len(csrInstructions)+len(privInstructions))
	Instructions = append(Instructions, baseInstructions...)
	Instructions = append(Instructions, mulInstructions...)
	Instructions = append(Instructions, atomicInstructions...)
	Instructions = append(Instructions, floatInstructions...)
	Instructions = append(Instructions, csrInstructions...)
	Instructions = append(Instructions, privInstructions...)
	buildDecodeIndex()
}
