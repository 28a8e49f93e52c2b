package isa

import "github.com/shemnei/rv64sim/trap"

// privInstructions decodes the privileged M-mode/S-mode return and wait
// instructions so a well-formed supervisor binary does not stall the
// decoder on IllegalInstruction for instructions this single-privilege-
// level core merely doesn't implement the target of (spec §1 Non-goals:
// multi-privilege-level execution is out of scope; SPEC_FULL §4.7 keeps
// these as recognized-but-trapping stubs rather than silently matching
// nothing).
var privInstructions = []Descriptor{
	{Mask: 0xFFFFFFFF, Required: 0b0011000_00010_00000_000_00000_1110011, Mnemonic: "MRET", Extension: "Priv", Exec: execPrivStub},
	{Mask: 0xFFFFFFFF, Required: 0b0001000_00010_00000_000_00000_1110011, Mnemonic: "SRET", Extension: "Priv", Exec: execPrivStub},
	{Mask: 0xFFFFFFFF, Required: 0b0001000_00101_00000_000_00000_1110011, Mnemonic: "WFI", Extension: "Priv", Exec: execPrivStub},
}

func execPrivStub(c Core, word uint32, pc uint64) error {
	return trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
}
