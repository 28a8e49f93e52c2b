package isa

import "github.com/shemnei/rv64sim/trap"

// csrOp computes a CSR's new value from its old value and the instruction's
// source operand (a register value or a 5-bit immediate, depending on
// mnemonic).
type csrOp func(old, src uint64) uint64

func csrWrite(_, src uint64) uint64 { return src }
func csrSet(old, src uint64) uint64 { return old | src }
func csrClear(old, src uint64) uint64 { return old &^ src }

func csrAddr(word uint32) uint32 { return word >> 20 }

func makeCSRReg(op csrOp) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseI(word)
		addr := csrAddr(word)
		old, ok := c.CSRs().Read(addr)
		if !ok {
			return trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
		}
		src := uint64(c.Int().Get(ir(f.Rs1)))
		if !c.CSRs().Write(addr, op(old, src)) {
			return trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
		}
		c.Int().Set(ir(f.Rd), int64(old))
		c.SetPC(pc + 4)
		return nil
	}
}

func makeCSRImm(op csrOp) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseI(word)
		addr := csrAddr(word)
		old, ok := c.CSRs().Read(addr)
		if !ok {
			return trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
		}
		zimm := uint64(f.Rs1)
		if !c.CSRs().Write(addr, op(old, zimm)) {
			return trap.New(trap.IllegalInstruction, pc).WithInstruction(word)
		}
		c.Int().Set(ir(f.Rd), int64(old))
		c.SetPC(pc + 4)
		return nil
	}
}

var csrInstructions = []Descriptor{
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 1), Mnemonic: "CSRRW", Extension: "Zicsr", Exec: makeCSRReg(csrWrite)},
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 2), Mnemonic: "CSRRS", Extension: "Zicsr", Exec: makeCSRReg(csrSet)},
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 3), Mnemonic: "CSRRC", Extension: "Zicsr", Exec: makeCSRReg(csrClear)},
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 5), Mnemonic: "CSRRWI", Extension: "Zicsr", Exec: makeCSRImm(csrWrite)},
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 6), Mnemonic: "CSRRSI", Extension: "Zicsr", Exec: makeCSRImm(csrSet)},
	{Mask: maskOpcodeFunct3, Required: reqF3(opSystem, 7), Mnemonic: "CSRRCI", Extension: "Zicsr", Exec: makeCSRImm(csrClear)},
}
