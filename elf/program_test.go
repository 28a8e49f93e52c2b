package elf

import (
	"testing"

	"github.com/shemnei/rv64sim/endian"
)

func TestProgramHeaderFieldOrderDiffersByClass(t *testing.T) {
	e := endian.Little

	// ELF32 order: type, offset, vaddr, paddr, filesz, memsz, flags, align.
	b32 := make([]byte, 32)
	e.PutUint32(b32[0:4], uint32(PT_LOAD))
	e.PutUint32(b32[4:8], 0x40)
	e.PutUint32(b32[8:12], 0x1000)
	e.PutUint32(b32[12:16], 0x1000)
	e.PutUint32(b32[16:20], 0x10)
	e.PutUint32(b32[20:24], 0x20)
	e.PutUint32(b32[24:28], uint32(PF_R | PF_X))
	e.PutUint32(b32[28:32], 0x1000)

	c32 := &cursor{b: b32, e: e}
	p32 := parseProgramHeader(c32, Class32)
	if p32.Type != PT_LOAD || p32.Offset != 0x40 || p32.VAddr != 0x1000 ||
		p32.FileSz != 0x10 || p32.MemSz != 0x20 || p32.Flags != PF_R|PF_X || p32.Align != 0x1000 {
		t.Fatalf("unexpected ELF32 program header: %+v", p32)
	}

	// ELF64 order: type, flags, offset, vaddr, paddr, filesz, memsz, align.
	b64 := make([]byte, 56)
	e.PutUint32(b64[0:4], uint32(PT_LOAD))
	e.PutUint32(b64[4:8], uint32(PF_R|PF_X))
	e.PutUint64(b64[8:16], 0x40)
	e.PutUint64(b64[16:24], 0x1000)
	e.PutUint64(b64[24:32], 0x1000)
	e.PutUint64(b64[32:40], 0x10)
	e.PutUint64(b64[40:48], 0x20)
	e.PutUint64(b64[48:56], 0x1000)

	c64 := &cursor{b: b64, e: e}
	p64 := parseProgramHeader(c64, Class64)
	if p64.Type != PT_LOAD || p64.Flags != PF_R|PF_X || p64.Offset != 0x40 ||
		p64.VAddr != 0x1000 || p64.FileSz != 0x10 || p64.MemSz != 0x20 || p64.Align != 0x1000 {
		t.Fatalf("unexpected ELF64 program header: %+v", p64)
	}
}

func TestProgramHeaderAlignOK(t *testing.T) {
	p := ProgramHeader{VAddr: 0x1040, Offset: 0x40, Align: 0x1000}
	if !p.AlignOK() {
		t.Error("expected 0x1040 % 0x1000 == 0x40 % 0x1000 to hold")
	}
	p.Align = 0
	if !p.AlignOK() {
		t.Error("Align=0 should mean unconstrained")
	}
	bad := ProgramHeader{VAddr: 0x1041, Offset: 0x40, Align: 0x1000}
	if bad.AlignOK() {
		t.Error("expected misaligned vaddr/offset to fail")
	}
}
