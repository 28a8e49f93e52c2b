package elf

import (
	"testing"

	"github.com/shemnei/rv64sim/endian"
	"github.com/shemnei/rv64sim/memory"
)

// buildMinimalImage assembles a tiny synthetic ELF64 RISC-V image: header +
// one PT_LOAD program header + its payload bytes, with no section headers.
func buildMinimalImage(t *testing.T, payload []byte, vaddr uint64) []byte {
	t.Helper()

	const (
		ehSize  = headerSize64
		phSize  = 56 // ELF64 program header: 4+4+8*6 = 56
		phOff   = ehSize
		dataOff = phOff + phSize
	)

	h := Header{
		Type:              ET_EXEC,
		Machine:           EM_RISCV,
		Version:           1,
		Entry:             vaddr,
		ProgHeaderOff:     phOff,
		SectionHeaderOff:  0,
		HeaderSize:        ehSize,
		ProgHeaderEntSize: phSize,
		ProgHeaderNum:     1,
	}
	h.Ident[0], h.Ident[1], h.Ident[2], h.Ident[3] = 0x7f, 'E', 'L', 'F'
	h.Ident[4] = byte(Class64)
	h.Ident[5] = 1 // LE
	h.Ident[6] = 1 // version

	out := make([]byte, dataOff+len(payload))
	copy(out, h.Bytes())

	e := endian.Little
	ph := out[phOff:dataOff]
	e.PutUint32(ph[0:4], uint32(PT_LOAD))
	e.PutUint32(ph[4:8], uint32(PF_R|PF_X))
	e.PutUint64(ph[8:16], dataOff)
	e.PutUint64(ph[16:24], vaddr)
	e.PutUint64(ph[24:32], vaddr)
	e.PutUint64(ph[32:40], uint64(len(payload)))
	e.PutUint64(ph[40:48], uint64(len(payload))+16) // memsz > filesz exercises BSS zeroing
	e.PutUint64(ph[48:56], 0x8)

	copy(out[dataOff:], payload)
	return out
}

func TestParseAndLoadMinimalImage(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	const vaddr = 0x80000000
	raw := buildMinimalImage(t, payload, vaddr)

	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Header.Machine != EM_RISCV {
		t.Fatalf("machine = %v, want EM_RISCV", f.Header.Machine)
	}
	if len(f.ProgramHeaders) != 1 {
		t.Fatalf("phnum = %d, want 1", len(f.ProgramHeaders))
	}
	p := f.ProgramHeaders[0]
	if p.Type != PT_LOAD || p.PAddr != vaddr || p.FileSz != uint64(len(payload)) {
		t.Fatalf("unexpected program header: %+v", p)
	}
	if !p.AlignOK() {
		t.Error("expected AlignOK for aligned vaddr/offset")
	}

	mem := memory.New(vaddr + 1<<20)
	if err := f.LoadInto(mem); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	got, err := mem.ReadUint32(vaddr, endian.Little)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got != 0xEFBEADDE {
		t.Errorf("memory at entry = %#x, want 0xEFBEADDE", got)
	}

	// Bytes beyond filesz up to memsz must read back as zero (implicit BSS).
	bssByte, err := mem.ReadUint8(vaddr + uint64(len(payload)))
	if err != nil {
		t.Fatalf("read bss: %v", err)
	}
	if bssByte != 0 {
		t.Errorf("bss byte = %#x, want 0", bssByte)
	}
}

func TestMachineString(t *testing.T) {
	if got := EM_RISCV.String(); got != "RISC-V" {
		t.Errorf("EM_RISCV.String() = %q, want %q", got, "RISC-V")
	}
}
