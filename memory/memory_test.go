package memory_test

import (
	"errors"
	"testing"

	"github.com/shemnei/rv64sim/endian"
	"github.com/shemnei/rv64sim/memory"
)

func TestReadWriteUint32(t *testing.T) {
	m := memory.New(16)
	if err := m.WriteUint32(4, 0x12345678, endian.Little); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := m.ReadUint32(4, endian.Little)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0x12345678 {
		t.Errorf("got 0x%X, want 0x12345678", got)
	}
}

func TestOutOfRange(t *testing.T) {
	m := memory.New(4)
	_, err := m.ReadUint64(0, endian.Little)
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
	var memErr *memory.Error
	if !errors.As(err, &memErr) || memErr.Kind != memory.OutOfRange {
		t.Errorf("got %v, want OutOfRange", err)
	}
}

func TestReadOnlyRejectsWrite(t *testing.T) {
	m := memory.New(8)
	m.MakeReadOnly()
	err := m.WriteUint8(0, 1)
	var memErr *memory.Error
	if !errors.As(err, &memErr) || memErr.Kind != memory.PermissionDenied {
		t.Errorf("got %v, want PermissionDenied", err)
	}
}

func TestWriteAtUnsafeBypassesReadOnly(t *testing.T) {
	m := memory.New(8)
	m.MakeReadOnly()
	if err := m.WriteAtUnsafe(0, []byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResetClearsData(t *testing.T) {
	m := memory.New(8)
	_ = m.WriteUint8(0, 0xFF)
	m.Reset()
	if m.AccessCount != 0 {
		t.Errorf("expected counters cleared")
	}
	v, _ := m.ReadUint8(0)
	if v != 0 {
		t.Errorf("got %d, want 0 after reset", v)
	}
}

func TestNoOverflowWraparound(t *testing.T) {
	m := memory.New(8)
	err := m.ReadAt(^uint64(0)-2, make([]byte, 8))
	if err == nil {
		t.Fatal("expected error on address wraparound")
	}
}
