package elf

import "testing"

func TestErrorMessage(t *testing.T) {
	err := newError(InvalidMagic, "header")
	want := "elf: header: invalid magic"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
