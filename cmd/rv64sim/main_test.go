package main

import "testing"

func TestParseEntryAcceptsHexPrefix(t *testing.T) {
	v, err := parseEntry("0x1000")
	if err != nil {
		t.Fatalf("parseEntry failed: %v", err)
	}
	if v != 0x1000 {
		t.Errorf("got 0x%X, want 0x1000", v)
	}
}

func TestParseEntryAcceptsBarehex(t *testing.T) {
	v, err := parseEntry("2000")
	if err != nil {
		t.Fatalf("parseEntry failed: %v", err)
	}
	if v != 0x2000 {
		t.Errorf("got 0x%X, want 0x2000", v)
	}
}

func TestParseEntryRejectsGarbage(t *testing.T) {
	if _, err := parseEntry("not-an-address"); err == nil {
		t.Error("expected an error for a non-hex string")
	}
}
