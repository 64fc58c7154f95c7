package encoding

import (
	"bytes"
	"testing"
)

func TestFixedString(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"terminated", []byte("cargo\x00\x00\x00"), "cargo"},
		{"no terminator", []byte("abcdef"), "abcdef"},
		{"garbage after terminator", []byte("tree\x00junk"), "tree"},
		{"high bytes dropped", []byte{'c', 0xff, 'a', 0x80, 'r', 0}, "car"},
		{"control bytes dropped", []byte{'a', '\t', 'b', 0}, "ab"},
		{"empty", []byte{0, 'x'}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FixedString(tc.data)
			if got != tc.expected {
				t.Errorf("FixedString(%q) = %q, expected %q", tc.data, got, tc.expected)
			}
		})
	}
}

func TestToFixedString(t *testing.T) {
	field := ToFixedString("wheel_lf", 22)
	if len(field) != 22 {
		t.Fatalf("expected 22 bytes, got %d", len(field))
	}
	if !bytes.HasPrefix(field, []byte("wheel_lf\x00")) {
		t.Errorf("unexpected field contents %q", field)
	}

	long := ToFixedString("abcdefghijklmnopqrstuvwxyz", 22)
	if long[21] != 0 {
		t.Error("expected last byte to stay a terminator")
	}
	if FixedString(long) != "abcdefghijklmnopqrstu" {
		t.Errorf("unexpected round trip %q", FixedString(long))
	}
}
