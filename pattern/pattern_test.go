package pattern

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox the quick brown fox the quick brown fox")
	sub, table, ok := Encode(data, 8)
	if !ok {
		t.Fatalf("Encode: expected ok=true")
	}
	if len(sub) >= len(data) {
		t.Errorf("expected substitution to shrink repetitive input: %d >= %d", len(sub), len(data))
	}
	got, err := Decode(sub, table)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch: got %q want %q", got, data)
	}
}

func TestRejectsReservedRangeInput(t *testing.T) {
	data := append([]byte("hello"), 0xF0)
	_, _, ok := Encode(data, 8)
	if ok {
		t.Errorf("expected Encode to refuse input containing a reserved-range byte")
	}
}

func TestDecodeRejectsUnknownCode(t *testing.T) {
	table := map[byte][]byte{0xF0: []byte("th")}
	_, err := Decode([]byte{0xF0, 0xF1, 'x'}, table)
	if err == nil {
		t.Errorf("expected error decoding an unassigned reserved-range byte")
	}
}

func TestTableSerializeRoundTrip(t *testing.T) {
	table := map[byte][]byte{
		0xF0: []byte("th"),
		0xF1: []byte("quick"),
		0xF2: []byte("e "),
	}
	blob := SerializeTable(table)
	got, n, err := DeserializeTable(blob)
	if err != nil {
		t.Fatalf("DeserializeTable error: %v", err)
	}
	if n != len(blob) {
		t.Errorf("consumed %d bytes, want %d", n, len(blob))
	}
	if len(got) != len(table) {
		t.Fatalf("table size mismatch: got %d want %d", len(got), len(table))
	}
	for code, pat := range table {
		if !bytes.Equal(got[code], pat) {
			t.Errorf("code 0x%02x: got %q want %q", code, got[code], pat)
		}
	}
}

func TestNoRepeatsNoSubstitution(t *testing.T) {
	data := []byte("abcdefgh")
	sub, table, ok := Encode(data, 8)
	if !ok {
		t.Fatalf("Encode: expected ok=true")
	}
	if len(table) != 0 {
		t.Errorf("expected empty table for non-repeating input, got %d entries", len(table))
	}
	if !bytes.Equal(sub, data) {
		t.Errorf("expected unchanged output for non-repeating input")
	}
}

func TestEmpty(t *testing.T) {
	sub, table, ok := Encode(nil, 8)
	if !ok || len(sub) != 0 || len(table) != 0 {
		t.Errorf("expected empty ok result for empty input")
	}
}
