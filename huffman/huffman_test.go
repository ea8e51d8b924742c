package huffman

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"a",
		"aaaa",
		"abracadabra",
		"the quick brown fox jumps over the lazy dog",
		"SIX.MIXED.PIXIES.SIFT.SIXTY.PIXIE.DUST.BOXES",
	}
	for _, in := range inputs {
		data := []byte(in)
		payload := Encode(data)
		got, err := Decode(payload, len(data))
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", in, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("round-trip mismatch for %q: got %q", in, got)
		}
	}
}

func TestSingleSymbol(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 37)
	payload := Encode(data)
	got, err := Decode(payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("single-symbol round-trip mismatch")
	}
}

func TestSymbol255(t *testing.T) {
	data := []byte{255, 0, 255, 1, 255, 255}
	payload := Encode(data)
	got, err := Decode(payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch for data containing symbol 255: got %v want %v", got, data)
	}
}

func TestEmpty(t *testing.T) {
	payload := Encode(nil)
	got, err := Decode(payload, 0)
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) for empty input, got (%v, %v)", got, err)
	}
}

func TestFullAlphabetRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 5000)
	rng.Read(data)
	payload := Encode(data)
	got, err := Decode(payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch over full random alphabet")
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := []byte("abracadabra")
	payload := Encode(data)
	// Keep only the tree_len header, dropping the entire tree blob.
	if _, err := Decode(payload[:4], len(data)); err == nil {
		t.Errorf("expected error decoding payload with missing tree blob")
	}
}
