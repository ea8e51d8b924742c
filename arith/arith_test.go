package arith

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
		got, err := Decode(payload)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", in, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("round-trip mismatch for %q: got %q", in, got)
		}
	}
}

func TestSingleSymbol(t *testing.T) {
	data := bytes.Repeat([]byte{'z'}, 500)
	payload := Encode(data)
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("single-symbol round-trip mismatch")
	}
}

func TestEmpty(t *testing.T) {
	payload := Encode(nil)
	got, err := Decode(payload)
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) for empty input, got (%v, %v)", got, err)
	}
}

func TestFullAlphabetRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, 8000)
	rng.Read(data)
	payload := Encode(data)
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch over full random alphabet")
	}
}

func TestSkewedDistribution(t *testing.T) {
	var data []byte
	for i := 0; i < 10000; i++ {
		if i%20 == 0 {
			data = append(data, 'b')
		} else {
			data = append(data, 'a')
		}
	}
	payload := Encode(data)
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch for skewed distribution")
	}
	if len(payload) >= len(data) {
		t.Errorf("expected skewed distribution to compress: payload %d bytes, input %d bytes", len(payload), len(data))
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := []byte("abracadabra")
	payload := Encode(data)
	if _, err := Decode(payload[:3]); err == nil {
		t.Errorf("expected error decoding payload with missing model")
	}
}
