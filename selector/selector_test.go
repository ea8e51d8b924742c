package selector

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/soramame72/sor2/typesniff"
)

func TestSelectTextRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)
	method, payload, err := Select(typesniff.Text, data)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	got, err := Decode(method, payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch for method %s", method)
	}
	if len(payload) >= len(data) {
		t.Errorf("expected a compressible method to be chosen for highly repetitive text, got %s (%d >= %d)", method, len(payload), len(data))
	}
}

func TestSelectBinaryOnlyTriesStoreAndLZ(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]byte, 4000)
	rng.Read(data)
	method, payload, err := Select(typesniff.Binary, data)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if method != Store && method != LZ {
		t.Errorf("expected STORE or LZ for binary data, got %s", method)
	}
	got, err := Decode(method, payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch for method %s", method)
	}
}

func TestSelectIncompressibleFallsBackToStore(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	data := make([]byte, 2000)
	rng.Read(data)
	method, payload, err := Select(typesniff.Binary, data)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if method != Store {
		t.Fatalf("expected STORE for incompressible data, got %s (%d bytes)", method, len(payload))
	}
	if !bytes.Equal(payload, data) {
		t.Errorf("STORE payload should equal input verbatim")
	}
}

func TestSelectTextTriesLZToo(t *testing.T) {
	// Regression check: TEXT must still include LZ in its candidate set,
	// not just the BWT/Huffman/arithmetic/pattern composites.
	rng := rand.New(rand.NewSource(13))
	data := make([]byte, 5000)
	rng.Read(data)
	for i := range data {
		data[i] = 'a' + data[i]%26 // printable so typesniff would call it TEXT
	}
	method, payload, err := Select(typesniff.Text, data)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	got, err := Decode(method, payload, len(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch for method %s", method)
	}
}

func TestSelectEmpty(t *testing.T) {
	method, payload, err := Select(typesniff.Text, nil)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if method != Store || payload != nil {
		t.Errorf("expected (Store, nil) for empty input, got (%s, %v)", method, payload)
	}
}

func TestDecodeUnknownMethod(t *testing.T) {
	if _, err := Decode(Method(99), []byte("x"), 1); err == nil {
		t.Errorf("expected error decoding an unknown method code")
	}
}
