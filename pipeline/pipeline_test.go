package pipeline

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/soramame72/sor2/internal/sorrand"
)

func sampleInputs() map[string][]byte {
	return map[string][]byte{
		"short":     []byte("banana"),
		"text":      []byte("the quick brown fox jumps over the lazy dog. the quick brown fox jumps again."),
		"repeating": bytes.Repeat([]byte("abcabcabcabc"), 100),
		"large":     bytes.Repeat([]byte("0123456789"), 2000), // forces multi-block BWT framing
	}
}

func TestBWTRLEMTFHuffmanRoundTrip(t *testing.T) {
	for name, data := range sampleInputs() {
		payload := BWTRLEMTFHuffman(data)
		got, err := DecodeBWTRLEMTFHuffman(payload, len(data))
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestBWTRLEMTFArithRoundTrip(t *testing.T) {
	for name, data := range sampleInputs() {
		payload := BWTRLEMTFArith(data)
		got, err := DecodeBWTRLEMTFArith(payload, len(data))
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestBWTRLEMTFPPMRoundTrip(t *testing.T) {
	for name, data := range sampleInputs() {
		payload, err := BWTRLEMTFPPM(data)
		if err != nil {
			t.Fatalf("%s: encode error: %v", name, err)
		}
		got, err := DecodeBWTRLEMTFPPM(payload, len(data))
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestBWTLZRoundTrip(t *testing.T) {
	for name, data := range sampleInputs() {
		payload, err := BWTLZ(data)
		if err != nil {
			t.Fatalf("%s: encode error: %v", name, err)
		}
		got, err := DecodeBWTLZ(payload, len(data))
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestBWTLZPerBlockFraming(t *testing.T) {
	// Multi-block BWT_LZ must frame each block as its own independently
	// LZ-compressed {original_index, lz_payload} record inside the
	// {block_count, {len, record}*} wrapper, not one combined LZ stream
	// over the whole blocked buffer.
	data := bytes.Repeat([]byte("0123456789"), 2000) // > bwt.BlockSize, multi-block
	payload, err := BWTLZ(data)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if len(payload) < 4 {
		t.Fatalf("payload too short for a block_count header")
	}
	count := int(uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3]))
	if count < 2 {
		t.Fatalf("expected more than one block for %d bytes of input, got block_count=%d", len(data), count)
	}
	pos := 4
	seen := 0
	for seen < count {
		if pos+4 > len(payload) {
			t.Fatalf("truncated block length at block %d", seen)
		}
		blen := int(uint32(payload[pos])<<24 | uint32(payload[pos+1])<<16 | uint32(payload[pos+2])<<8 | uint32(payload[pos+3]))
		pos += 4
		if blen < 4 || pos+blen > len(payload) {
			t.Fatalf("block %d length %d invalid (payload has %d bytes left)", seen, blen, len(payload)-pos)
		}
		pos += blen
		seen++
	}
	if pos != len(payload) {
		t.Errorf("trailing bytes after last block: consumed %d of %d", pos, len(payload))
	}

	got, err := DecodeBWTLZ(payload, len(data))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round-trip mismatch")
	}
}

func TestPatternLZRoundTrip(t *testing.T) {
	for name, data := range sampleInputs() {
		payload, ok, err := PatternLZ(data)
		if err != nil {
			t.Fatalf("%s: encode error: %v", name, err)
		}
		if !ok {
			t.Fatalf("%s: expected ok=true", name)
		}
		got, err := DecodePatternLZ(payload, len(data))
		if err != nil {
			t.Fatalf("%s: decode error: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestPatternLZRejectsReservedBytes(t *testing.T) {
	data := append([]byte("some text"), 0xF3)
	_, ok, err := PatternLZ(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false for input containing a reserved-range byte")
	}
}

func TestRandomBinaryAllComposites(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := make([]byte, 9000)
	rng.Read(data)

	if p := BWTRLEMTFHuffman(data); true {
		got, err := DecodeBWTRLEMTFHuffman(p, len(data))
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("BWTRLEMTFHuffman random round-trip failed: err=%v", err)
		}
	}
	if p := BWTRLEMTFArith(data); true {
		got, err := DecodeBWTRLEMTFArith(p, len(data))
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("BWTRLEMTFArith random round-trip failed: err=%v", err)
		}
	}
	if p, err := BWTLZ(data); err == nil {
		got, derr := DecodeBWTLZ(p, len(data))
		if derr != nil || !bytes.Equal(got, data) {
			t.Errorf("BWTLZ random round-trip failed: err=%v", derr)
		}
	} else {
		t.Errorf("BWTLZ encode error: %v", err)
	}
}

func TestBWTLZShrinksRepeatingCorpus(t *testing.T) {
	data := sorrand.RepeatingCorpus(3, 1<<17)

	payload, err := BWTLZ(data)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if len(payload) >= len(data) {
		t.Errorf("BWTLZ payload (%d bytes) did not shrink long-distance-copy corpus (%d bytes)", len(payload), len(data))
	}
	got, err := DecodeBWTLZ(payload, len(data))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round-trip mismatch on repeating corpus")
	}
}
