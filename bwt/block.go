package bwt

import (
	"encoding/binary"

	"github.com/soramame72/sor2/internal/sorerrors"
)

// BlockEncode splits data into contiguous blockSize chunks, BWT-encodes
// each independently, and serialises the result per spec: inputs at or
// below blockSize use the single-block record {original_index u32 BE,
// last_column}; larger inputs use the multi-block wrapper
// {block_count u32 BE, {block_len u32 BE, single-block-record}*}.
//
// The returned bytes are raw — they are the input to the RLE/MTF stage of
// a composite pipeline, not a self-describing payload; the caller must
// remember which form was used (by comparing len(data) to blockSize, as
// BlockDecode also requires).
func BlockEncode(data []byte, blockSize int) []byte {
	if len(data) == 0 {
		return nil
	}
	if len(data) <= blockSize {
		return encodeOneBlock(data)
	}

	var out []byte
	var recs [][]byte
	for off := 0; off < len(data); off += blockSize {
		end := off + blockSize
		if end > len(data) {
			end = len(data)
		}
		recs = append(recs, encodeOneBlock(data[off:end]))
	}
	out = appendU32BE(out, uint32(len(recs)))
	for _, rec := range recs {
		out = appendU32BE(out, uint32(len(rec)))
		out = append(out, rec...)
	}
	return out
}

func encodeOneBlock(block []byte) []byte {
	buf := append([]byte(nil), block...)
	idx := Forward(buf)
	rec := appendU32BE(nil, uint32(idx))
	return append(rec, buf...)
}

// BlockDecode reverses BlockEncode. originalSize is the size recorded for
// the whole entry and disambiguates single-block from multi-block form,
// exactly as spec.md's design notes require (no guessing from content).
func BlockDecode(data []byte, originalSize int, blockSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	if originalSize <= blockSize {
		return decodeOneBlock(data, originalSize)
	}

	if len(data) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "bwt: missing block count")
	}
	count := binary.BigEndian.Uint32(data)
	pos := 4
	out := make([]byte, 0, originalSize)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(data) {
			return nil, sorerrors.E(sorerrors.Truncated, "bwt: missing block length for block %d", i)
		}
		blen := int(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
		if blen < 0 || pos+blen > len(data) {
			return nil, sorerrors.E(sorerrors.InvalidFraming, "bwt: block %d length %d overruns input", i, blen)
		}
		rec := data[pos : pos+blen]
		pos += blen
		blockBytes, err := decodeOneBlock(rec, len(rec)-4)
		if err != nil {
			return nil, err
		}
		out = append(out, blockBytes...)
	}
	if len(out) != originalSize {
		return nil, sorerrors.E(sorerrors.SizeMismatch, "bwt: decoded %d bytes, want %d", len(out), originalSize)
	}
	return out, nil
}

func decodeOneBlock(data []byte, size int) ([]byte, error) {
	if len(data) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "bwt: missing original index")
	}
	idx := int(binary.BigEndian.Uint32(data))
	last := data[4:]
	if len(last) != size {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "bwt: block body length %d, want %d", len(last), size)
	}
	buf := append([]byte(nil), last...)
	if idx < 0 || (len(buf) > 0 && idx >= len(buf)) {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "bwt: origin pointer %d out of range for block of size %d", idx, len(buf))
	}
	Inverse(buf, idx)
	return buf, nil
}

func appendU32BE(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
