// Package pipeline wires together the codecs in package bwt, rle, mtf,
// huffman, arith, ppm, lzbackend and pattern into the composite
// compression schemes named in spec.md: BWT→RLE→MTF→{Huffman, Arithmetic,
// PPM}, BWT→RLE→LZ, and Pattern→LZ.
//
// Two of the five composites self-describe their symbol count (arith's
// model carries a length field, and PPM is a thin wrapper over arith), so
// they carry no length field of their own: BWT_RLE_MTF_ARITH's payload is
// exactly the arith payload, and BWT_RLE_MTF_PPM's is one leading order
// byte followed by the arith payload. BWT_RLE_MTF_HUFFMAN does not — Huffman's payload has no length
// field — so that composite alone prefixes a four-byte symbol count
// ahead of the Huffman payload.
package pipeline

import (
	"encoding/binary"

	"github.com/soramame72/sor2/arith"
	"github.com/soramame72/sor2/bwt"
	"github.com/soramame72/sor2/huffman"
	"github.com/soramame72/sor2/internal/sorerrors"
	"github.com/soramame72/sor2/lzbackend"
	"github.com/soramame72/sor2/mtf"
	"github.com/soramame72/sor2/pattern"
	"github.com/soramame72/sor2/ppm"
	"github.com/soramame72/sor2/rle"
)

func bwtRLEMTFEncode(data []byte) []byte {
	blocked := bwt.BlockEncode(data, bwt.BlockSize)
	return mtf.Encode(rle.Encode(blocked))
}

func bwtRLEMTFDecode(mtfData []byte, originalSize int) ([]byte, error) {
	rleData := mtf.Decode(mtfData)
	blocked, err := rle.Decode(rleData)
	if err != nil {
		return nil, err
	}
	return bwt.BlockDecode(blocked, originalSize, bwt.BlockSize)
}

// BWTRLEMTFHuffman runs BWT→RLE→MTF→Huffman over data.
func BWTRLEMTFHuffman(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	mtfData := bwtRLEMTFEncode(data)
	var out []byte
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(mtfData)))
	out = append(out, tmp[:]...)
	out = append(out, huffman.Encode(mtfData)...)
	return out
}

// DecodeBWTRLEMTFHuffman reverses BWTRLEMTFHuffman. originalSize is the
// size of the file the composite was originally run over.
func DecodeBWTRLEMTFHuffman(payload []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	if len(payload) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "pipeline: BWT_RLE_MTF_HUFFMAN payload missing mtf_len")
	}
	mtfLen := int(binary.BigEndian.Uint32(payload))
	mtfData, err := huffman.Decode(payload[4:], mtfLen)
	if err != nil {
		return nil, err
	}
	return bwtRLEMTFDecode(mtfData, originalSize)
}

// BWTRLEMTFArith runs BWT→RLE→MTF→arithmetic coding over data.
func BWTRLEMTFArith(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return arith.Encode(bwtRLEMTFEncode(data))
}

// DecodeBWTRLEMTFArith reverses BWTRLEMTFArith.
func DecodeBWTRLEMTFArith(payload []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	mtfData, err := arith.Decode(payload)
	if err != nil {
		return nil, err
	}
	return bwtRLEMTFDecode(mtfData, originalSize)
}

// BWTRLEMTFPPM runs BWT→RLE→MTF→order-0 PPM over data. The order byte is
// carried explicitly so a decoder can reject anything but order 0 instead
// of silently reinterpreting it, per ppm's documented restriction.
func BWTRLEMTFPPM(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	coded, err := ppm.Encode(bwtRLEMTFEncode(data), ppm.OrderZero)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(ppm.OrderZero)}, coded...), nil
}

// DecodeBWTRLEMTFPPM reverses BWTRLEMTFPPM.
func DecodeBWTRLEMTFPPM(payload []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	if len(payload) < 1 {
		return nil, sorerrors.E(sorerrors.Truncated, "pipeline: BWT_RLE_MTF_PPM payload missing order byte")
	}
	order := ppm.Order(payload[0])
	mtfData, err := ppm.Decode(payload[1:], order)
	if err != nil {
		return nil, err
	}
	return bwtRLEMTFDecode(mtfData, originalSize)
}

// bwtLZPreset is the LZ effort level used inside the BWT_LZ composite,
// independent of whatever preset the method selector is comparing for a
// standalone LZ candidate.
const bwtLZPreset = 6

// encodeBWTLZBlock BWT-transforms, RLEs and LZ-compresses a single block,
// framing it as {original_index u32 BE, lz_payload} per spec.md §4.10.
func encodeBWTLZBlock(block []byte) ([]byte, error) {
	buf := append([]byte(nil), block...)
	idx := bwt.Forward(buf)
	lzPayload, err := lzbackend.Encode(rle.Encode(buf), bwtLZPreset)
	if err != nil {
		return nil, err
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(idx))
	return append(tmp[:], lzPayload...), nil
}

// decodeBWTLZBlock reverses encodeBWTLZBlock. The block's size is never
// passed in: the LZ payload and the RLE stream it decodes to are both
// self-describing, so the BWT last column's length falls out of decoding
// them rather than needing to be known up front.
func decodeBWTLZBlock(rec []byte) ([]byte, error) {
	if len(rec) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "pipeline: BWT_LZ block missing original_index")
	}
	idx := int(binary.BigEndian.Uint32(rec))
	rleData, err := lzbackend.Decode(rec[4:])
	if err != nil {
		return nil, err
	}
	buf, err := rle.Decode(rleData)
	if err != nil {
		return nil, err
	}
	if idx < 0 || (len(buf) > 0 && idx >= len(buf)) {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "pipeline: BWT_LZ origin pointer %d out of range for block of size %d", idx, len(buf))
	}
	bwt.Inverse(buf, idx)
	return buf, nil
}

// BWTLZ runs, per BWT block, RLE of the last column followed by LZ
// compression, framed per spec.md §4.10: a single-block record for
// inputs at or below bwt.BlockSize, otherwise the {block_count,
// {len, record}*} wrapper shared with the other BWT composites.
func BWTLZ(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) <= bwt.BlockSize {
		return encodeBWTLZBlock(data)
	}

	var recs [][]byte
	for off := 0; off < len(data); off += bwt.BlockSize {
		end := off + bwt.BlockSize
		if end > len(data) {
			end = len(data)
		}
		rec, err := encodeBWTLZBlock(data[off:end])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	var out []byte
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(recs)))
	out = append(out, tmp[:]...)
	for _, rec := range recs {
		binary.BigEndian.PutUint32(tmp[:], uint32(len(rec)))
		out = append(out, tmp[:]...)
		out = append(out, rec...)
	}
	return out, nil
}

// DecodeBWTLZ reverses BWTLZ.
func DecodeBWTLZ(payload []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	if originalSize <= bwt.BlockSize {
		return decodeBWTLZBlock(payload)
	}

	if len(payload) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "pipeline: BWT_LZ payload missing block_count")
	}
	count := binary.BigEndian.Uint32(payload)
	pos := 4
	out := make([]byte, 0, originalSize)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(payload) {
			return nil, sorerrors.E(sorerrors.Truncated, "pipeline: BWT_LZ missing block length for block %d", i)
		}
		blen := int(binary.BigEndian.Uint32(payload[pos:]))
		pos += 4
		if blen < 0 || pos+blen > len(payload) {
			return nil, sorerrors.E(sorerrors.InvalidFraming, "pipeline: BWT_LZ block %d length %d overruns payload", i, blen)
		}
		rec := payload[pos : pos+blen]
		pos += blen
		blockBytes, err := decodeBWTLZBlock(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, blockBytes...)
	}
	if len(out) != originalSize {
		return nil, sorerrors.E(sorerrors.SizeMismatch, "pipeline: BWT_LZ decoded %d bytes, want %d", len(out), originalSize)
	}
	return out, nil
}

const patternTopN = 16

// PatternLZ runs pattern substitution followed by LZ over data. ok is
// false when data is unsuitable for pattern substitution (it already
// contains a byte in pattern's reserved code range); callers should fall
// back to another method in that case.
func PatternLZ(data []byte) (payload []byte, ok bool, err error) {
	if len(data) == 0 {
		return nil, true, nil
	}
	substituted, table, ok := pattern.Encode(data, patternTopN)
	if !ok {
		return nil, false, nil
	}
	lzData, err := lzbackend.Encode(substituted, bwtLZPreset)
	if err != nil {
		return nil, false, err
	}
	out := pattern.SerializeTable(table)
	out = append(out, lzData...)
	return out, true, nil
}

// DecodePatternLZ reverses PatternLZ.
func DecodePatternLZ(payload []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	table, n, err := pattern.DeserializeTable(payload)
	if err != nil {
		return nil, err
	}
	substituted, err := lzbackend.Decode(payload[n:])
	if err != nil {
		return nil, err
	}
	return pattern.Decode(substituted, table)
}
