// Package huffman implements a non-canonical Huffman coder: the tree built
// from actual symbol frequencies is serialised alongside the coded bits, so
// no canonical code-length reshaping is needed to reconstruct it.
package huffman

import (
	"encoding/binary"

	"github.com/soramame72/sor2/bitio"
	"github.com/soramame72/sor2/internal/sorerrors"
)

// Encode returns the payload {tree_len: u32 big-endian, tree_blob,
// code_bytes}. It carries no symbol count: callers that cannot recover the
// symbol count some other way (original_size, an enclosing model's length
// field) must track it themselves and pass it to Decode.
func Encode(data []byte) []byte {
	root := buildTree(data)
	treeBlob := serializeTree(root)

	var out []byte
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(treeBlob)))
	out = append(out, tmp[:]...)
	out = append(out, treeBlob...)

	if root == nil {
		return out
	}
	codes := buildCodes(root)
	var w bitio.Writer
	for _, b := range data {
		c := codes[b]
		w.WriteBits(c.value, c.length)
	}
	out = append(out, w.Flush()...)
	return out
}

// Decode reverses Encode. n is the number of symbols to decode; the
// caller supplies it since the wire payload itself does not carry it.
func Decode(payload []byte, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if len(payload) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "huffman: payload missing tree_len")
	}
	treeLen := int(binary.BigEndian.Uint32(payload))
	pos := 4
	if treeLen < 0 || pos+treeLen > len(payload) {
		return nil, sorerrors.E(sorerrors.Truncated, "huffman: tree_len %d overruns payload", treeLen)
	}
	treeBlob := payload[pos : pos+treeLen]
	pos += treeLen

	root, err := deserializeTree(treeBlob)
	if err != nil {
		return nil, err
	}

	r := bitio.NewReader(payload[pos:])
	out := make([]byte, 0, n)

	if root.leaf {
		for i := 0; i < n; i++ {
			if r.ReadBit() != 0 {
				return nil, sorerrors.E(sorerrors.CodecFailure, "huffman: single-symbol stream expected bit 0")
			}
			out = append(out, root.symbol)
		}
		return out, nil
	}

	for i := 0; i < n; i++ {
		cur := root
		for !cur.leaf {
			if r.ReadBit() == 0 {
				cur = cur.left
			} else {
				cur = cur.right
			}
			if cur == nil {
				return nil, sorerrors.E(sorerrors.CodecFailure, "huffman: bit stream ended mid-codeword")
			}
		}
		out = append(out, cur.symbol)
	}
	return out, nil
}
