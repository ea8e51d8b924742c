// Package arith implements a static, order-0 arithmetic (range) coder: a
// 32-bit-precision coder with carry-less E1/E2/E3 renormalization, and a
// fixed-schema frequency model serialised alongside the coded bits.
package arith

import (
	"encoding/binary"

	"github.com/soramame72/sor2/bitio"
	"github.com/soramame72/sor2/internal/sorerrors"
)

const (
	precisionBits = 32
	maxRange      = uint64(1) << precisionBits
	rangeMask     = uint32(maxRange - 1)
	half          = uint32(1) << (precisionBits - 1)
	quarter       = uint32(1) << (precisionBits - 2)
)

// Encode returns the payload {model_len: u32 big-endian, model_blob,
// coded_bytes}.
func Encode(data []byte) []byte {
	m := buildModel(data)
	modelBlob := m.serialize()

	out := make([]byte, 0, 4+len(modelBlob)+len(data)/2)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(modelBlob)))
	out = append(out, tmp[:]...)
	out = append(out, modelBlob...)

	if len(data) == 0 {
		return out
	}

	low, high := uint32(0), rangeMask
	pending := 0
	var w bitio.Writer

	flush := func(bit byte) {
		w.WriteBit(bit)
		other := byte(1) - bit
		for ; pending > 0; pending-- {
			w.WriteBit(other)
		}
	}

	idx := make(map[byte]int, len(m.symbols))
	for i, s := range m.symbols {
		idx[s] = i
	}

	for _, d := range data {
		i := idx[d]
		r := uint64(high) - uint64(low) + 1
		high = low + uint32(r*uint64(m.cum[i]+m.freq[i])/uint64(m.total)) - 1
		low = low + uint32(r*uint64(m.cum[i])/uint64(m.total))

		for {
			if high < half {
				flush(0)
			} else if low >= half {
				flush(1)
				low -= half
				high -= half
			} else if low >= quarter && high < 3*quarter {
				pending++
				low -= quarter
				high -= quarter
			} else {
				break
			}
			low = (low << 1) & rangeMask
			high = ((high << 1) & rangeMask) | 1
		}
	}

	pending++
	if low < quarter {
		flush(0)
	} else {
		flush(1)
	}
	out = append(out, w.Flush()...)
	return out
}

// Decode reverses Encode. The symbol count is read from the embedded
// model, so unlike package huffman, Decode needs no caller-supplied length.
func Decode(payload []byte) ([]byte, error) {
	if len(payload) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "arith: payload missing model_len")
	}
	modelLen := int(binary.BigEndian.Uint32(payload))
	if modelLen < 0 || 4+modelLen > len(payload) {
		return nil, sorerrors.E(sorerrors.Truncated, "arith: model_len %d overruns payload", modelLen)
	}
	m, consumed, err := deserializeModel(payload[4 : 4+modelLen])
	if err != nil {
		return nil, err
	}
	if consumed != modelLen {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "arith: model_len %d does not match parsed model size %d", modelLen, consumed)
	}

	if m.length == 0 {
		return nil, nil
	}
	if m.precision != precisionBits {
		return nil, sorerrors.E(sorerrors.CodecFailure, "arith: unsupported precision %d", m.precision)
	}
	if len(m.symbols) == 0 {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "arith: model has no symbols but length %d", m.length)
	}

	coded := payload[4+modelLen:]
	r := bitio.NewReader(coded)

	low, high := uint32(0), rangeMask
	value := uint32(0)
	for i := 0; i < precisionBits; i++ {
		value = value<<1 | uint32(r.ReadBit())
	}

	out := make([]byte, 0, m.length)
	for i := uint32(0); i < m.length; i++ {
		rr := uint64(high) - uint64(low) + 1
		x := uint32((((uint64(value)-uint64(low)+1)*uint64(m.total))-1)/rr)

		found := -1
		for j := range m.symbols {
			if x >= m.cum[j] && x < m.cum[j]+m.freq[j] {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, sorerrors.E(sorerrors.CodecFailure, "arith: no symbol interval contains decoded value")
		}

		out = append(out, m.symbols[found])
		high = low + uint32(rr*uint64(m.cum[found]+m.freq[found])/uint64(m.total)) - 1
		low = low + uint32(rr*uint64(m.cum[found])/uint64(m.total))

		for {
			if high < half {
				// no adjustment needed, fall through to shift
			} else if low >= half {
				value -= half
				low -= half
				high -= half
			} else if low >= quarter && high < 3*quarter {
				value -= quarter
				low -= quarter
				high -= quarter
			} else {
				break
			}
			low = (low << 1) & rangeMask
			high = ((high << 1) & rangeMask) | 1
			value = ((value << 1) & rangeMask) | uint32(r.ReadBit())
		}
	}
	return out, nil
}
