package arith

import (
	"encoding/binary"
	"sort"

	"github.com/soramame72/sor2/internal/sorerrors"
)

// model is the static, order-0 frequency table shared by the encoder and
// decoder. It replaces the pickled dict of the reference implementation
// with a fixed-schema binary record so it is portable across Go and does
// not depend on any language-specific object serializer.
type model struct {
	symbols   []byte
	freq      []uint32
	cum       []uint32
	total     uint32
	precision uint8
	length    uint32
}

func buildModel(data []byte) *model {
	var counts [256]uint32
	for _, b := range data {
		counts[b]++
	}
	m := &model{precision: precisionBits, length: uint32(len(data))}
	for s := 0; s < 256; s++ {
		if counts[s] > 0 {
			m.symbols = append(m.symbols, byte(s))
			m.freq = append(m.freq, counts[s])
		}
	}
	c := uint32(0)
	for _, f := range m.freq {
		m.cum = append(m.cum, c)
		c += f
	}
	m.total = c
	return m
}

// serialize writes {num_symbols u32 BE, {symbol u8, freq u32 BE}*, total u32
// BE, precision u8, length u32 BE}.
func (m *model) serialize() []byte {
	out := make([]byte, 0, 4+len(m.symbols)*5+9)
	out = appendU32(out, uint32(len(m.symbols)))
	for i, s := range m.symbols {
		out = append(out, s)
		out = appendU32(out, m.freq[i])
	}
	out = appendU32(out, m.total)
	out = append(out, m.precision)
	out = appendU32(out, m.length)
	return out
}

func deserializeModel(data []byte) (*model, int, error) {
	if len(data) < 4 {
		return nil, 0, sorerrors.E(sorerrors.Truncated, "arith: model missing symbol count")
	}
	numSymbols := binary.BigEndian.Uint32(data)
	pos := 4
	m := &model{}
	for i := uint32(0); i < numSymbols; i++ {
		if pos+5 > len(data) {
			return nil, 0, sorerrors.E(sorerrors.Truncated, "arith: model truncated at symbol %d", i)
		}
		m.symbols = append(m.symbols, data[pos])
		m.freq = append(m.freq, binary.BigEndian.Uint32(data[pos+1:]))
		pos += 5
	}
	if pos+9 > len(data) {
		return nil, 0, sorerrors.E(sorerrors.Truncated, "arith: model missing trailer")
	}
	m.total = binary.BigEndian.Uint32(data[pos:])
	pos += 4
	m.precision = data[pos]
	pos++
	m.length = binary.BigEndian.Uint32(data[pos:])
	pos += 4

	if !sort.SliceIsSorted(m.symbols, func(i, j int) bool { return m.symbols[i] < m.symbols[j] }) {
		return nil, 0, sorerrors.E(sorerrors.InvalidFraming, "arith: model symbols out of order")
	}
	c := uint32(0)
	for _, f := range m.freq {
		m.cum = append(m.cum, c)
		c += f
	}
	if c != m.total {
		return nil, 0, sorerrors.E(sorerrors.InvalidFraming, "arith: model total %d does not match summed frequencies %d", m.total, c)
	}
	return m, pos, nil
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
