// Package pattern implements frequent-substring substitution: the top few
// most common byte substrings of length 2-8 are replaced with single-byte
// codes drawn from the otherwise-unused 0xF0-0xFF range.
//
// The reference implementation this is grounded on passes any input byte
// in 0xF0-0xFF straight through as a literal, even when that same byte
// value is also in use as a substitution code — so a literal 0xF0 in the
// input is indistinguishable from the code 0xF0 at decode time, and gets
// wrongly expanded into whatever pattern 0xF0 stands for. This package
// closes that hole two ways: Encode refuses to run (ok=false) over input
// that already contains any byte in the reserved range, and Decode
// rejects any code byte it did not assign (CodecFailure) instead of
// silently passing it through.
package pattern

import (
	"sort"

	"github.com/soramame72/sor2/internal/sorerrors"
)

const (
	// CodeLow and CodeHigh bound the reserved substitution-code range.
	CodeLow  = 0xF0
	CodeHigh = 0xFF

	maxTableSize = CodeHigh - CodeLow + 1 // 16
	minLen       = 2
	maxLen       = 8
)

// Encode scans data for its topN most frequent substrings of length
// minLen..maxLen and substitutes each with a reserved code byte. ok is
// false, and the other return values are unusable, when data already
// contains a byte in the reserved range.
func Encode(data []byte, topN int) (substituted []byte, table map[byte][]byte, ok bool) {
	if topN > maxTableSize {
		topN = maxTableSize
	}
	for _, b := range data {
		if b >= CodeLow {
			return nil, nil, false
		}
	}

	counts := make(map[string]int)
	for l := minLen; l <= maxLen; l++ {
		if l > len(data) {
			break
		}
		for i := 0; i+l <= len(data); i++ {
			counts[string(data[i:i+l])]++
		}
	}

	type candidate struct {
		pat   string
		count int
	}
	cands := make([]candidate, 0, len(counts))
	for pat, c := range counts {
		if c > 1 {
			cands = append(cands, candidate{pat, c})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		if len(cands[i].pat) != len(cands[j].pat) {
			return len(cands[i].pat) > len(cands[j].pat)
		}
		return cands[i].pat < cands[j].pat
	})

	table = make(map[byte][]byte)
	for _, c := range cands {
		if len(table) >= topN {
			break
		}
		code := byte(CodeLow + len(table))
		table[code] = []byte(c.pat)
	}

	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		matched := false
		for _, code := range codesInOrder(table) {
			pat := table[code]
			l := len(pat)
			if i+l <= len(data) && string(data[i:i+l]) == string(pat) {
				out = append(out, code)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, data[i])
			i++
		}
	}
	return out, table, true
}

// codesInOrder returns a table's codes sorted ascending, so substitution
// checks longer-assigned (earlier, lower-numbered) patterns first,
// matching the reference implementation's dict-iteration order.
func codesInOrder(table map[byte][]byte) []byte {
	codes := make([]byte, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Decode reverses Encode. Any byte in substituted that falls in the
// reserved range but has no entry in table is data corruption, not a
// literal, and is rejected.
func Decode(substituted []byte, table map[byte][]byte) ([]byte, error) {
	out := make([]byte, 0, len(substituted))
	for _, b := range substituted {
		if pat, found := table[b]; found {
			out = append(out, pat...)
			continue
		}
		if b >= CodeLow {
			return nil, sorerrors.E(sorerrors.CodecFailure, "pattern: code byte 0x%02x has no table entry", b)
		}
		out = append(out, b)
	}
	return out, nil
}

// SerializeTable writes {count u8, {code u8, pat_len u8, pat_bytes}*count}.
func SerializeTable(table map[byte][]byte) []byte {
	codes := codesInOrder(table)
	out := make([]byte, 0, 1+len(codes)*2+16)
	out = append(out, byte(len(codes)))
	for _, c := range codes {
		pat := table[c]
		out = append(out, c, byte(len(pat)))
		out = append(out, pat...)
	}
	return out
}

// DeserializeTable reverses SerializeTable, returning the table and the
// number of bytes consumed.
func DeserializeTable(data []byte) (map[byte][]byte, int, error) {
	if len(data) < 1 {
		return nil, 0, sorerrors.E(sorerrors.Truncated, "pattern: table missing count")
	}
	count := int(data[0])
	pos := 1
	table := make(map[byte][]byte, count)
	for i := 0; i < count; i++ {
		if pos+2 > len(data) {
			return nil, 0, sorerrors.E(sorerrors.Truncated, "pattern: table truncated at entry %d", i)
		}
		code := data[pos]
		patLen := int(data[pos+1])
		pos += 2
		if pos+patLen > len(data) {
			return nil, 0, sorerrors.E(sorerrors.Truncated, "pattern: table entry %d pattern truncated", i)
		}
		if code < CodeLow {
			return nil, 0, sorerrors.E(sorerrors.InvalidFraming, "pattern: table code 0x%02x outside reserved range", code)
		}
		table[code] = append([]byte(nil), data[pos:pos+patLen]...)
		pos += patLen
	}
	return table, pos, nil
}
