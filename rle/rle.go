// Package rle implements the byte-pair run-length codec used as a
// preprocessing stage ahead of BWT/MTF composite pipelines.
package rle

import "github.com/soramame72/sor2/internal/sorerrors"

// Encode emits (value, count) pairs with count in 1..255, splitting runs
// longer than 255. Empty input yields empty output.
func Encode(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, 0, len(data))
	prev := data[0]
	count := byte(1)
	for _, b := range data[1:] {
		if b == prev && count < 255 {
			count++
			continue
		}
		out = append(out, prev, count)
		prev = b
		count = 1
	}
	out = append(out, prev, count)
	return out
}

// Decode reverses Encode. It returns an InvalidFraming error if data has
// odd length.
func Decode(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "rle: odd-length input (%d bytes)", len(data))
	}
	if len(data) == 0 {
		return nil, nil
	}
	var total int
	for i := 1; i < len(data); i += 2 {
		total += int(data[i])
	}
	out := make([]byte, 0, total)
	for i := 0; i < len(data); i += 2 {
		v, n := data[i], data[i+1]
		for j := byte(0); j < n; j++ {
			out = append(out, v)
		}
	}
	return out, nil
}
