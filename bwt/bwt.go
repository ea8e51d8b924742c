// Package bwt implements the Burrows-Wheeler Transform, forward and
// inverse, plus the fixed-size block-framing wrapper used by the
// composite pipelines in package pipeline.
package bwt

import "github.com/soramame72/sor2/internal/sais"

// BlockSize is the fixed per-block size (8 KiB) used by BlockEncode and
// BlockDecode to cap per-block working memory.
const BlockSize = 8 * 1024

// Forward computes the Burrows-Wheeler Transform of buf in place: buf is
// overwritten with the last column L, and the original rotation's index
// in the sorted rotation order is returned. The rotation sort key is
// computed via a linear-time suffix array (package internal/sais) over
// the string doubled with itself, which is equivalent to sorting all
// rotations lexicographically.
//
// Forward panics if buf is empty; callers must special-case len(buf)==0.
func Forward(buf []byte) (originalIndex int) {
	if len(buf) == 0 {
		panic("bwt: empty input")
	}
	n := len(buf)
	doubled := append(append(make([]byte, 0, 2*n), buf...), buf...)
	sa := make([]int, 2*n)
	sais.ComputeSA(doubled, sa)

	tail := doubled[n:]
	j := 0
	for _, i := range sa {
		if i >= n {
			continue
		}
		if i == 0 {
			originalIndex = j
			i = n
		}
		buf[j] = tail[i-1]
		j++
	}
	return originalIndex
}

// Inverse reconstructs the original bytes from the last column L (stored
// in buf) and the origin pointer produced by Forward, in place.
func Inverse(buf []byte, originalIndex int) {
	n := len(buf)
	if n == 0 {
		return
	}

	var cum [256]int
	for _, b := range buf {
		cum[b]++
	}
	sum := 0
	for i, c := range cum {
		cum[i] = sum
		sum += c
	}

	// lf[i] is the LF-mapping: the row that buf[i] maps back to.
	lf := make([]int, n)
	var occ [256]int
	for i, b := range buf {
		lf[i] = cum[b] + occ[b]
		occ[b]++
	}

	out := make([]byte, n)
	p := originalIndex
	for i := n - 1; i >= 0; i-- {
		out[i] = buf[p]
		p = lf[p]
	}
	copy(buf, out)
}
