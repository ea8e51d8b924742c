// Package lzbackend wraps github.com/ulikunitz/xz/lzma's classic LZMA1
// stream format as the LZ backend referenced by method codes LZ, BWT_LZ
// and PATTERN_LZ. The classic format's header is exactly the 13 bytes
// spec.md pins: one properties byte (lc + lp*9 + pb*45), a four-byte
// little-endian dictionary size, and an eight-byte little-endian
// uncompressed size, so no custom framing code is needed beyond fixing
// the encoder's parameters. Encode takes a preset (3, 6 or 9) selecting
// the match-finder effort; dictionary size and LZMA properties stay
// fixed across presets since the header format pins them.
package lzbackend

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/soramame72/sor2/internal/sorerrors"
)

const (
	dictCap   = 1 << 23 // 8 MiB, fixed by spec regardless of preset
	lc        = 3
	lp        = 0
	pb        = 2
	headerLen = 13
)

func properties() lzma.Properties {
	return lzma.Properties{LC: lc, LP: lp, PB: pb}
}

// matcherFor maps a preset (3, 6 or 9, the levels the method selector
// tries) onto the match-finder the encoder uses. Dictionary size and
// LZMA properties are fixed by the header format, so the match-finder
// depth is the one knob presets actually have left to turn: preset 3
// uses the cheaper hash-chain matcher, presets 6 and 9 use the slower
// binary-tree matcher that searches deeper for matches.
func matcherFor(preset int) lzma.MatchAlgorithm {
	if preset <= 3 {
		return lzma.HC
	}
	return lzma.BT
}

// Encode compresses data at the given preset (3, 6 or 9), producing the
// 13-byte classic header followed by the raw LZMA1 stream.
func Encode(data []byte, preset int) ([]byte, error) {
	var buf bytes.Buffer
	props := properties()
	cfg := lzma.WriterConfig{
		Properties: &props,
		DictCap:    dictCap,
		Matcher:    matcherFor(preset),
		Size:       int64(len(data)),
	}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, sorerrors.E(sorerrors.CodecFailure, "lzbackend: open writer: %v", err)
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return nil, sorerrors.E(sorerrors.CodecFailure, "lzbackend: write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, sorerrors.E(sorerrors.CodecFailure, "lzbackend: close: %v", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(payload []byte) ([]byte, error) {
	if len(payload) < headerLen {
		return nil, sorerrors.E(sorerrors.Truncated, "lzbackend: payload shorter than the %d-byte header", headerLen)
	}
	props := properties()
	cfg := lzma.ReaderConfig{
		Properties:   &props,
		DictCap:      dictCap,
		SizeInHeader: true,
	}
	r, err := cfg.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, sorerrors.E(sorerrors.CodecFailure, "lzbackend: open reader: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, sorerrors.E(sorerrors.CodecFailure, "lzbackend: read: %v", err)
	}
	return out, nil
}
