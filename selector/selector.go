// Package selector implements the method-selection engine: for a given
// file's content and detected type, it trial-compresses a gated set of
// candidate methods and keeps the smallest, falling back to STORE when
// nothing beats the original size. Every file type tries STORE and all
// three LZ presets; TEXT additionally tries the BWT/Huffman/arithmetic/
// PPM/pattern composites.
package selector

import (
	"github.com/soramame72/sor2/huffman"
	"github.com/soramame72/sor2/internal/sorerrors"
	"github.com/soramame72/sor2/lzbackend"
	"github.com/soramame72/sor2/pipeline"
	"github.com/soramame72/sor2/typesniff"
)

// Method identifies which codec (or codec pipeline) produced an entry's
// payload.
type Method uint8

const (
	Store Method = iota
	Huffman
	BWTRLEMTFHuffman
	BWTRLEMTFArith
	LZ
	BWTLZ
	PatternLZ
	DupRef
	BWTRLEMTFPPM
)

func (m Method) String() string {
	switch m {
	case Store:
		return "STORE"
	case Huffman:
		return "HUFFMAN"
	case BWTRLEMTFHuffman:
		return "BWT_RLE_MTF_HUFFMAN"
	case BWTRLEMTFArith:
		return "BWT_RLE_MTF_ARITHMETIC"
	case LZ:
		return "LZ"
	case BWTLZ:
		return "BWT_LZ"
	case PatternLZ:
		return "PATTERN_LZ"
	case DupRef:
		return "DUP_REF"
	case BWTRLEMTFPPM:
		return "BWT_RLE_MTF_PPM"
	default:
		return "UNKNOWN"
	}
}

type candidate struct {
	method  Method
	payload []byte
}

// lzPresets are the three effort levels the selector trials for every
// LZ candidate, in the tie-break order spec.md §4.11 lists them.
var lzPresets = [3]int{3, 6, 9}

// Select trial-compresses the gated candidate set for ft and returns the
// method and payload with the smallest encoded size, discarding losing
// candidates' payloads as soon as a smaller one is found rather than
// retaining the whole set for the lifetime of the call.
func Select(ft typesniff.FileType, data []byte) (Method, []byte, error) {
	if len(data) == 0 {
		return Store, nil, nil
	}

	best := candidate{method: Store, payload: data}
	consider := func(c candidate, err error) error {
		if err != nil {
			return err
		}
		if c.payload == nil {
			return nil
		}
		if len(c.payload) < len(best.payload) {
			best = c
		}
		return nil
	}

	// Both branches try every LZ preset: STORE ∪ {LZ(3), LZ(6), LZ(9)} is
	// the base candidate set for every file type.
	for _, preset := range lzPresets {
		lzPayload, err := lzbackend.Encode(data, preset)
		if err := consider(candidate{LZ, lzPayload}, err); err != nil {
			return 0, nil, err
		}
	}

	if ft == typesniff.Text {
		if err := consider(candidate{BWTRLEMTFHuffman, pipeline.BWTRLEMTFHuffman(data)}, nil); err != nil {
			return 0, nil, err
		}
		if err := consider(candidate{BWTRLEMTFArith, pipeline.BWTRLEMTFArith(data)}, nil); err != nil {
			return 0, nil, err
		}
		ppmPayload, err := pipeline.BWTRLEMTFPPM(data)
		if err := consider(candidate{BWTRLEMTFPPM, ppmPayload}, err); err != nil {
			return 0, nil, err
		}
		bwtLZPayload, err := pipeline.BWTLZ(data)
		if err := consider(candidate{BWTLZ, bwtLZPayload}, err); err != nil {
			return 0, nil, err
		}
		patPayload, ok, err := pipeline.PatternLZ(data)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			if err := consider(candidate{PatternLZ, patPayload}, nil); err != nil {
				return 0, nil, err
			}
		}
		if err := consider(candidate{Huffman, huffman.Encode(data)}, nil); err != nil {
			return 0, nil, err
		}
	}

	if len(best.payload) >= len(data) {
		return Store, data, nil
	}
	return best.method, best.payload, nil
}

// Decode reverses whichever method Select chose. originalSize is the
// entry's recorded original size.
func Decode(method Method, payload []byte, originalSize int) ([]byte, error) {
	switch method {
	case Store:
		if len(payload) != originalSize {
			return nil, sorerrors.E(sorerrors.SizeMismatch, "selector: STORE payload is %d bytes, want %d", len(payload), originalSize)
		}
		return payload, nil
	case Huffman:
		return huffman.Decode(payload, originalSize)
	case BWTRLEMTFHuffman:
		return pipeline.DecodeBWTRLEMTFHuffman(payload, originalSize)
	case BWTRLEMTFArith:
		return pipeline.DecodeBWTRLEMTFArith(payload, originalSize)
	case LZ:
		return lzbackend.Decode(payload)
	case BWTLZ:
		return pipeline.DecodeBWTLZ(payload, originalSize)
	case PatternLZ:
		return pipeline.DecodePatternLZ(payload, originalSize)
	case BWTRLEMTFPPM:
		return pipeline.DecodeBWTRLEMTFPPM(payload, originalSize)
	default:
		return nil, sorerrors.E(sorerrors.UnknownMethod, "selector: unknown method code %d", method)
	}
}
