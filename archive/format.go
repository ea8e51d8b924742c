// Package archive implements the SOR2 container format: a magic/version
// header followed by a flat table of entries, each independently
// compressed via package selector and deduplicated by content hash.
package archive

import (
	"fmt"

	"github.com/soramame72/sor2/selector"
	"github.com/soramame72/sor2/typesniff"
)

const (
	magicCurrent = "SOR2"
	magicLegacy  = "SOR1"
	version      = 2
)

// Method re-exports package selector's method codes so callers of
// package archive rarely need to import selector directly.
type Method = selector.Method

const (
	Store            = selector.Store
	Huffman          = selector.Huffman
	BWTRLEMTFHuffman = selector.BWTRLEMTFHuffman
	BWTRLEMTFArith   = selector.BWTRLEMTFArith
	LZ               = selector.LZ
	BWTLZ            = selector.BWTLZ
	PatternLZ        = selector.PatternLZ
	DupRef           = selector.DupRef
	BWTRLEMTFPPM     = selector.BWTRLEMTFPPM
)

// FileType re-exports package typesniff's classification.
type FileType = typesniff.FileType

const (
	Compressed = typesniff.Compressed
	Text       = typesniff.Text
	Binary     = typesniff.Binary
	Unknown    = typesniff.Unknown
)

// Entry is one file's record within an archive: its name, detected type,
// chosen method, recorded original size, and either a reference to an
// earlier entry with identical content (method DupRef) or its own
// compressed payload.
type Entry struct {
	Name         string
	FileType     FileType
	Method       Method
	OriginalSize uint32
	RefIndex     uint32
	Payload      []byte
}

// EntryError records that one entry failed to decode, without aborting
// the rest of a ReadAll pass, per spec.md §7's per-entry propagation
// rule: a corrupt entry is reported against its own index and does not
// prevent the caller from reading the others.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("archive: entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
