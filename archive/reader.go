package archive

import (
	"encoding/binary"

	"github.com/soramame72/sor2/internal/sorerrors"
	"github.com/soramame72/sor2/selector"
)

// Reader holds a parsed SOR2 archive's entry table. Use Open to parse
// from a byte slice, and Decode to materialise a given entry's content.
type Reader struct {
	Entries []Entry
}

// Open parses the SOR2 container header and entry table out of data. It
// does not decode any entry's payload; call Decode for that.
func Open(data []byte) (*Reader, error) {
	if len(data) < 4 {
		return nil, sorerrors.E(sorerrors.Truncated, "archive: header truncated")
	}
	magic := string(data[:4])
	if magic == magicLegacy {
		return nil, sorerrors.E(sorerrors.UnsupportedVersion, "archive: legacy SOR1 archives are not supported")
	}
	if magic != magicCurrent {
		return nil, sorerrors.E(sorerrors.InvalidMagic, "archive: unrecognised magic %q", magic)
	}
	if len(data) < 12 {
		return nil, sorerrors.E(sorerrors.Truncated, "archive: header truncated")
	}
	ver := binary.LittleEndian.Uint32(data[4:8])
	if ver != version {
		return nil, sorerrors.E(sorerrors.UnsupportedVersion, "archive: unsupported version %d", ver)
	}
	count := binary.LittleEndian.Uint32(data[8:12])
	pos := 12

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, next, err := readEntry(data, pos)
		if err != nil {
			return nil, err.(*sorerrors.Error).WithEntry(int(i))
		}
		entries = append(entries, e)
		pos = next
	}
	return &Reader{Entries: entries}, nil
}

func readEntry(data []byte, pos int) (Entry, int, error) {
	if pos+2 > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry name_len truncated")
	}
	nameLen := int(binary.LittleEndian.Uint16(data[pos:]))
	pos += 2
	if pos+nameLen > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry name truncated")
	}
	name := string(data[pos : pos+nameLen])
	pos += nameLen

	if pos+1 > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry file_type truncated")
	}
	ft := FileType(data[pos])
	pos++

	if pos+1 > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry method_code truncated")
	}
	method := Method(data[pos])
	pos++

	if pos+4 > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry original_size truncated")
	}
	origSize := binary.LittleEndian.Uint32(data[pos:])
	pos += 4

	e := Entry{Name: name, FileType: ft, Method: method, OriginalSize: origSize}

	if method == DupRef {
		if pos+4 > len(data) {
			return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry ref_index truncated")
		}
		e.RefIndex = binary.LittleEndian.Uint32(data[pos:])
		pos += 4
		return e, pos, nil
	}

	if pos+4 > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry payload_len truncated")
	}
	payloadLen := binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	if pos+int(payloadLen) > len(data) {
		return Entry{}, 0, sorerrors.E(sorerrors.Truncated, "archive: entry payload truncated")
	}
	e.Payload = data[pos : pos+int(payloadLen)]
	pos += int(payloadLen)
	return e, pos, nil
}

// Decode materialises the original bytes of entry i, following a DupRef
// chain (strictly backward, at most one hop) if necessary.
func (r *Reader) Decode(i int) ([]byte, error) {
	if i < 0 || i >= len(r.Entries) {
		return nil, sorerrors.E(sorerrors.InvalidFraming, "archive: entry index %d out of range", i).WithEntry(i)
	}
	e := r.Entries[i]

	if e.Method == DupRef {
		if int(e.RefIndex) >= i {
			return nil, sorerrors.E(sorerrors.InvalidDedupReference, "archive: entry %d references non-prior entry %d", i, e.RefIndex).WithEntry(i)
		}
		ref := r.Entries[e.RefIndex]
		if ref.Method == DupRef {
			return nil, sorerrors.E(sorerrors.InvalidDedupReference, "archive: entry %d references another DUP_REF entry %d", i, e.RefIndex).WithEntry(i)
		}
		out, err := r.Decode(int(e.RefIndex))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != e.OriginalSize {
			return nil, sorerrors.E(sorerrors.SizeMismatch, "archive: entry %d dedup reference size %d, want %d", i, len(out), e.OriginalSize).WithEntry(i)
		}
		return out, nil
	}

	out, err := selector.Decode(e.Method, e.Payload, int(e.OriginalSize))
	if err != nil {
		if se, ok := err.(*sorerrors.Error); ok {
			return nil, se.WithEntry(i)
		}
		return nil, err
	}
	if uint32(len(out)) != e.OriginalSize {
		return nil, sorerrors.E(sorerrors.SizeMismatch, "archive: entry %d decoded %d bytes, want %d", i, len(out), e.OriginalSize).WithEntry(i)
	}
	return out, nil
}

// ReadAll decodes every entry in r, in order. A per-entry decode failure
// is recorded in the returned []EntryError rather than aborting the
// pass: entries that fail keep their metadata (Name, FileType, Method,
// OriginalSize) with a nil Payload in the returned slice, so a caller can
// still see which file failed and why without losing the rest.
func (r *Reader) ReadAll() ([]Entry, []EntryError) {
	out := make([]Entry, len(r.Entries))
	var errs []EntryError
	for i, e := range r.Entries {
		data, err := r.Decode(i)
		if err != nil {
			errs = append(errs, EntryError{Index: i, Err: err})
			e.Payload = nil
			out[i] = e
			continue
		}
		e.Payload = data
		out[i] = e
	}
	return out, errs
}
