package archive

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/soramame72/sor2/internal/sorerrors"
	"github.com/soramame72/sor2/selector"
	"github.com/soramame72/sor2/typesniff"
)

// File is one (name, content) pair supplied to WriteAll.
type File struct {
	Name string
	Data []byte
}

// Writer accumulates files and serialises them into the SOR2 container
// format. The zero value, with Detector left nil, uses
// typesniff.HeuristicDetector.
type Writer struct {
	Detector typesniff.Detector

	entries  []Entry
	hashes   map[[sha256.Size]byte]int
}

// AddFile classifies and compresses data, appending it as a new entry.
// If data's content hash matches an earlier entry, this entry is stored
// as a DupRef instead of being re-compressed.
func (w *Writer) AddFile(name string, data []byte) error {
	if w.hashes == nil {
		w.hashes = make(map[[sha256.Size]byte]int)
	}
	detector := w.Detector
	if detector == nil {
		detector = typesniff.HeuristicDetector{}
	}

	ft := detector.Detect(name, data)
	sum := sha256.Sum256(data)

	if idx, ok := w.hashes[sum]; ok {
		w.entries = append(w.entries, Entry{
			Name:         name,
			FileType:     ft,
			Method:       DupRef,
			OriginalSize: uint32(len(data)),
			RefIndex:     uint32(idx),
		})
		return nil
	}

	method, payload, err := selector.Select(ft, data)
	if err != nil {
		return err
	}

	w.hashes[sum] = len(w.entries)
	w.entries = append(w.entries, Entry{
		Name:         name,
		FileType:     ft,
		Method:       method,
		OriginalSize: uint32(len(data)),
		Payload:      payload,
	})
	return nil
}

// WriteAll calls AddFile for each file in order, checking ctx for
// cancellation between files. Per spec.md §5, cancellation is
// cooperative at file boundaries only: a file already being compressed
// when ctx is cancelled still finishes before WriteAll notices.
func (w *Writer) WriteAll(ctx context.Context, files []File) error {
	for _, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := w.AddFile(f.Name, f.Data); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the entries added so far, in archive order.
func (w *Writer) Entries() []Entry {
	return w.entries
}

// WriteTo serialises the accumulated entries to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	var written int64
	write := func(p []byte) error {
		n, err := out.Write(p)
		written += int64(n)
		return err
	}

	if err := write([]byte(magicCurrent)); err != nil {
		return written, err
	}
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], version)
	if err := write(tmp[:]); err != nil {
		return written, err
	}
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(w.entries)))
	if err := write(tmp[:]); err != nil {
		return written, err
	}

	for _, e := range w.entries {
		if err := writeEntry(write, e); err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeEntry(write func([]byte) error, e Entry) error {
	if len(e.Name) > 0xFFFF {
		return sorerrors.E(sorerrors.InvalidFraming, "archive: name %q exceeds 65535 bytes", e.Name)
	}
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(len(e.Name)))
	if err := write(u16[:]); err != nil {
		return err
	}
	if err := write([]byte(e.Name)); err != nil {
		return err
	}
	if err := write([]byte{byte(e.FileType)}); err != nil {
		return err
	}
	if err := write([]byte{byte(e.Method)}); err != nil {
		return err
	}
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], e.OriginalSize)
	if err := write(u32[:]); err != nil {
		return err
	}

	if e.Method == DupRef {
		binary.LittleEndian.PutUint32(u32[:], e.RefIndex)
		return write(u32[:])
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(e.Payload)))
	if err := write(u32[:]); err != nil {
		return err
	}
	return write(e.Payload)
}
