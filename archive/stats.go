package archive

// FileStat summarises one entry's compression outcome.
type FileStat struct {
	Name             string
	Method           Method
	FileType         FileType
	OriginalSize     uint32
	CompressedSize   uint32
	DeduplicatedFrom int // -1 unless Method == DupRef
}

// Stats summarises an archive as a whole.
type Stats struct {
	TotalFiles           int
	TotalOriginalSize    uint64
	TotalCompressedSize  uint64
	PerFile              []FileStat
}

// CollectStats summarises a Writer's accumulated entries without
// serialising them.
func CollectStats(w *Writer) Stats {
	var s Stats
	s.TotalFiles = len(w.entries)
	s.PerFile = make([]FileStat, 0, len(w.entries))
	for _, e := range w.entries {
		fs := FileStat{
			Name:         e.Name,
			Method:       e.Method,
			FileType:     e.FileType,
			OriginalSize: e.OriginalSize,
			DeduplicatedFrom: -1,
		}
		s.TotalOriginalSize += uint64(e.OriginalSize)
		if e.Method == DupRef {
			fs.DeduplicatedFrom = int(e.RefIndex)
		} else {
			fs.CompressedSize = uint32(len(e.Payload))
			s.TotalCompressedSize += uint64(len(e.Payload))
		}
		s.PerFile = append(s.PerFile, fs)
	}
	return s
}
