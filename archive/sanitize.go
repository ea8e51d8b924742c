package archive

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/soramame72/sor2/internal/sorerrors"
)

// forbiddenNameChars are the characters spec.md §4.12 requires replacing
// with an underscore on each path component, in addition to the control
// characters \x00-\x1F.
const forbiddenNameChars = `:*?"<>|`

// sanitizeComponent applies spec.md §4.12's per-component rule: bytes in
// forbiddenNameChars or \x00-\x1F become '_', then leading/trailing spaces
// and dots are trimmed.
func sanitizeComponent(part string) string {
	b := []byte(part)
	for i, c := range b {
		if c < 0x20 || strings.IndexByte(forbiddenNameChars, c) >= 0 {
			b[i] = '_'
		}
	}
	return strings.Trim(string(b), " .")
}

// SanitizeName validates and cleans an entry name intended for extraction
// to disk. Per path component, it replaces the characters
// `:*?"<>|` and control characters \x00-\x1F with underscore and trims
// leading/trailing spaces and dots, cleans the result, then rejects
// absolute paths and any path that still has a ".." component after
// cleaning ("a/../b" becomes "b"), so a crafted archive cannot write
// outside the extraction directory. The returned name uses the host's
// path separators.
func SanitizeName(name string) (string, error) {
	if name == "" {
		return "", sorerrors.E(sorerrors.InvalidFraming, "archive: empty entry name")
	}
	slashed := strings.ReplaceAll(name, "\\", "/")
	parts := strings.Split(slashed, "/")
	for i, part := range parts {
		if part == "." || part == ".." {
			continue
		}
		parts[i] = sanitizeComponent(part)
	}
	clean := path.Clean(strings.Join(parts, "/"))
	if path.IsAbs(clean) {
		return "", sorerrors.E(sorerrors.InvalidFraming, "archive: entry name %q is absolute", name)
	}
	for _, part := range strings.Split(clean, "/") {
		if part == ".." {
			return "", sorerrors.E(sorerrors.InvalidFraming, "archive: entry name %q escapes extraction root", name)
		}
	}
	if clean == "" || clean == "." {
		return "", sorerrors.E(sorerrors.InvalidFraming, "archive: entry name %q sanitizes to empty", name)
	}
	return filepath.FromSlash(clean), nil
}

// ExtractTo decodes every entry in r and writes it under dir, creating
// parent directories as needed. It stops at the first error.
func ExtractTo(r *Reader, dir string) error {
	for i, e := range r.Entries {
		rel, err := SanitizeName(e.Name)
		if err != nil {
			return err
		}
		data, err := r.Decode(i)
		if err != nil {
			return err
		}
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
