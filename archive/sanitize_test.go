package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeNameRejectsTraversal(t *testing.T) {
	bad := []string{"../etc/passwd", "a/../../b", "/etc/passwd", "a/../../../x"}
	for _, name := range bad {
		if _, err := SanitizeName(name); err == nil {
			t.Errorf("SanitizeName(%q): expected error", name)
		}
	}
}

func TestSanitizeNameAcceptsNormalPaths(t *testing.T) {
	good := map[string]string{
		"a.txt":          "a.txt",
		"dir/b.txt":      filepath.Join("dir", "b.txt"),
		"dir/sub/c.txt":  filepath.Join("dir", "sub", "c.txt"),
	}
	for in, want := range good {
		got, err := SanitizeName(in)
		if err != nil {
			t.Errorf("SanitizeName(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeNameReplacesForbiddenChars(t *testing.T) {
	cases := map[string]string{
		`weird:name?.txt`:      "weird_name_.txt",
		`a<b>c|d"e.txt`:        "a_b_c_d_e.txt",
		"ctrl\x01\x1Fchar.txt": "ctrl__char.txt",
		"dir:bad/name?.txt":    filepath.Join("dir_bad", "name_.txt"),
	}
	for in, want := range cases {
		got, err := SanitizeName(in)
		if err != nil {
			t.Errorf("SanitizeName(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeNameTrimsSpacesAndDots(t *testing.T) {
	cases := map[string]string{
		" leading.txt":  "leading.txt",
		"trailing.txt ": "trailing.txt",
		"dotty.txt...":  "dotty.txt",
		"  both  ":      "both",
	}
	for in, want := range cases {
		got, err := SanitizeName(in)
		if err != nil {
			t.Errorf("SanitizeName(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractTo(t *testing.T) {
	var w Writer
	files := map[string][]byte{
		"a.txt":        []byte("hello"),
		"sub/b.txt":    []byte("world"),
	}
	for name, data := range files {
		if err := w.AddFile(name, data); err != nil {
			t.Fatalf("AddFile(%s) error: %v", name, err)
		}
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	r, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	dir := t.TempDir()
	if err := ExtractTo(r, dir); err != nil {
		t.Fatalf("ExtractTo error: %v", err)
	}
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("reading extracted %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("extracted %s mismatch", name)
		}
	}
}
