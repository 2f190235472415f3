package testutil

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Entry is one archive member. Names ending in "/" or with Dir set are
// written as directory entries. A non-empty Link makes a tar symlink, and
// Type overrides the tar type flag entirely.
type Entry struct {
	Name string
	Body string
	Mode int64
	Dir  bool
	Link string
	Type byte
}

func (e Entry) mode() int64 {
	if e.Mode != 0 {
		return e.Mode
	}
	if e.Dir {
		return 0755
	}
	return 0644
}

// TarGz builds a gzip-compressed tar archive in memory.
func TarGz(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.Name,
			Mode:     e.mode(),
			Size:     int64(len(e.Body)),
			Typeflag: tar.TypeReg,
		}
		switch {
		case e.Dir:
			header.Typeflag = tar.TypeDir
			header.Size = 0
		case e.Link != "":
			header.Typeflag = tar.TypeSymlink
			header.Linkname = e.Link
			header.Size = 0
		case e.Type != 0:
			header.Typeflag = e.Type
			header.Size = 0
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.Name, err)
		}
		if header.Size == 0 {
			continue
		}
		if _, err := tarWriter.Write([]byte(e.Body)); err != nil {
			t.Fatalf("failed to write content for %s: %v", e.Name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}

	return buf.Bytes()
}

// Zip builds a zip archive in memory.
func Zip(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, e := range entries {
		name := e.Name
		if e.Dir && name[len(name)-1] != '/' {
			name += "/"
		}

		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		header.SetMode(os.FileMode(e.mode()))
		if e.Dir {
			header.SetMode(os.ModeDir | os.FileMode(e.mode()))
			header.Method = zip.Store
		}

		w, err := zipWriter.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if e.Dir {
			continue
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}

	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
