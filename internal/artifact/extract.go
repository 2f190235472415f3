package artifact

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Extractor unpacks an archive into a directory.
//
// Directory entries are skipped, so no empty directories are created; parent
// directories of file entries are created as needed. Tar symlinks are
// recreated when their target stays inside the destination; any other
// special entry fails the extraction. Extraction stops at the first error
// without rolling back files already written.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// NewExtractor returns the extractor for an archive kind.
func NewExtractor(kind ArchiveKind, reporter Reporter, logger Logger) (Extractor, error) {
	if reporter == nil {
		reporter = noopReporter{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	w := entryWriter{reporter: reporter, logger: logger}

	switch kind {
	case ArchiveTarGz:
		return &TarGzExtractor{w: w}, nil
	case ArchiveZip:
		return &ZipExtractor{w: w}, nil
	default:
		return nil, fmt.Errorf("%w: no extractor for archive kind %s", ErrExtractionFailure, kind)
	}
}

// TarGzExtractor extracts gzip-compressed tar archives.
type TarGzExtractor struct {
	w entryWriter
}

// Extract extracts a .tar.gz archive into destDir.
func (e *TarGzExtractor) Extract(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %w", ErrExtractionFailure, err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("%w: create gzip reader: %w", ErrExtractionFailure, err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read tar header: %w", ErrExtractionFailure, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeXGlobalHeader:
			continue
		case tar.TypeReg:
			if err := e.w.write(destDir, header.Name, os.FileMode(header.Mode).Perm(), tarReader); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := e.w.symlink(destDir, header.Name, header.Linkname); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported entry type %q for %s", ErrExtractionFailure, header.Typeflag, header.Name)
		}
	}
}

// ZipExtractor extracts zip archives.
type ZipExtractor struct {
	w entryWriter
}

// Extract extracts a .zip archive into destDir, entries in archive order.
func (e *ZipExtractor) Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %w", ErrExtractionFailure, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}

		if err := e.extractFile(file, destDir); err != nil {
			return err
		}
	}

	return nil
}

func (e *ZipExtractor) extractFile(file *zip.File, destDir string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %w", ErrExtractionFailure, file.Name, err)
	}
	defer rc.Close()

	return e.w.write(destDir, file.Name, file.Mode().Perm(), rc)
}

// entryWriter writes single archive entries to disk.
type entryWriter struct {
	reporter Reporter
	logger   Logger
}

func (w entryWriter) write(destDir, name string, mode os.FileMode, r io.Reader) error {
	target, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: create parent dir for %s: %w", ErrExtractionFailure, target, err)
	}

	if mode == 0 {
		mode = 0644
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: create file %s: %w", ErrExtractionFailure, target, err)
	}

	w.reporter.InfoLabel("Extracting", "Extracting %s", target)

	if _, err := io.CopyBuffer(onlyWriter{outFile}, r, make([]byte, ChunkSize)); err != nil {
		outFile.Close()
		return fmt.Errorf("%w: write file %s: %w", ErrExtractionFailure, target, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("%w: close file %s: %w", ErrExtractionFailure, target, err)
	}

	return nil
}

// symlink creates name as a link to linkname. The link must resolve inside
// destDir; an existing file at name is replaced.
func (w entryWriter) symlink(destDir, name, linkname string) error {
	target, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}

	if linkname == "" || filepath.IsAbs(linkname) {
		return fmt.Errorf("%w: illegal link target: %s -> %s", ErrExtractionFailure, name, linkname)
	}
	if _, err := safeJoin(destDir, filepath.Join(filepath.Dir(name), linkname)); err != nil {
		return fmt.Errorf("%w: illegal link target: %s -> %s", ErrExtractionFailure, name, linkname)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: create parent dir for %s: %w", ErrExtractionFailure, target, err)
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: replace %s: %w", ErrExtractionFailure, target, err)
	}

	w.reporter.InfoLabel("Extracting", "Extracting %s", target)

	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("%w: create symlink %s: %w", ErrExtractionFailure, target, err)
	}
	return nil
}

// safeJoin joins an archive entry name onto destDir and rejects names that
// would resolve outside of it.
func safeJoin(destDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: illegal file path: %s", ErrExtractionFailure, name)
	}

	cleanDest := filepath.Clean(destDir)
	target := filepath.Join(cleanDest, name)

	if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: illegal file path: %s", ErrExtractionFailure, name)
	}

	return target, nil
}

// onlyWriter hides *os.File's ReadFrom so io.CopyBuffer uses the fixed-size
// buffer.
type onlyWriter struct {
	io.Writer
}
