package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds a whole download, including the body transfer.
	DefaultTimeout = 30 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "clusterfetch/1.0"
	// ChunkSize is the read size of both the download and extraction loops.
	ChunkSize = 4096
)

// Downloader streams a URL to a local file while reporting progress.
//
// A failed transfer leaves whatever was already written at the target path;
// callers decide whether to retry.
type Downloader struct {
	client    *http.Client
	userAgent string
	reporter  Reporter
	logger    Logger
}

// NewDownloader creates a downloader. A nil client gets a default client
// with DefaultTimeout; nil reporter and logger discard their output.
func NewDownloader(client *http.Client, reporter Reporter, logger Logger) *Downloader {
	if client == nil {
		client = &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub release assets redirect to object storage
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	if reporter == nil {
		reporter = noopReporter{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
		reporter:  reporter,
		logger:    logger,
	}
}

// Download fetches url into targetDir/fileName and returns the absolute path
// of the written file. name labels the status lines.
func (d *Downloader) Download(ctx context.Context, name, url, targetDir, fileName string) (string, error) {
	d.reporter.InfoLabel("Download", "Downloading %s from %s", name, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrDownloadFailure, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: execute request: %w", ErrDownloadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status code: %d", ErrDownloadFailure, resp.StatusCode)
	}

	total := resp.ContentLength
	d.logger.Debug("download started", "url", url, "content_length", total)

	targetPath, err := filepath.Abs(filepath.Join(targetDir, fileName))
	if err != nil {
		return "", fmt.Errorf("%w: resolve target path: %w", ErrDownloadFailure, err)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", fmt.Errorf("%w: create dest dir: %w", ErrDownloadFailure, err)
	}

	out, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", ErrDownloadFailure, err)
	}

	written, copyErr := d.copyWithProgress(out, resp.Body, total)
	d.reporter.ProgressDone()
	closeErr := out.Close()

	if copyErr != nil {
		d.logger.Warn("partial download left on disk", "path", targetPath, "bytes", written)
		return "", fmt.Errorf("%w: copy response body: %w", ErrDownloadFailure, copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("%w: close file: %w", ErrDownloadFailure, closeErr)
	}
	if total > 0 && written != total {
		return "", fmt.Errorf("%w: short body: got %d of %d bytes", ErrDownloadFailure, written, total)
	}

	d.logger.Debug("download finished", "path", targetPath, "bytes", written)
	d.reporter.Success("Download complete for %s!", name)

	return targetPath, nil
}

// copyWithProgress copies src to dst in ChunkSize reads, reporting progress
// after every chunk.
func (d *Downloader) copyWithProgress(dst io.Writer, src io.Reader, total int64) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			d.reporter.Progress(written, total)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
