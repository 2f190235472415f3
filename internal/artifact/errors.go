package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration means neither a version nor a URL is configured.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrUnsupportedPlatform means the host OS or architecture has no build.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrDownloadFailure covers network, server and write failures during download.
	ErrDownloadFailure = errors.New("download failed")
	// ErrExtractionFailure covers malformed archives and write failures during extraction.
	ErrExtractionFailure = errors.New("extraction failed")
	// ErrAlreadyExists is returned when the artifact exists and overwrite is off.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownComponent is returned for names outside the component set.
	ErrUnknownComponent = errors.New("unknown component")
)

// ResolutionError reports why no download URL could be built for a component.
type ResolutionError struct {
	Component Component
	// Reason is ErrMissingConfiguration or ErrUnsupportedPlatform.
	Reason error
	Detail string
}

func (e *ResolutionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("resolve %s: %v", e.Component, e.Reason)
	}
	return fmt.Sprintf("resolve %s: %v: %s", e.Component, e.Reason, e.Detail)
}

func (e *ResolutionError) Unwrap() error {
	return e.Reason
}
