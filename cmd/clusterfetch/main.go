package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
	"github.com/charmbracelet/fang"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	a := &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		detector: platform.NewDetector(),
	}

	err := fang.Execute(
		context.Background(),
		newRootCommand(a),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(reportError),
	)
	os.Exit(exitCode(err))
}

// reportError prints err unless the command already reported it.
func reportError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// exitCode maps a command error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ExitError carries a non-zero exit status for a failure that has already
// been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
