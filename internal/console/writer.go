// Package console renders install status lines for a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"
)

// Palette shared by every status category.
const (
	ColorInfo    = lipgloss.Color("#3B82F6")
	ColorError   = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorLabel   = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
)

// Writer writes styled status lines and a single in-place progress line.
// Styles degrade to plain text when out is not a terminal.
type Writer struct {
	mu  sync.Mutex
	out io.Writer

	infoStyle     lipgloss.Style
	errorStyle    lipgloss.Style
	successStyle  lipgloss.Style
	labelStyle    lipgloss.Style
	progressStyle lipgloss.Style

	// progress line state
	drawing     bool
	lastPercent int64
	lastWidth   int
}

// New creates a Writer on out.
func New(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	return &Writer{
		out:           out,
		infoStyle:     r.NewStyle().Foreground(ColorInfo),
		errorStyle:    r.NewStyle().Bold(true).Foreground(ColorError),
		successStyle:  r.NewStyle().Foreground(ColorSuccess),
		labelStyle:    r.NewStyle().Bold(true).Foreground(ColorLabel),
		progressStyle: r.NewStyle().Foreground(ColorMuted),
		lastPercent:   -1,
	}
}

// Info writes an informational line.
func (w *Writer) Info(format string, args ...interface{}) {
	w.line(w.infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Error writes an error line.
func (w *Writer) Error(format string, args ...interface{}) {
	w.line(w.errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Success writes a success line.
func (w *Writer) Success(format string, args ...interface{}) {
	w.line(w.successStyle.Render(fmt.Sprintf(format, args...)))
}

// InfoLabel writes an info line prefixed with "[label]".
func (w *Writer) InfoLabel(label, format string, args ...interface{}) {
	w.line(w.labelStyle.Render("["+label+"]") + " " + fmt.Sprintf(format, args...))
}

// Progress redraws the progress line. A known total renders a percentage
// and only redraws when it changes; an unknown total (<= 0) renders the
// byte count.
func (w *Writer) Progress(done, total int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var text string
	if total > 0 {
		percent := done * 100 / total
		if percent > 100 {
			percent = 100
		}
		if w.drawing && percent == w.lastPercent {
			return
		}
		w.lastPercent = percent
		text = fmt.Sprintf("Downloading: %d%%", percent)
	} else {
		text = "Downloading: " + units.HumanSize(float64(done))
	}

	pad := ""
	if n := w.lastWidth - len(text); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	w.lastWidth = len(text)
	w.drawing = true

	fmt.Fprint(w.out, "\r"+w.progressStyle.Render(text)+pad)
}

// ProgressDone ends the progress line, if one is being drawn.
func (w *Writer) ProgressDone() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.endProgress()
}

func (w *Writer) line(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.endProgress()
	fmt.Fprintln(w.out, s)
}

func (w *Writer) endProgress() {
	if !w.drawing {
		return
	}
	fmt.Fprintln(w.out)
	w.drawing = false
	w.lastPercent = -1
	w.lastWidth = 0
}
