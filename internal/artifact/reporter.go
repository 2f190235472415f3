package artifact

// Reporter receives the human-readable status lines of an install.
// console.Writer is the terminal implementation.
type Reporter interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Success(format string, args ...interface{})
	// InfoLabel writes an info line prefixed with a short label such as
	// "Download" or "Extracting".
	InfoLabel(label, format string, args ...interface{})
	// Progress redraws the single in-place progress line. total <= 0 means
	// the size is unknown.
	Progress(done, total int64)
	// ProgressDone terminates the progress line, if one is being drawn.
	ProgressDone()
}

type noopReporter struct{}

func (noopReporter) Info(format string, args ...interface{})             {}
func (noopReporter) Error(format string, args ...interface{})            {}
func (noopReporter) Success(format string, args ...interface{})          {}
func (noopReporter) InfoLabel(label, format string, args ...interface{}) {}
func (noopReporter) Progress(done, total int64)                          {}
func (noopReporter) ProgressDone()                                       {}
