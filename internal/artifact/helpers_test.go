package artifact

import (
	"fmt"
	"strings"
	"sync"
)

// recordingReporter captures status lines for assertions.
type recordingReporter struct {
	mu        sync.Mutex
	lines     []string
	progress  []int64
	totals    []int64
	doneCalls int
}

func (r *recordingReporter) add(kind, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, kind+": "+fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Info(format string, args ...interface{}) { r.add("info", format, args...) }
func (r *recordingReporter) Error(format string, args ...interface{}) {
	r.add("error", format, args...)
}
func (r *recordingReporter) Success(format string, args ...interface{}) {
	r.add("success", format, args...)
}
func (r *recordingReporter) InfoLabel(label, format string, args ...interface{}) {
	r.add(label, format, args...)
}

func (r *recordingReporter) Progress(done, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, done)
	r.totals = append(r.totals, total)
}

func (r *recordingReporter) ProgressDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doneCalls++
}

// linesWith returns the captured lines starting with kind.
func (r *recordingReporter) linesWith(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.lines {
		if strings.HasPrefix(l, kind+": ") {
			out = append(out, l)
		}
	}
	return out
}

func (r *recordingReporter) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
