package core

import (
	"fmt"
	"io"
	"sync"
)

// BuildLog is the sink for the run's human-readable transcript. Operators read
// (and parse) these lines from the host build's console output.
type BuildLog interface {
	// Info writes an informational line to the build transcript.
	Info(format string, args ...interface{})
	// Error writes an error line to the build transcript.
	Error(format string, args ...interface{})
}

// WriterBuildLog writes plain transcript lines to an io.Writer. This is the
// implementation used for CI console output.
type WriterBuildLog struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewWriterBuildLog creates a WriterBuildLog. If errOut is nil, error lines go
// to out as well.
func NewWriterBuildLog(out, errOut io.Writer) *WriterBuildLog {
	if errOut == nil {
		errOut = out
	}
	return &WriterBuildLog{out: out, err: errOut}
}

// Info implements BuildLog
func (l *WriterBuildLog) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Error implements BuildLog
func (l *WriterBuildLog) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.err, format+"\n", args...)
}

// SilentBuildLog discards all output. Default for tests.
type SilentBuildLog struct{}

// Info implements BuildLog
func (SilentBuildLog) Info(string, ...interface{}) {}

// Error implements BuildLog
func (SilentBuildLog) Error(string, ...interface{}) {}
