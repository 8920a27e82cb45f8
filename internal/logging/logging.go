// Package logging builds the application logger: a rotating log file,
// optionally teed to stdout and to the in-app log view.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger writing to a size-rotated file at path.
// When toStdout is set, lines also go to stdout; extra writers (such as
// the in-app log view) are teed in as well. An empty path skips the file.
func NewLogger(path string, toStdout bool, extra ...io.Writer) *log.Logger {
	writers := make([]io.Writer, 0, 2+len(extra))
	if path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		})
	}
	if toStdout {
		writers = append(writers, os.Stdout)
	}
	writers = append(writers, extra...)
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmsgprefix)
}

// LineWriter is an io.Writer that forwards whole lines to a channel
// without ever blocking the logger: when the channel is full, lines are
// dropped.
type LineWriter struct {
	mu  sync.Mutex
	buf strings.Builder
	ch  chan string
}

// NewLineWriter creates a LineWriter buffering up to capacity lines.
func NewLineWriter(capacity int) *LineWriter {
	return &LineWriter{ch: make(chan string, capacity)}
}

// Lines returns the channel carrying completed log lines.
func (w *LineWriter) Lines() <-chan string {
	return w.ch
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range p {
		if b == '\n' {
			select {
			case w.ch <- w.buf.String():
			default: // drop rather than stall logging
			}
			w.buf.Reset()
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}
