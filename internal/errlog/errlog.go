// Package errlog writes the durable, append-only log of fetch failures.
package errlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// TimeFormat is the timestamp layout of each entry.
const TimeFormat = "2006-01-02 15:04:05,000"

// lineFormatter renders "<time>:<LEVEL>:<message>".
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := entry.Time.Format(TimeFormat) + ":" + strings.ToUpper(entry.Level.String()) + ":" + entry.Message + "\n"
	return []byte(line), nil
}

// Log appends one timestamped line per failure. It is safe for concurrent
// use; a nil *Log discards everything.
type Log struct {
	logger *logrus.Logger
	closer io.Closer
	count  atomic.Int64
	now    func() time.Time
}

// Open opens path for appending, creating it if needed. An empty path
// returns a Log that only counts entries.
func Open(path string) (*Log, error) {
	if path == "" {
		return New(io.Discard), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening error log %s: %w", path, err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New returns a Log writing to w.
func New(w io.Writer) *Log {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(logrus.ErrorLevel)
	return &Log{logger: logger, now: time.Now}
}

// Errorf records one ERROR entry.
func (l *Log) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.count.Add(1)
	l.logger.WithTime(l.now()).Errorf(format, args...)
}

// Count returns the number of entries written so far.
func (l *Log) Count() int {
	if l == nil {
		return 0
	}
	return int(l.count.Load())
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
