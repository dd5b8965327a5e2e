package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

var levelDesc = []string{"PANIC", "FATAL", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

// PlainFormatter writes "LEVEL timestamp message key=value..." lines.
type PlainFormatter struct {
	TimestampFormat string
}

func (f PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	format := f.TimestampFormat
	if format == "" {
		format = timestampFormat
	}
	var b strings.Builder
	level := strings.ToUpper(entry.Level.String())
	if int(entry.Level) < len(levelDesc) {
		level = levelDesc[entry.Level]
	}
	fmt.Fprintf(&b, "%s %s %s", level, entry.Time.Format(format), entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// New builds a logger at the given level. When logFile is set, output goes to
// both stderr and the file; the returned closer releases the file.
func New(level, logFile string) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(PlainFormatter{TimestampFormat: timestampFormat})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if logFile == "" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", logFile, err)
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return logger, f, nil
}

// Discard returns a logger that drops everything. Used by tests and library
// callers that pass no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
