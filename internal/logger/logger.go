// Package logger provides process-wide logging for the codeg CLI.
// Debug, Info and Warn output only appears with --verbose; errors are
// always written. Messages go to stderr unless redirected with SetOutput.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.RWMutex
	verbose bool
	log     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&lineFormatter{})
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// lineFormatter renders "[LEVEL] message key=value ...".
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(strings.ToUpper(levelName(entry.Level)))
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "warn"
	}
	return l.String()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.ErrorLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(w)
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]any) *logrus.Entry {
	return log.WithFields(logrus.Fields(fields))
}

// Debug logs a message in verbose mode.
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

// Info logs a message in verbose mode.
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Warn logs a warning in verbose mode.
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Error logs an error. It is always written.
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

// Section prints a section header in verbose mode.
func Section(name string) {
	if !IsVerbose() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(log.Out, "\n=== %s ===\n", name)
}
