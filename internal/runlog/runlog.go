// Package runlog writes the append-only run log: one line per significant
// action, a literal separator line between per-host sections, with console
// echo unless the run is quiet.
package runlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Separator delimits per-host sections in the log file.
const Separator = "--------------------------------------------------"

const timeLayout = "2006-01-02 15:04:05"

// Logger appends timestamped lines to a file and echoes them to stdout.
// Writes are mutex-serialized so a concurrent runner can share one Logger.
type Logger struct {
	mu    sync.Mutex
	file  *os.File // nil when no file is configured
	quiet bool
	now   func() time.Time
}

// New opens (or creates) the log file for appending. An empty path disables
// the file sink and keeps console echo only.
func New(path string, quiet bool) (*Logger, error) {
	l := &Logger{quiet: quiet, now: time.Now}
	if path == "" {
		return l, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening run log %s: %w", path, err)
	}
	l.file = f
	return l, nil
}

// Line emits one timestamped log line.
func (l *Logger) Line(format string, args ...any) {
	l.write(fmt.Sprintf("%s %s", l.now().Format(timeLayout), fmt.Sprintf(format, args...)))
}

// HostSeparator emits the section delimiter.
func (l *Logger) HostSeparator() {
	l.write(Separator)
}

func (l *Logger) write(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
	if !l.quiet {
		fmt.Println(line)
	}
}

// Close flushes and closes the file sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
