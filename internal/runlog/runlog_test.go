package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLinesAndSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := New(path, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.now = func() time.Time { return time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC) }

	l.HostSeparator()
	l.Line("WEB01: processing %s log", "Security")
	l.Line("WEB01: reboot issued")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != Separator {
		t.Errorf("first line = %q, want separator", lines[0])
	}
	if lines[1] != "2026-08-31 14:00:00 WEB01: processing Security log" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < 2; i++ {
		l, err := New(path, true)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		l.Line("run %d", i)
		if err := l.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "run 0") || !strings.Contains(string(data), "run 1") {
		t.Errorf("log not appended across runs: %q", data)
	}
}

func TestNoFileSink(t *testing.T) {
	l, err := New("", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Line("goes nowhere")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := New(path, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Line("worker %d line %d", n, j)
			}
		}(i)
	}
	wg.Wait()
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 400 {
		t.Errorf("expected 400 lines, got %d", len(lines))
	}
}
