package errlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestErrorfFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 42_000_000, time.UTC) }

	l.Errorf("Error fetching: %s - %s", "http://x.com/?a=//evil", "timeout: i/o timeout")

	want := "2024-03-09 14:05:07,042:ERROR:Error fetching: http://x.com/?a=//evil - timeout: i/o timeout\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if l.Count() != 1 {
		t.Errorf("Count() = %d, want 1", l.Count())
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_log.txt")
	if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Errorf("first")
	l.Errorf("second")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != "existing" {
		t.Fatalf("unexpected log contents:\n%s", data)
	}
	if !strings.HasSuffix(lines[2], ":ERROR:second") {
		t.Errorf("last line = %q", lines[2])
	}
}

func TestConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Errorf("boom")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 || l.Count() != 50 {
		t.Errorf("got %d lines, count %d, want 50", len(lines), l.Count())
	}
}

func TestNilAndEmptyPath(t *testing.T) {
	var l *Log
	l.Errorf("ignored")
	if l.Count() != 0 || l.Close() != nil {
		t.Error("nil log should be a no-op")
	}

	d, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	d.Errorf("counted")
	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}
}
