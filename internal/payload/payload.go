package payload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Defaults is the built-in payload set used when no payload file is given.
var Defaults = []string{
	"//example.com@google.com/%2f..",
	"///google.com/%2f..",
	"///example.com@google.com/%2f..",
	"////google.com/%2f..",
	"https://google.com/%2f..",
}

// Load returns the payloads to fuzz with. If path is empty, a copy of
// Defaults is returned. Entries are trimmed and blank lines skipped;
// duplicates are kept.
func Load(path string) ([]string, error) {
	if path == "" {
		out := make([]string, len(Defaults))
		copy(out, Defaults)
		return out, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading payloads %s: %w", path, err)
	}
	defer f.Close()

	payloads, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading payloads %s: %w", path, err)
	}
	return payloads, nil
}

// ReadLines reads newline-delimited entries from r, trimming surrounding
// whitespace and skipping blank lines.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
