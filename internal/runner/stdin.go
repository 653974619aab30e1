package runner

import (
	"context"
	"io"

	"github.com/maxvaer/openredirx/internal/payload"
)

// readTargets reads newline-delimited target URLs from r. The read runs in
// its own goroutine so an interrupt while waiting on a terminal returns
// immediately with ctx.Err().
func readTargets(ctx context.Context, r io.Reader) ([]string, error) {
	type result struct {
		lines []string
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		lines, err := payload.ReadLines(r)
		ch <- result{lines: lines, err: err}
	}()

	select {
	case res := <-ch:
		return res.lines, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
