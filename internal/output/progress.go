package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// Progress tracks and displays run progress on a status line. Other output
// that shares the terminal must go through Println so the status line is
// cleared first and redrawn afterwards.
//
// A nil *Progress counts nothing and prints lines directly.
type Progress struct {
	total     atomic.Int64
	completed atomic.Int64
	found     atomic.Int64
	info      atomic.Int64
	errors    atomic.Int64
	start     time.Time

	mu      sync.Mutex // guards w and every terminal write
	w       io.Writer
	live    bool // redraw in place; only when w is a terminal
	quiet   bool
	running bool
	done    chan struct{}
	exited  chan struct{}
}

// NewProgress creates a progress tracker writing to w. Call Start() to begin
// display updates.
func NewProgress(total int, w io.Writer, quiet bool) *Progress {
	p := &Progress{
		start:  time.Now(),
		w:      w,
		live:   isTerminal(w),
		quiet:  quiet,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	p.total.Store(int64(total))
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetTotal replaces the expected number of units.
func (p *Progress) SetTotal(total int) {
	if p == nil {
		return
	}
	p.total.Store(int64(total))
}

// Start begins periodically redrawing the status line.
func (p *Progress) Start() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.start = time.Now()
	p.running = true
	p.mu.Unlock()

	if p.quiet || !p.live {
		close(p.exited)
		return
	}
	go func() {
		defer close(p.exited)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.mu.Lock()
				p.draw()
				p.mu.Unlock()
			case <-p.done:
				return
			}
		}
	}()
}

// Stop ends the display and prints the final status line once. It must be
// called at most once, after Start.
func (p *Progress) Stop() {
	if p == nil {
		return
	}
	close(p.done)
	<-p.exited

	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	if p.quiet {
		return
	}
	p.draw()
	fmt.Fprint(p.w, "\n")
}

// Increment records a completed unit.
func (p *Progress) Increment() {
	if p != nil {
		p.completed.Add(1)
	}
}

// IncrementFound records a FOUND result.
func (p *Progress) IncrementFound() {
	if p != nil {
		p.found.Add(1)
	}
}

// IncrementInfo records a non-200 result.
func (p *Progress) IncrementInfo() {
	if p != nil {
		p.info.Add(1)
	}
}

// IncrementErrors records a failed fetch.
func (p *Progress) IncrementErrors() {
	if p != nil {
		p.errors.Add(1)
	}
}

// Completed returns the number of completed units.
func (p *Progress) Completed() int {
	if p == nil {
		return 0
	}
	return int(p.completed.Load())
}

// Total returns the expected number of units.
func (p *Progress) Total() int {
	if p == nil {
		return 0
	}
	return int(p.total.Load())
}

// Stats returns a snapshot of the counters.
func (p *Progress) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	s := Stats{
		TotalRequests: p.Completed(),
		Found:         int(p.found.Load()),
		Info:          int(p.info.Load()),
		ErrorCount:    int(p.errors.Load()),
		Duration:      time.Since(p.start),
	}
	if secs := s.Duration.Seconds(); secs > 0 {
		s.RequestsPerSec = float64(s.TotalRequests) / secs
	}
	return s
}

// Println writes line followed by a newline to w while keeping the status
// line intact.
func (p *Progress) Println(w io.Writer, line string) {
	if p == nil {
		fmt.Fprintln(w, line)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	redraw := p.running && p.live && !p.quiet
	if redraw {
		fmt.Fprint(p.w, "\r\033[K")
	}
	fmt.Fprintln(w, line)
	if redraw {
		p.draw()
	}
}

// Line renders the status line text.
func (p *Progress) Line() string {
	completed := p.completed.Load()
	total := p.total.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(completed) / elapsed
	}

	pct := float64(0)
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	eta := ""
	if rate > 0 && completed < total {
		remaining := float64(total-completed) / rate
		eta = fmt.Sprintf(" | ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}

	return fmt.Sprintf("[%3.0f%%] %d/%d | %.0f req/s | Found: %d | Errors: %d%s",
		pct, completed, total, rate, p.found.Load(), p.errors.Load(), eta)
}

// draw writes the status line. Callers hold p.mu.
func (p *Progress) draw() {
	if p.live {
		fmt.Fprintf(p.w, "\r\033[K%s", p.Line())
		return
	}
	fmt.Fprint(p.w, p.Line())
}
