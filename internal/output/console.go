package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console formats live events. FOUND and INFO lines go to stdout, errors
// and notices to stderr; every write is routed through the Progress so the
// status line stays intact.
type Console struct {
	progress *Progress
	stdout   io.Writer
	stderr   io.Writer
	quiet    bool

	tag   *color.Color
	hit   *color.Color
	warn  *color.Color
	faint *color.Color
}

// NewConsole creates a console. progress may be nil. In quiet mode only
// FOUND lines are printed.
func NewConsole(progress *Progress, stdout, stderr io.Writer, noColor, quiet bool) *Console {
	c := &Console{
		progress: progress,
		stdout:   stdout,
		stderr:   stderr,
		quiet:    quiet,
		tag:      color.New(color.FgGreen),
		hit:      color.New(color.FgHiGreen),
		warn:     color.New(color.FgRed),
		faint:    color.New(color.Faint),
	}
	if noColor {
		for _, col := range []*color.Color{c.tag, c.hit, c.warn, c.faint} {
			col.DisableColor()
		}
	}
	return c
}

// Found prints a FOUND line for f.
func (c *Console) Found(f *Finding) {
	line := c.tag.Sprint("[FOUND]") + " " + c.hit.Sprintf("%s redirects to %s", f.URL, f.ChainText())
	c.progress.Println(c.stdout, line)
}

// Info prints a non-200 outcome.
func (c *Console) Info(url string, status int) {
	if c.quiet {
		return
	}
	c.progress.Println(c.stdout, fmt.Sprintf("[INFO] %s responded with status code %d", url, status))
}

// Error prints a failed fetch.
func (c *Console) Error(url, description string) {
	if c.quiet {
		return
	}
	c.progress.Println(c.stderr, c.warn.Sprint("[ERROR]")+fmt.Sprintf(" Error fetching: %s - %s", url, description))
}

// Infof prints a run-level [INFO] message to stdout.
func (c *Console) Infof(format string, args ...any) {
	if c.quiet {
		return
	}
	c.progress.Println(c.stdout, "[INFO] "+fmt.Sprintf(format, args...))
}

// Noticef prints a [*] status message to stderr.
func (c *Console) Noticef(format string, args ...any) {
	if c.quiet {
		return
	}
	c.progress.Println(c.stderr, c.faint.Sprint("[*]")+" "+fmt.Sprintf(format, args...))
}

// Warnf prints a [!] message to stderr, even in quiet mode.
func (c *Console) Warnf(format string, args ...any) {
	c.progress.Println(c.stderr, c.warn.Sprint("[!]")+" "+fmt.Sprintf(format, args...))
}
