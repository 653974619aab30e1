// Package hook runs a user command for each confirmed redirect.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/maxvaer/openredirx/internal/output"
)

// Timeout bounds a single hook invocation.
const Timeout = 30 * time.Second

// placeholder maps a {token} in the hook command to the environment variable
// carrying its value.
type placeholder struct {
	token string
	env   string
	value func(f *output.Finding) string
}

var placeholders = []placeholder{
	{"{url}", "OPENREDIRX_URL", func(f *output.Finding) string { return f.URL }},
	{"{target}", "OPENREDIRX_TARGET", func(f *output.Finding) string { return f.Target }},
	{"{payload}", "OPENREDIRX_PAYLOAD", func(f *output.Finding) string { return f.Payload }},
	{"{final}", "OPENREDIRX_FINAL", func(f *output.Finding) string { return f.FinalURL }},
	{"{status}", "OPENREDIRX_STATUS", func(f *output.Finding) string { return strconv.Itoa(f.StatusCode) }},
	{"{chain}", "OPENREDIRX_CHAIN", func(f *output.Finding) string { return f.ChainText() }},
}

// Runner executes a shell command for each FOUND redirect.
type Runner struct {
	cmd  string
	logf func(format string, args ...any)
}

// NewRunner creates a hook runner. cmd is the shell command to execute; logf
// receives hook output and errors and may be nil.
func NewRunner(cmd string, logf func(format string, args ...any)) *Runner {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Runner{cmd: cmd, logf: logf}
}

// Run executes the hook command with the finding as JSON on stdin and its
// fields in OPENREDIRX_* environment variables. Errors are logged but do not
// halt the scan.
func (r *Runner) Run(ctx context.Context, f *output.Finding) {
	if r == nil || r.cmd == "" {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		r.logf("[hook] marshal error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, Expand(r.cmd, runtime.GOOS))...)
	cmd.Env = append(os.Environ(), Env(f)...)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		r.logf("[hook] error: %v %s", err, strings.TrimSpace(stderr.String()))
		return
	}
	if s := strings.TrimSpace(string(out)); s != "" {
		r.logf("[hook] %s", s)
	}
}

// Expand replaces each placeholder in cmd with a quoted reference to its
// environment variable, so the shell never parses a value as syntax. On
// Windows the reference uses delayed expansion, which cmd applies after
// parsing the line.
func Expand(cmd, goos string) string {
	pairs := make([]string, 0, 2*len(placeholders))
	for _, p := range placeholders {
		ref := `"$` + p.env + `"`
		if goos == "windows" {
			ref = `"!` + p.env + `!"`
		}
		pairs = append(pairs, p.token, ref)
	}
	return strings.NewReplacer(pairs...).Replace(cmd)
}

// Env returns the NAME=value environment entries for f.
func Env(f *output.Finding) []string {
	env := make([]string, len(placeholders))
	for i, p := range placeholders {
		env[i] = p.env + "=" + p.value(f)
	}
	return env
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/V:ON", "/C"}
	}
	return "sh", []string{"-c"}
}
