package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/maxvaer/openredirx/internal/config"
	"github.com/maxvaer/openredirx/pkg/version"
)

func printBanner(w io.Writer, opts *config.Options, targetCount, payloadCount int) {
	c := color.New(color.FgCyan)
	wh := color.New(color.FgHiWhite)
	d := color.New(color.Faint)
	y := color.New(color.FgYellow)
	g := color.New(color.FgGreen)
	if opts.NoColor {
		for _, col := range []*color.Color{c, wh, d, y, g} {
			col.DisableColor()
		}
	}

	art := []string{
		`                                ___          __  __     `,
		`   ____  ____  ___  ____  _____/ (_)_______ / |/ /     `,
		`  / __ \/ __ \/ _ \/ __ \/ ___/ / / ___/ _ \|   /      `,
		` / /_/ / /_/ /  __/ / / / /  / / / /  /  __/   |       `,
		` \____/ .___/\___/_/ /_/_/  /_/_/_/   \___/_/|_|       `,
		`     /_/                                               `,
	}
	fmt.Fprintln(w)
	for i, line := range art {
		if i == len(art)-1 {
			fmt.Fprintf(w, "%s %s\n", c.Sprint(line), d.Sprintf("v%s", version.Version))
			continue
		}
		fmt.Fprintln(w, c.Sprint(line))
	}
	fmt.Fprintln(w, wh.Sprint("    Open Redirect Fuzzer"))
	fmt.Fprintln(w)

	rule := d.Sprint("  " + strings.Repeat("─", 38))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s      %s\n", d.Sprint("Targets:"), wh.Sprintf("%d", targetCount))
	fmt.Fprintf(w, "  %s     %s\n", d.Sprint("Payloads:"), wh.Sprintf("%d", payloadCount))
	fmt.Fprintf(w, "  %s      %s\n", d.Sprint("Keyword:"), wh.Sprint(opts.Keyword))
	fmt.Fprintf(w, "  %s  %s\n", d.Sprint("Concurrency:"), y.Sprintf("%d", opts.Concurrency))
	fmt.Fprintf(w, "  %s      %s\n", d.Sprint("Timeout:"), y.Sprint(opts.Timeout))
	if opts.RateLimit > 0 {
		fmt.Fprintf(w, "  %s   %s\n", d.Sprint("Rate limit:"), y.Sprintf("%.1f req/s", opts.RateLimit))
	}
	if opts.Proxy != "" {
		fmt.Fprintf(w, "  %s        %s\n", d.Sprint("Proxy:"), wh.Sprint(opts.Proxy))
	}
	if opts.OutputFile != "" {
		format := opts.OutputFormat
		if format == "" {
			format = "text"
		}
		fmt.Fprintf(w, "  %s       %s\n", d.Sprint("Output:"), g.Sprintf("%s (%s)", opts.OutputFile, format))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
