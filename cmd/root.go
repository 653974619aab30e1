package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/maxvaer/openredirx/internal/config"
	"github.com/maxvaer/openredirx/internal/reqparse"
	"github.com/maxvaer/openredirx/internal/runner"
	"github.com/maxvaer/openredirx/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	opts       config.Options
	configFile string
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"INPUT", []string{"payloads", "keyword", "request-file"}},
	{"RATE-LIMIT", []string{"concurrency", "timeout", "rate-limit", "delay", "adaptive-throttle"}},
	{"HTTP", []string{"header", "user-agent", "proxy"}},
	{"FILTERS", []string{"include-status", "exclude-status"}},
	{"OUTPUT", []string{"output", "format", "error-log", "quiet", "no-color", "on-result"}},
	{"CONFIGURATION", []string{"config", "resume-file"}},
}

var rootCmd = &cobra.Command{
	Use:     "openredirx [flags] < urls.txt",
	Short:   "Fast open redirect fuzzer",
	Version: version.Version,
	Long: `openredirx reads candidate URLs from stdin, substitutes every redirect
bypass payload into the keyword position of every URL and reports the
requests that end in HTTP 200 after following redirects, together with
the redirect chain. URLs without the keyword have each query value
replaced by it.`,
	Example: `  cat urls.txt | openredirx
  cat urls.txt | openredirx -p payloads.txt -k FUZZ -c 50
  waybackurls example.com | openredirx -o found.txt
  cat urls.txt | openredirx -o found.json --format json
  cat urls.txt | openredirx --rate-limit 20 --adaptive-throttle
  cat urls.txt | openredirx -x 404,500 -H "Cookie: session=abc"
  cat urls.txt | openredirx --config openredirx.yaml
  cat urls.txt | openredirx --on-result "notify-send {url}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.MergeFlags(cmd.Flags(), configFile); err != nil {
			return err
		}
		headers, _ := cmd.Flags().GetStringArray("header")
		parsed, err := parseHeaders(headers)
		if err != nil {
			return err
		}
		opts.Headers = parsed
		if opts.RequestFile != "" {
			if err := applyRequestFile(cmd, &opts); err != nil {
				return err
			}
		}
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			// A second interrupt terminates immediately.
			<-ctx.Done()
			stop()
		}()
		var stdin io.Reader = os.Stdin
		// With a request file and nothing piped in, do not wait on the terminal.
		if opts.RequestFile != "" && term.IsTerminal(int(os.Stdin.Fd())) {
			stdin = strings.NewReader("")
		}
		return runner.Run(ctx, &opts, stdin)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Input
	f.StringVarP(&opts.PayloadsFile, "payloads", "p", "", "Payload file, one per line (default: built-in)")
	f.StringVarP(&opts.Keyword, "keyword", "k", config.DefaultKeyword, "Marker replaced by each payload")
	f.StringVarP(&opts.RequestFile, "request-file", "r", "", "Raw HTTP request file (e.g. Burp Suite export) to fuzz with its session headers")

	// Performance
	f.IntVarP(&opts.Concurrency, "concurrency", "c", config.DefaultConcurrency, "Maximum requests in flight")
	f.DurationVar(&opts.Timeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	f.Float64Var(&opts.RateLimit, "rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	f.DurationVar(&opts.Delay, "delay", 0, "Delay between requests per worker")
	f.BoolVar(&opts.AdaptiveThrottle, "adaptive-throttle", false, "Auto back-off on 429/503 and repeated errors")

	// HTTP
	f.StringArrayP("header", "H", nil, "Custom header (Key: Value), repeatable")
	f.StringVar(&opts.UserAgent, "user-agent", config.DefaultUserAgent, "User-Agent string")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")

	// Filtering
	f.VarP(&intSliceValue{target: &opts.IncludeStatus}, "include-status", "i", "Only print INFO lines for these status codes (comma-separated)")
	f.VarP(&intSliceValue{target: &opts.ExcludeStatus}, "exclude-status", "x", "Hide INFO lines for these status codes (comma-separated)")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Write FOUND results to this file")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, jsonl, csv")
	f.StringVar(&opts.ErrorLogFile, "error-log", config.DefaultErrorLogFile, "Append fetch errors to this file (empty to disable)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print FOUND lines")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Hooks
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each FOUND result (JSON on stdin; {url} {target} {payload} {final} {status} {chain} expand to quoted OPENREDIRX_* variables)")

	// Configuration
	f.StringVar(&configFile, "config", "", "Config file (yaml, toml or json) with flag names as keys")
	f.StringVar(&opts.ResumeFile, "resume-file", "", "File to save/load progress for resume")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintf(w, "\nEnvironment variables %s_<FLAG> (e.g. %s_RATE_LIMIT) override the config file.\n\n",
			config.EnvPrefix, config.EnvPrefix)
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyRequestFile adds the request file's URL as a target and merges its
// session headers. Explicit -H and --user-agent values take precedence.
func applyRequestFile(cmd *cobra.Command, o *config.Options) error {
	parsed, err := reqparse.ParseFile(o.RequestFile)
	if err != nil {
		return fmt.Errorf("parsing request file: %w", err)
	}
	o.ExtraTargets = append(o.ExtraTargets, parsed.URL)
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	for key, val := range parsed.SessionHeaders() {
		if strings.EqualFold(key, "User-Agent") {
			if !cmd.Flags().Changed("user-agent") {
				o.UserAgent = val
			}
			continue
		}
		if _, exists := o.Headers[key]; !exists {
			o.Headers[key] = val
		}
	}
	return nil
}

// parseHeaders turns "Key: Value" strings into a header map.
func parseHeaders(headers []string) (map[string]string, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out, nil
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	parts := strings.Split(s, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
                                ___          __  __
   ____  ____  ___  ____  _____/ (_)_______ / |/ /
  / __ \/ __ \/ _ \/ __ \/ ___/ / / ___/ _ \|   /
 / /_/ / /_/ /  __/ / / / /  / / / /  /  __/   |
 \____/ .___/\___/_/ /_/_/  /_/_/_/   \___/_/|_|
     /_/                                          %s

`, ver)
}
