package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/openredirx/internal/config"
	"github.com/maxvaer/openredirx/internal/errlog"
	"github.com/maxvaer/openredirx/internal/filter"
	"github.com/maxvaer/openredirx/internal/fuzz"
	"github.com/maxvaer/openredirx/internal/hook"
	"github.com/maxvaer/openredirx/internal/output"
	"github.com/maxvaer/openredirx/internal/payload"
	"github.com/maxvaer/openredirx/internal/resume"
	"github.com/maxvaer/openredirx/internal/scanner"
)

const interruptedMsg = "Interrupted by user. Exiting..."

// Run executes the full pipeline: targets are read from stdin, every
// payload is substituted into every target and the FOUND redirects are
// written to opts.OutputFile once the run ends. An interrupt via ctx is not
// an error.
func Run(ctx context.Context, opts *config.Options, stdin io.Reader) error {
	return run(ctx, opts, stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, opts *config.Options, stdin io.Reader, stdout, stderr io.Writer) error {
	// 1. Load payloads.
	payloads, err := payload.Load(opts.PayloadsFile)
	if err != nil {
		return fmt.Errorf("loading payloads: %w", err)
	}

	// 2. Read and fuzzify targets.
	targets, err := readTargets(ctx, stdin)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(stdout, interruptedMsg)
			return nil
		}
		return fmt.Errorf("reading targets: %w", err)
	}
	targets = fuzz.Prepare(append(targets, opts.ExtraTargets...), opts.Keyword)

	// 3. Open the error log and build the requester.
	elog, err := errlog.Open(opts.ErrorLogFile)
	if err != nil {
		return err
	}
	defer elog.Close()

	req, err := scanner.NewRequester(opts)
	if err != nil {
		return fmt.Errorf("creating requester: %w", err)
	}

	// 4. Create the output file now so a bad path fails before fetching.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	if out != nil {
		defer out.Close()
	}

	// 5. Console and banner.
	progress := output.NewProgress(0, stderr, opts.Quiet)
	console := output.NewConsole(progress, stdout, stderr, opts.NoColor, opts.Quiet)
	if !opts.Quiet {
		printBanner(stderr, opts, len(targets), len(payloads))
	}
	console.Infof("Processing %d URLs with %d payloads.", len(targets), len(payloads))

	// 6. Filters, throttle, hook and resume.
	chain := filter.NewChain(filter.NewStatusFilter(opts.IncludeStatus, opts.ExcludeStatus))

	throttler := scanner.NewThrottler(opts.Delay, opts.AdaptiveThrottle, func(msg string) {
		console.Warnf("%s", msg)
	})

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, func(format string, args ...any) {
			console.Noticef(format, args...)
		})
	}

	resumeState, err := loadResume(opts, len(targets)*len(payloads))
	if err != nil {
		return err
	}

	// 7. Dispatch.
	var sink output.Sink
	start := time.Now()
	Dispatch(ctx, req, targets, payloads, DispatchConfig{
		Keyword:     opts.Keyword,
		Concurrency: opts.Concurrency,
		Console:     console,
		Progress:    progress,
		ErrorLog:    elog,
		Filter:      chain,
		Throttler:   throttler,
		Hook:        hookRunner,
		Resume:      resumeState,
		Sink:        &sink,
	})
	stats := progress.Stats()
	stats.Duration = time.Since(start)

	interrupted := ctx.Err() != nil
	if interrupted {
		fmt.Fprintln(stdout, interruptedMsg)
	}

	// 8. Resume bookkeeping.
	if resumeState != nil {
		if interrupted {
			if err := resumeState.Save(); err != nil {
				console.Warnf("Could not save resume state: %v", err)
			} else {
				console.Noticef("Progress saved to %s, resume with --resume-file", opts.ResumeFile)
			}
		} else if err := resumeState.Remove(); err != nil {
			console.Warnf("Could not remove resume file: %v", err)
		}
	}

	// 9. Persist findings.
	if out != nil {
		if err := sink.Flush(out, stats); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		console.Noticef("%d results written to %s", sink.Len(), opts.OutputFile)
	}

	console.Noticef("Done: %d requests, %d found, %d info, %d errors in %s",
		stats.TotalRequests, stats.Found, stats.Info, stats.ErrorCount, stats.Duration.Round(time.Millisecond))
	return nil
}

func loadResume(opts *config.Options, totalPairs int) (*resume.State, error) {
	if opts.ResumeFile == "" {
		return nil, nil
	}
	existing, err := resume.Load(opts.ResumeFile)
	if err != nil {
		return nil, fmt.Errorf("loading resume file: %w", err)
	}
	if existing != nil && existing.Keyword == opts.Keyword {
		return existing, nil
	}
	return resume.New(opts.ResumeFile, opts.Keyword, totalPairs), nil
}

func createWriter(opts *config.Options) (output.Writer, error) {
	if opts.OutputFile == "" {
		return nil, nil
	}
	f, err := os.Create(opts.OutputFile)
	if err != nil {
		return nil, err
	}
	switch opts.OutputFormat {
	case "json":
		return output.NewJSONWriter(f), nil
	case "jsonl":
		return output.NewJSONLinesWriter(f), nil
	case "csv":
		return output.NewCSVWriter(f), nil
	default:
		return output.NewTextWriter(f), nil
	}
}
