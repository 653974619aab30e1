package runner

import (
	"context"
	"io"

	"github.com/maxvaer/openredirx/internal/detect"
	"github.com/maxvaer/openredirx/internal/errlog"
	"github.com/maxvaer/openredirx/internal/filter"
	"github.com/maxvaer/openredirx/internal/hook"
	"github.com/maxvaer/openredirx/internal/output"
	"github.com/maxvaer/openredirx/internal/resume"
	"github.com/maxvaer/openredirx/internal/scanner"
)

// DispatchConfig wires the collaborators of a single dispatch. Every field
// except Keyword and Concurrency may be left nil.
type DispatchConfig struct {
	Keyword     string
	Concurrency int

	Console   *output.Console
	Progress  *output.Progress
	ErrorLog  *errlog.Log
	Filter    filter.Chain
	Throttler *scanner.Throttler
	Hook      *hook.Runner
	Resume    *resume.State
	Sink      *output.Sink
}

// Dispatch fetches every (target, payload) pair with at most cfg.Concurrency
// requests in flight and returns the FOUND findings in completion order.
// Failures and non-200 responses are reported but never returned. If ctx is
// cancelled, Dispatch stops early and returns what was recorded so far.
func Dispatch(ctx context.Context, fetcher scanner.Fetcher, targets, payloads []string, cfg DispatchConfig) []output.Finding {
	console := cfg.Console
	if console == nil {
		console = output.NewConsole(cfg.Progress, io.Discard, io.Discard, true, true)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = &output.Sink{}
	}

	items := scanner.ExpandItems(targets, payloads, cfg.Keyword)
	if cfg.Resume != nil {
		before := len(items)
		items = cfg.Resume.FilterRemaining(items)
		if skipped := before - len(items); skipped > 0 {
			console.Noticef("Resuming: skipping %d already completed requests", skipped)
		}
	}

	progress := cfg.Progress
	progress.SetTotal(len(items))
	progress.Start()
	defer progress.Stop()

	if len(items) == 0 {
		return sink.Findings()
	}

	results := scanner.RunWorkerPool(ctx, fetcher, items, scanner.WorkerConfig{
		Threads:   cfg.Concurrency,
		Throttler: cfg.Throttler,
	})

	for result := range results {
		switch {
		case result.Failed():
			desc := result.Description()
			progress.IncrementErrors()
			console.Error(result.Item.URL, desc)
			cfg.ErrorLog.Errorf("Error fetching: %s - %s", result.Item.URL, desc)

		case result.Found():
			f := buildFinding(&result)
			progress.IncrementFound()
			sink.Add(f)
			console.Found(&f)
			cfg.Hook.Run(ctx, &f)

		default:
			progress.IncrementInfo()
			if filtered, _ := cfg.Filter.Apply(&result); !filtered {
				console.Info(result.Item.URL, result.StatusCode)
			}
		}

		if cfg.Resume != nil {
			cfg.Resume.MarkCompleted(result.Item)
		}
		progress.Increment()
	}

	return sink.Findings()
}

// buildFinding turns a 200 result into a Finding, classifying where the
// redirect landed.
func buildFinding(r *scanner.ScanResult) output.Finding {
	f := output.Finding{
		URL:        r.Item.URL,
		Target:     r.Item.Target,
		Payload:    r.Item.Payload,
		Chain:      append([]string{}, r.Chain...),
		FinalURL:   r.FinalURL,
		StatusCode: r.StatusCode,
		Offsite:    detect.Offsite(r.Item.URL, r.FinalURL),
	}
	if len(r.Body) > 0 {
		f.MetaRefresh = detect.MetaRefresh(r.Body, r.FinalURL)
		if f.MetaRefresh != "" && detect.Offsite(r.Item.URL, f.MetaRefresh) {
			f.Offsite = true
		}
	}
	return f
}
