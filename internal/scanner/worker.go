package scanner

import (
	"context"
	"sync"
	"time"
)

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads   int        // concurrency ceiling
	Throttler *Throttler // nil = no delay or back-off
}

// RunWorkerPool fans out work items across cfg.Threads workers and returns a
// channel of results in completion order. Each worker holds at most one item
// at a time, so no more than Threads fetches are ever in flight. The channel
// is closed once every worker has exited.
//
// When ctx is cancelled the producer stops feeding items and results whose
// fetch was interrupted are dropped rather than reported.
func RunWorkerPool(
	ctx context.Context,
	fetcher Fetcher,
	items []WorkItem,
	cfg WorkerConfig,
) <-chan ScanResult {
	threads := cfg.Threads
	if threads > len(items) {
		threads = len(items)
	}
	if threads < 1 {
		threads = 1
	}
	itemsCh := make(chan WorkItem, threads*2)
	resultsCh := make(chan ScanResult, threads*2)

	var wg sync.WaitGroup

	// Producer: feed items into channel.
	go func() {
		defer close(itemsCh)
		for _, item := range items {
			select {
			case itemsCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: consume items, produce results.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsCh {
				if ctx.Err() != nil {
					return
				}

				if delay := cfg.Throttler.Delay(); delay > 0 {
					select {
					case <-time.After(delay):
					case <-ctx.Done():
						return
					}
				}

				out := fetcher.Fetch(ctx, item.URL)
				if ctx.Err() != nil {
					return
				}

				if out.Failed() {
					cfg.Throttler.RecordError()
				} else {
					cfg.Throttler.RecordStatus(out.StatusCode)
				}

				select {
				case resultsCh <- ScanResult{Item: item, Outcome: out}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}
