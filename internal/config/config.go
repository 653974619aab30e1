package config

import (
	"fmt"
	"time"
)

// Defaults shared by the CLI and tests.
const (
	DefaultKeyword      = "FUZZ"
	DefaultConcurrency  = 100
	DefaultTimeout      = 10 * time.Second
	DefaultErrorLogFile = "error_log.txt"
	DefaultUserAgent    = "openredirx/1.0"
)

// Options holds all configuration for an openredirx run.
type Options struct {
	// Input
	PayloadsFile string // empty = built-in payloads
	Keyword      string
	RequestFile  string   // raw HTTP request supplying a target and session headers
	ExtraTargets []string // fuzzed in addition to the targets read from stdin

	// Performance
	Concurrency      int
	Timeout          time.Duration
	Delay            time.Duration
	RateLimit        float64 // requests per second, 0 = unlimited
	AdaptiveThrottle bool

	// Output
	OutputFile    string
	OutputFormat  string // "text", "json", "jsonl", "csv"
	ErrorLogFile  string // empty = no durable error log
	IncludeStatus []int  // INFO lines
	ExcludeStatus []int  // INFO lines
	Quiet         bool
	NoColor       bool

	// HTTP
	Headers   map[string]string
	UserAgent string
	Proxy     string

	// Hooks
	OnResultCmd string

	// Resume
	ResumeFile string
}

// Validate checks option ranges and combinations. It does not touch the
// filesystem.
func (o *Options) Validate() error {
	if o.Keyword == "" {
		return fmt.Errorf("keyword cannot be empty")
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", o.Concurrency)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative")
	}
	switch o.OutputFormat {
	case "", "text", "json", "jsonl", "csv":
	default:
		return fmt.Errorf("format must be one of: text, json, jsonl, csv")
	}
	if len(o.IncludeStatus) > 0 && len(o.ExcludeStatus) > 0 {
		return fmt.Errorf("--include-status and --exclude-status are mutually exclusive")
	}
	return nil
}
