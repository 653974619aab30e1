// Package filter decides which non-200 results stay off the console.
package filter

import "github.com/maxvaer/openredirx/internal/scanner"

// Filter suppresses a result when ShouldFilter returns true.
type Filter interface {
	Name() string
	ShouldFilter(r *scanner.ScanResult) bool
}

// Chain is an ordered set of filters; the first match wins. The zero value
// filters nothing.
type Chain []Filter

// NewChain builds a chain from filters, skipping nil entries.
func NewChain(filters ...Filter) Chain {
	var c Chain
	for _, f := range filters {
		if f != nil {
			c = append(c, f)
		}
	}
	return c
}

// Apply reports whether r is suppressed and by which filter.
func (c Chain) Apply(r *scanner.ScanResult) (bool, string) {
	for _, f := range c {
		if f.ShouldFilter(r) {
			return true, f.Name()
		}
	}
	return false, ""
}
