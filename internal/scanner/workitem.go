package scanner

import "github.com/maxvaer/openredirx/internal/fuzz"

// WorkItem represents a single (target, payload) unit for the worker pool.
type WorkItem struct {
	Target  string // target URL after Fuzzify
	Payload string
	URL     string // Target with the keyword replaced by Payload
}

// Key identifies the (target, payload) pair, independent of the keyword.
func (w WorkItem) Key() string {
	return w.Target + "\x00" + w.Payload
}

// ExpandItems builds the full targets × payloads cross product, target-major.
func ExpandItems(targets, payloads []string, keyword string) []WorkItem {
	items := make([]WorkItem, 0, len(targets)*len(payloads))
	for _, t := range targets {
		for _, p := range payloads {
			items = append(items, WorkItem{
				Target:  t,
				Payload: p,
				URL:     fuzz.Substitute(t, keyword, p),
			})
		}
	}
	return items
}
