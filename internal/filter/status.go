package filter

import "github.com/maxvaer/openredirx/internal/scanner"

// StatusFilter hides INFO lines by status code. With an allow list only
// listed codes are shown; with a deny list listed codes are hidden.
type StatusFilter struct {
	codes map[int]bool
	allow bool
}

// NewStatusFilter returns nil when neither list has codes, so that
// NewChain drops it. include takes precedence over exclude.
func NewStatusFilter(include, exclude []int) Filter {
	codes, allow := exclude, false
	if len(include) > 0 {
		codes, allow = include, true
	}
	if len(codes) == 0 {
		return nil
	}
	f := &StatusFilter{codes: make(map[int]bool, len(codes)), allow: allow}
	for _, c := range codes {
		f.codes[c] = true
	}
	return f
}

func (f *StatusFilter) Name() string { return "status" }

// ShouldFilter never hides failed fetches; they carry no status.
func (f *StatusFilter) ShouldFilter(r *scanner.ScanResult) bool {
	if r.Failed() {
		return false
	}
	return f.codes[r.StatusCode] != f.allow
}
