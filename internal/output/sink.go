package output

import "sync"

// Sink accumulates findings in arrival order. It neither sorts nor
// deduplicates.
type Sink struct {
	mu       sync.Mutex
	findings []Finding
}

// Add appends a finding.
func (s *Sink) Add(f Finding) {
	s.mu.Lock()
	s.findings = append(s.findings, f)
	s.mu.Unlock()
}

// Len returns the number of findings collected.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.findings)
}

// Findings returns a copy of the collected findings.
func (s *Sink) Findings() []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// Flush writes every finding to w, framed by its header and footer.
func (s *Sink) Flush(w Writer, stats Stats) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, f := range s.Findings() {
		if err := w.WriteFinding(&f); err != nil {
			return err
		}
	}
	return w.WriteFooter(stats)
}
