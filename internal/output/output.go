package output

import "time"

// Stats holds aggregate run statistics.
type Stats struct {
	TotalRequests  int
	Found          int
	Info           int
	ErrorCount     int
	Duration       time.Duration
	RequestsPerSec float64
}

// Writer is implemented by each result file format.
type Writer interface {
	WriteHeader() error
	WriteFinding(f *Finding) error
	WriteFooter(stats Stats) error
	Close() error
}
