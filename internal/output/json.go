package output

import (
	"encoding/json"
	"io"
)

// JSONWriter writes findings as a single JSON array.
type JSONWriter struct {
	w        io.Writer
	closer   io.Closer
	findings []Finding
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	closer, _ := w.(io.Closer)
	return &JSONWriter{w: w, closer: closer}
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteFinding(f *Finding) error {
	j.findings = append(j.findings, *f)
	return nil
}

func (j *JSONWriter) WriteFooter(_ Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if j.findings == nil {
		return enc.Encode([]Finding{})
	}
	return enc.Encode(j.findings)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

// JSONLinesWriter writes one JSON object per line.
type JSONLinesWriter struct {
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLinesWriter creates a JSON Lines output writer.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	closer, _ := w.(io.Closer)
	return &JSONLinesWriter{enc: json.NewEncoder(w), closer: closer}
}

func (j *JSONLinesWriter) WriteHeader() error { return nil }

func (j *JSONLinesWriter) WriteFinding(f *Finding) error {
	return j.enc.Encode(f)
}

func (j *JSONLinesWriter) WriteFooter(_ Stats) error { return nil }

func (j *JSONLinesWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
