package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// CSVWriter writes findings in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	closer, _ := w.(io.Closer)
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"url", "target", "payload", "status", "chain", "final_url", "offsite", "meta_refresh"})
}

func (c *CSVWriter) WriteFinding(f *Finding) error {
	return c.w.Write([]string{
		f.URL,
		f.Target,
		f.Payload,
		strconv.Itoa(f.StatusCode),
		strings.Join(f.Chain, ChainSeparator),
		f.FinalURL,
		strconv.FormatBool(f.Offsite),
		f.MetaRefresh,
	})
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
