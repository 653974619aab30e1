package output

import (
	"bufio"
	"io"
)

// TextWriter writes one Finding.String() per line.
type TextWriter struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewTextWriter creates a text output writer. If w is an io.Closer it is
// closed by Close.
func NewTextWriter(w io.Writer) *TextWriter {
	closer, _ := w.(io.Closer)
	return &TextWriter{w: bufio.NewWriter(w), closer: closer}
}

func (t *TextWriter) WriteHeader() error { return nil }

func (t *TextWriter) WriteFinding(f *Finding) error {
	_, err := t.w.WriteString(f.String() + "\n")
	return err
}

func (t *TextWriter) WriteFooter(_ Stats) error {
	return t.w.Flush()
}

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
