package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrTooManyRedirects is returned by the redirect policy once the hop limit
// is reached.
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrorKind classifies a fetch failure.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindTimeout    ErrorKind = "timeout"
	KindDNS        ErrorKind = "dns"
	KindRefused    ErrorKind = "connection refused"
	KindReset      ErrorKind = "connection reset"
	KindDisconnect ErrorKind = "server disconnected"
	KindRedirects  ErrorKind = "too many redirects"
	KindTLS        ErrorKind = "tls"
	KindDecode     ErrorKind = "decode"
	KindCanceled   ErrorKind = "canceled"
	KindRequest    ErrorKind = "invalid request"
	KindNetwork    ErrorKind = "network"
)

// Outcome is the result of a single fetch. Exactly one of the following
// holds: Err is set (failure), StatusCode is 200 (success), or StatusCode
// is any other code.
type Outcome struct {
	StatusCode int
	Chain      []string // URLs that answered with a redirect, oldest first
	FinalURL   string
	Body       []byte // retained only for HTML 200 responses
	Duration   time.Duration
	Err        error
	Kind       ErrorKind
}

// Failed reports whether the fetch failed at the network layer.
func (o Outcome) Failed() bool { return o.Err != nil }

// Found reports whether the final response was HTTP 200.
func (o Outcome) Found() bool { return o.Err == nil && o.StatusCode == http.StatusOK }

// Description is the human-readable failure text, without the request
// method and URL that net/http prepends.
func (o Outcome) Description() string {
	if o.Err == nil {
		return ""
	}
	err := o.Err
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	if o.Kind == KindNone {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", o.Kind, err)
}

func failure(err error, kind ErrorKind, start time.Time) Outcome {
	return Outcome{Err: err, Kind: kind, Duration: time.Since(start)}
}

// classifyError maps a client error onto an ErrorKind.
func classifyError(err error) ErrorKind {
	var (
		dnsErr *net.DNSError
		netErr net.Error
		recErr tls.RecordHeaderError
		cerErr *tls.CertificateVerificationError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTooManyRedirects):
		return KindRedirects
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &dnsErr):
		return KindDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindRefused
	case errors.Is(err, syscall.ECONNRESET):
		return KindReset
	case errors.As(err, &recErr), errors.As(err, &cerErr):
		return KindTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return KindDisconnect
	default:
		return KindNetwork
	}
}
