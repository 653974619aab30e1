package reqparse

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// ParsedRequest holds the extracted data from a raw HTTP request file.
type ParsedRequest struct {
	Method  string
	URL     string // full URL: scheme, Host header, request path and query
	Headers map[string]string
}

// skipHeaders are request headers that describe the captured request itself
// rather than the session, and must not be replayed on every fuzzed request.
var skipHeaders = map[string]struct{}{
	"host":              {},
	"content-length":    {},
	"content-type":      {},
	"accept-encoding":   {},
	"connection":        {},
	"transfer-encoding": {},
}

// ParseFile reads a raw HTTP request (e.g. Burp Suite export) and extracts
// the target URL and all headers including cookies.
func ParseFile(path string) (*ParsedRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening request file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a raw HTTP request from r.
func Parse(r io.Reader) (*ParsedRequest, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB lines for large cookies

	// Request line: GET /path?q=1 HTTP/1.1
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading request file: %w", err)
		}
		return nil, fmt.Errorf("request file is empty")
	}
	requestLine := strings.TrimSpace(sc.Text())
	parts := strings.Fields(requestLine)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid request line: %q", requestLine)
	}
	method := parts[0]
	target := parts[1]

	headers := make(map[string]string)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		colonIdx := strings.Index(line, ":")
		if colonIdx < 0 {
			continue
		}
		headers[strings.TrimSpace(line[:colonIdx])] = strings.TrimSpace(line[colonIdx+1:])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	// Absolute-form request targets (proxy style) carry their own host.
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		if _, err := url.Parse(target); err != nil {
			return nil, fmt.Errorf("invalid URL in request line: %w", err)
		}
		return &ParsedRequest{Method: method, URL: target, Headers: headers}, nil
	}

	host := headerValue(headers, "Host")
	if host == "" {
		return nil, fmt.Errorf("request file missing Host header")
	}

	// Burp exports do not record the scheme; only an explicit :80 means http.
	scheme := "https"
	if strings.HasSuffix(host, ":80") {
		scheme = "http"
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return &ParsedRequest{
		Method:  method,
		URL:     scheme + "://" + host + target,
		Headers: headers,
	}, nil
}

// SessionHeaders returns the headers worth replaying on fuzzed requests,
// such as cookies and authorization.
func (p *ParsedRequest) SessionHeaders() map[string]string {
	out := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		if _, skip := skipHeaders[strings.ToLower(k)]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
