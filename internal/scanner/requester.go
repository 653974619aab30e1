package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/maxvaer/openredirx/internal/config"
	"golang.org/x/time/rate"
)

const (
	// MaxRedirects bounds the hops followed per request.
	MaxRedirects = 10
	// maxBodyBytes bounds how much of each response body is read.
	maxBodyBytes = 1 << 20
)

// Fetcher issues one request for a fully substituted URL. Implementations
// must not panic and must report network failures through Outcome.Err.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) Outcome
}

// Requester is the HTTP Fetcher. A single Requester is shared by all
// workers of a run.
type Requester struct {
	client    *http.Client
	headers   map[string]string
	userAgent string
	limiter   *rate.Limiter
}

// NewRequester creates a Requester from the provided options.
func NewRequester(opts *config.Options) (*Requester, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Concurrency,
		MaxIdleConns:        opts.Concurrency,
		IdleConnTimeout:     90 * time.Second,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Requester{
		client:    client,
		headers:   opts.Headers,
		userAgent: ua,
		limiter:   limiter,
	}, nil
}

// Fetch sends a GET for rawURL, following redirects, and reports the final
// status together with the redirect chain.
func (r *Requester) Fetch(ctx context.Context, rawURL string) Outcome {
	start := time.Now()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return failure(err, classifyError(err), start)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failure(err, KindRequest, start)
	}
	req.Header.Set("User-Agent", r.userAgent)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return failure(err, classifyError(err), start)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind := classifyError(err)
		if kind == KindNetwork || kind == KindDisconnect {
			kind = KindDecode
		}
		return failure(fmt.Errorf("reading response body: %w", err), kind, start)
	}

	out := Outcome{
		StatusCode: resp.StatusCode,
		Chain:      redirectChain(resp),
		FinalURL:   resp.Request.URL.String(),
		Duration:   time.Since(start),
	}
	if resp.StatusCode == http.StatusOK && isHTML(resp.Header.Get("Content-Type")) {
		out.Body = body
	}
	return out
}

// redirectChain walks the Response links net/http attaches to each
// redirected request and returns the URLs that answered with a redirect,
// oldest first. The final URL is not included.
func redirectChain(resp *http.Response) []string {
	var chain []string
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		prev := req.Response.Request
		if prev == nil {
			break
		}
		chain = append(chain, prev.URL.String())
	}
	slices.Reverse(chain)
	return chain
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
