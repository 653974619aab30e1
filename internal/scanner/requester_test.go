package scanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/maxvaer/openredirx/internal/config"
)

func testRequester(t *testing.T, mutate func(o *config.Options)) *Requester {
	t.Helper()
	opts := &config.Options{
		Concurrency: 4,
		Timeout:     2 * time.Second,
	}
	if mutate != nil {
		mutate(opts)
	}
	r, err := NewRequester(opts)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestFetchRedirectChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			http.Redirect(w, r, "/b", http.StatusFound)
		case "/b":
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		case "/final":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html>landed</html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), srv.URL+"/a")
	if out.Failed() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if !out.Found() {
		t.Fatalf("expected 200, got %d", out.StatusCode)
	}

	want := []string{srv.URL + "/a", srv.URL + "/b"}
	if len(out.Chain) != len(want) {
		t.Fatalf("chain = %v, want %v", out.Chain, want)
	}
	for i := range want {
		if out.Chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, out.Chain[i], want[i])
		}
	}
	if out.FinalURL != srv.URL+"/final" {
		t.Errorf("final URL = %q", out.FinalURL)
	}
	if string(out.Body) != "<html>landed</html>" {
		t.Errorf("expected HTML body to be retained, got %q", out.Body)
	}
}

func TestFetchNoRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), srv.URL+"/x")
	if !out.Found() {
		t.Fatalf("expected 200, got %d (err %v)", out.StatusCode, out.Err)
	}
	if len(out.Chain) != 0 {
		t.Errorf("expected empty chain, got %v", out.Chain)
	}
	if out.Body != nil {
		t.Errorf("non-HTML body should not be retained")
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/go" {
			http.Redirect(w, r, "/missing", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), srv.URL+"/go")
	if out.Failed() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if out.Found() {
		t.Fatal("404 must not count as found")
	}
	if out.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", out.StatusCode)
	}
	if len(out.Chain) != 1 || out.Chain[0] != srv.URL+"/go" {
		t.Errorf("chain = %v", out.Chain)
	}
}

func TestFetchTooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), srv.URL+"/loop")
	if !out.Failed() {
		t.Fatal("expected failure on redirect loop")
	}
	if out.Kind != KindRedirects {
		t.Errorf("kind = %q, want %q", out.Kind, KindRedirects)
	}
	if !errors.Is(out.Err, ErrTooManyRedirects) {
		t.Errorf("expected ErrTooManyRedirects, got %v", out.Err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	req := testRequester(t, func(o *config.Options) { o.Timeout = 100 * time.Millisecond })
	start := time.Now()
	out := req.Fetch(context.Background(), srv.URL)
	if !out.Failed() {
		t.Fatal("expected timeout failure")
	}
	if out.Kind != KindTimeout {
		t.Errorf("kind = %q, want %q (err %v)", out.Kind, KindTimeout, out.Err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not enforced, took %s", time.Since(start))
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), addr)
	if !out.Failed() {
		t.Fatal("expected failure against closed server")
	}
	if out.Description() == "" {
		t.Error("expected a human-readable description")
	}
}

func TestFetchTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("server does not support hijacking")
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()
		fmt.Fprint(buf, "HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\nshort")
		buf.Flush()
	}))
	defer srv.Close()

	out := testRequester(t, nil).Fetch(context.Background(), srv.URL)
	if !out.Failed() {
		t.Fatal("expected failure for truncated body")
	}
	if out.Kind != KindDecode {
		t.Errorf("kind = %q, want %q", out.Kind, KindDecode)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	out := testRequester(t, nil).Fetch(context.Background(), "http://bad host/\x7f")
	if !out.Failed() {
		t.Fatal("expected failure for invalid URL")
	}
	if out.Kind != KindRequest {
		t.Errorf("kind = %q, want %q", out.Kind, KindRequest)
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	out := testRequester(t, nil).Fetch(ctx, srv.URL)
	if out.Kind != KindCanceled {
		t.Errorf("kind = %q, want %q (err %v)", out.Kind, KindCanceled, out.Err)
	}
}

func TestFetchHeaders(t *testing.T) {
	var gotUA, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotCustom = r.Header.Get("X-Bug-Bounty")
	}))
	defer srv.Close()

	req := testRequester(t, func(o *config.Options) {
		o.UserAgent = "tester/2"
		o.Headers = map[string]string{"X-Bug-Bounty": "me"}
	})
	if out := req.Fetch(context.Background(), srv.URL); out.Failed() {
		t.Fatal(out.Err)
	}
	if gotUA != "tester/2" {
		t.Errorf("user agent = %q", gotUA)
	}
	if gotCustom != "me" {
		t.Errorf("custom header = %q", gotCustom)
	}
}

func TestFetchRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req := testRequester(t, func(o *config.Options) { o.RateLimit = 10 })
	start := time.Now()
	for i := 0; i < 13; i++ {
		if out := req.Fetch(context.Background(), srv.URL); out.Failed() {
			t.Fatal(out.Err)
		}
	}
	// Burst of 10, then 3 more at 10/s.
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("rate limit not applied, 13 requests took %s", elapsed)
	}
}

func TestNewRequesterBadProxy(t *testing.T) {
	_, err := NewRequester(&config.Options{Concurrency: 1, Timeout: time.Second, Proxy: "://nope"})
	if err == nil {
		t.Fatal("expected error for invalid proxy")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{&url.Error{Op: "Get", URL: "x", Err: ErrTooManyRedirects}, KindRedirects},
		{context.Canceled, KindCanceled},
		{context.DeadlineExceeded, KindTimeout},
		{fmt.Errorf("wrapped: %w", errors.New("weird")), KindNetwork},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestOutcomeDescription(t *testing.T) {
	o := Outcome{
		Err:  &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")},
		Kind: KindRefused,
	}
	if got := o.Description(); got != "connection refused: connection refused" {
		t.Errorf("Description() = %q", got)
	}
	if (Outcome{StatusCode: 200}).Description() != "" {
		t.Error("successful outcome should have empty description")
	}
}
