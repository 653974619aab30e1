package reqparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFile_BurpHTTP2(t *testing.T) {
	content := "GET /login?next=%2Fhome HTTP/2\r\n" +
		"Host: www.example.com\r\n" +
		"Cookie: session=abc123; token=xyz\r\n" +
		"User-Agent: Mozilla/5.0\r\n" +
		"Accept-Encoding: gzip\r\n" +
		"\r\n"

	req, err := ParseFile(writeTempFile(t, content))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("method = %q, want GET", req.Method)
	}
	if req.URL != "https://www.example.com/login?next=%2Fhome" {
		t.Errorf("url = %q", req.URL)
	}
	if req.Headers["Cookie"] != "session=abc123; token=xyz" {
		t.Errorf("cookie = %q, want 'session=abc123; token=xyz'", req.Headers["Cookie"])
	}

	session := req.SessionHeaders()
	if _, ok := session["Host"]; ok {
		t.Error("Host must not be replayed")
	}
	if _, ok := session["Accept-Encoding"]; ok {
		t.Error("Accept-Encoding must not be replayed")
	}
	if session["Cookie"] == "" || session["User-Agent"] != "Mozilla/5.0" {
		t.Errorf("session headers = %v", session)
	}
}

func TestParse_HTTP11_Port80(t *testing.T) {
	req, err := Parse(strings.NewReader("GET /r?u=FUZZ HTTP/1.1\r\nHost: target.com:80\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.URL != "http://target.com:80/r?u=FUZZ" {
		t.Errorf("url = %q", req.URL)
	}
}

func TestParse_AbsoluteForm(t *testing.T) {
	req, err := Parse(strings.NewReader("GET http://proxy.test/go?to=x HTTP/1.1\r\nHost: ignored\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if req.URL != "http://proxy.test/go?to=x" {
		t.Errorf("url = %q", req.URL)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "bad request line", content: "GET\r\nHost: a\r\n\r\n"},
		{name: "missing host", content: "GET / HTTP/1.1\r\nAccept: */*\r\n\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.req")); err == nil {
		t.Error("expected error for missing file")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
