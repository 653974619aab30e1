package detect

import "testing"

func TestMetaRefresh(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "absolute url",
			body: `<html><head><meta http-equiv="refresh" content="0; url=https://evil.com/"></head></html>`,
			want: "https://evil.com/",
		},
		{
			name: "quoted and upper case",
			body: `<META HTTP-EQUIV="Refresh" CONTENT="5;URL='//evil.com/x'">`,
			want: "http://evil.com/x",
		},
		{
			name: "relative url",
			body: `<meta http-equiv="refresh" content="0;url=/next" />`,
			want: "http://example.com/next",
		},
		{
			name: "delay only",
			body: `<meta http-equiv="refresh" content="30">`,
			want: "",
		},
		{
			name: "other meta tags",
			body: `<meta charset="utf-8"><meta name="viewport" content="width=device-width">`,
			want: "",
		},
		{
			name: "no html",
			body: `plain text`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetaRefresh([]byte(tt.body), "http://example.com/page")
			if got != tt.want {
				t.Errorf("MetaRefresh() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOffsite(t *testing.T) {
	tests := []struct {
		origin string
		dest   string
		want   bool
	}{
		{"https://shop.example.com/r?u=FUZZ", "https://www.google.com/", true},
		{"https://shop.example.com/r?u=FUZZ", "https://login.example.com/home", false},
		{"https://a.example.co.uk/", "https://b.example.co.uk/", false},
		{"https://a.example.co.uk/", "https://other.co.uk/", true},
		{"http://127.0.0.1:8080/", "http://127.0.0.1:9090/", false},
		{"http://127.0.0.1/", "http://10.0.0.1/", true},
		{"http://localhost/", "http://localhost/x", false},
		{"http://x.com/", "", false},
		{"http://x.com/", "::bad", false},
	}

	for _, tt := range tests {
		if got := Offsite(tt.origin, tt.dest); got != tt.want {
			t.Errorf("Offsite(%q, %q) = %v, want %v", tt.origin, tt.dest, got, tt.want)
		}
	}
}
