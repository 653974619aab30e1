// Package detect inspects where a fuzzed request ended up.
package detect

import (
	"bytes"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"
)

// MetaRefresh returns the destination of the first
// <meta http-equiv="refresh"> tag in body, resolved against pageURL.
// It returns "" if there is none.
func MetaRefresh(body []byte, pageURL string) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}
			var equiv, content string
			for {
				key, val, more := z.TagAttr()
				switch strings.ToLower(string(key)) {
				case "http-equiv":
					equiv = strings.ToLower(strings.TrimSpace(string(val)))
				case "content":
					content = string(val)
				}
				if !more {
					break
				}
			}
			if equiv != "refresh" {
				continue
			}
			if dest := refreshTarget(content); dest != "" {
				return resolve(pageURL, dest)
			}
		}
	}
}

// refreshTarget extracts the URL part of a refresh content value such as
// `0; url='https://example.com/'`.
func refreshTarget(content string) string {
	_, rest, ok := strings.Cut(content, ";")
	if !ok {
		_, rest, ok = strings.Cut(content, ",")
		if !ok {
			return ""
		}
	}
	rest = strings.TrimSpace(rest)
	if len(rest) >= 4 && strings.EqualFold(rest[:4], "url=") {
		rest = strings.TrimSpace(rest[4:])
	}
	return strings.Trim(rest, `'"`)
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Offsite reports whether dest lives on a different registrable domain
// than origin. Unparseable or host-less URLs are never offsite.
func Offsite(origin, dest string) bool {
	oh := hostname(origin)
	dh := hostname(dest)
	if oh == "" || dh == "" {
		return false
	}
	return RegistrableDomain(oh) != RegistrableDomain(dh)
}

// RegistrableDomain returns the eTLD+1 of host, or host itself for IP
// addresses and names without a public suffix (e.g. localhost).
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
