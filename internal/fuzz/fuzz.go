// Package fuzz places payloads at the keyword position of target URLs.
package fuzz

import (
	"net/url"
	"strings"
)

// Substitute replaces every occurrence of keyword in rawURL with payload.
// The payload is inserted verbatim: bypass payloads rely on characters such
// as "//", "@" and "%2f" reaching the server unencoded.
func Substitute(rawURL, keyword, payload string) string {
	if keyword == "" {
		return rawURL
	}
	return strings.ReplaceAll(rawURL, keyword, payload)
}

// Fuzzify prepares a target that does not contain keyword by setting the
// value of every query parameter to keyword. Parameter names and their order
// are preserved; parameters with an empty value are dropped. Targets that
// already contain keyword, or have no usable query, are returned unchanged.
func Fuzzify(rawURL, keyword string) string {
	if keyword == "" || strings.Contains(rawURL, keyword) {
		return rawURL
	}
	if _, err := url.Parse(rawURL); err != nil {
		return rawURL
	}

	head, fragment := rawURL, ""
	if fi := strings.IndexByte(rawURL, '#'); fi >= 0 {
		head, fragment = rawURL[:fi], rawURL[fi:]
	}
	qi := strings.IndexByte(head, '?')
	if qi < 0 {
		return rawURL
	}
	base, query := head[:qi], head[qi+1:]
	if query == "" {
		return rawURL
	}

	var pairs []string
	for _, part := range strings.Split(query, "&") {
		name, value, ok := strings.Cut(part, "=")
		if !ok || value == "" {
			continue
		}
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		pairs = append(pairs, url.QueryEscape(name)+"="+keyword)
	}

	if len(pairs) == 0 {
		return base + fragment
	}
	return base + "?" + strings.Join(pairs, "&") + fragment
}

// Prepare runs Fuzzify over every target, once per target.
func Prepare(targets []string, keyword string) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = Fuzzify(t, keyword)
	}
	return out
}
