// Package urlutil provides small, pure helpers for working with the website
// URLs that visitors submit. Input arrives in every imaginable shape
// ("example.com", " https://example.com/ ", "www.example.com/over-ons"), so
// the rest of the application only ever deals with the normalized form
// produced here.
package urlutil

import (
	"net/url"
	"strings"
)

// Normalize trims the input and prepends "https://" when no scheme is
// present. Inputs that already carry http:// or https:// are returned
// unchanged (apart from trimming), which makes Normalize idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// IsValid reports whether s parses as an absolute URL with a host. It is
// meant to be called on the output of Normalize; raw user input should be
// normalized first so that schemeless-but-fine inputs like "example.com"
// validate.
func IsValid(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

// Domain extracts the hostname from rawURL, stripping a leading "www.".
// It returns "" when rawURL does not parse. Used to seed fallback content
// and prompts with a human-friendly company handle.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// CompanyName derives a rough company name from a URL: the first label of
// the domain ("bakkerij" for "bakkerij.nl"). Only used by fallback content.
func CompanyName(rawURL string) string {
	d := Domain(rawURL)
	if d == "" {
		return ""
	}
	if i := strings.IndexByte(d, '.'); i > 0 {
		return d[:i]
	}
	return d
}
