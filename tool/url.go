package tool

import (
	"fmt"
	"net/url"
)

const (
	ColorizeEndpoint = "/api/image-colorizer"
	LoginEndpoint    = "/login"
	SignupEndpoint   = "/signup"
)

// BuildColorizeURL builds the colorization endpoint URL from the backend base URL.
func BuildColorizeURL(base string) (string, error) {
	return joinBase(base, ColorizeEndpoint)
}

// BuildLoginURL builds the /login URL on the auth backend.
func BuildLoginURL(base string) (string, error) {
	return joinBase(base, LoginEndpoint)
}

// BuildSignupURL builds the /signup URL on the auth backend.
func BuildSignupURL(base string) (string, error) {
	return joinBase(base, SignupEndpoint)
}

func joinBase(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", base)
	}
	return u.JoinPath(path).String(), nil
}

// ResolveAgainst makes a backend-relative URL absolute. Absolute or unparsable input is returned as is.
func ResolveAgainst(base, raw string) string {
	if raw == "" {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return raw
	}
	return b.ResolveReference(ref).String()
}
