package httputil

import (
	"log/slog"
	"net/http"
	"time"
)

const DefaultUserAgent = "ts-archive/1.0 (+https://github.com/drewfead/ts-archive)"

// Transport is an http.RoundTripper that stamps a User-Agent on every request and logs each
// round trip at debug level. It never retries and never caches.
type Transport struct {
	Base http.RoundTripper

	// UserAgent is set on requests that do not already carry one. Empty means DefaultUserAgent.
	UserAgent string

	// OnRoundTrip, if set, is called after every completed round trip with the request URL and
	// response status.
	OnRoundTrip func(url string, status int)
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.Header.Get("User-Agent") == "" {
		ua := t.UserAgent
		if ua == "" {
			ua = DefaultUserAgent
		}
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", ua)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		slog.Debug("http request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}
	slog.Debug("http request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	if t.OnRoundTrip != nil {
		t.OnRoundTrip(req.URL.String(), resp.StatusCode)
	}
	return resp, nil
}

// NewClient returns an http.Client using Transport over base. onRoundTrip may be nil. There is
// no timeout: a hung server blocks until the caller's context is done.
func NewClient(base http.RoundTripper, userAgent string, onRoundTrip func(url string, status int)) *http.Client {
	return &http.Client{
		Transport: &Transport{Base: base, UserAgent: userAgent, OnRoundTrip: onRoundTrip},
	}
}
