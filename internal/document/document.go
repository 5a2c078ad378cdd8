// Package document fetches one remote page and exposes it as raw bytes, an HTML tree or a JSON
// value. Each view is computed at most once per Document, and all views share a single GET.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/drewfead/ts-archive/internal/lazy"
	"golang.org/x/net/html/charset"
)

const DefaultBaseURL = "https://www.tagesschau.de"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode json")
)

type Document struct {
	url        string
	baseURL    string
	httpClient *http.Client

	// contentType is the Content-Type header of the response, set by the fetch.
	contentType string

	raw  lazy.Value[[]byte]
	html lazy.Value[*goquery.Document]
	json lazy.Value[any]
}

// Option applies configuration to a Document.
type Option func(*Document)

// WithBaseURL sets the base that relative references resolve against (e.g. httptest.Server.URL in tests).
func WithBaseURL(baseURL string) Option {
	return func(d *Document) {
		if baseURL != "" {
			d.baseURL = baseURL
		}
	}
}

// WithClient sets the HTTP client used for the fetch (e.g. httptest.Server.Client() in tests).
func WithClient(client *http.Client) Option {
	return func(d *Document) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// New returns a Document for ref, which may be absolute or relative to the base URL.
// Nothing is fetched until one of the views is requested.
func New(ref string, opts ...Option) *Document {
	d := &Document{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.url = Resolve(d.baseURL, ref)
	return d
}

// Resolve makes ref absolute. Absolute http(s) URLs are returned unchanged, protocol-relative
// ones get https, anything else is joined to base with exactly one slash.
func Resolve(base, ref string) string {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

func (d *Document) URL() string {
	return d.url
}

func (d *Document) String() string {
	return d.url
}

// Raw returns the response body. The first call performs the GET; transport failures and
// non-2xx statuses are returned as errors and cached like a successful body.
func (d *Document) Raw(ctx context.Context) ([]byte, error) {
	return d.raw.Get(func() ([]byte, error) {
		return d.fetch(ctx)
	})
}

// HTML returns the parsed HTML tree of the body, decoded to UTF-8 from the charset declared in
// the Content-Type header or a <meta> tag. Malformed markup yields a degraded tree, not an error.
func (d *Document) HTML(ctx context.Context) (*goquery.Document, error) {
	return d.html.Get(func() (*goquery.Document, error) {
		body, err := d.Raw(ctx)
		if err != nil {
			return nil, err
		}
		r, err := charset.NewReader(bytes.NewReader(body), d.contentType)
		if err != nil {
			return nil, fmt.Errorf("decode charset %s: %w", d.url, err)
		}
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("parse html %s: %w", d.url, err)
		}
		return doc, nil
	})
}

// JSON returns the body decoded into generic JSON values (map[string]any, []any, ...).
func (d *Document) JSON(ctx context.Context) (any, error) {
	return d.json.Get(func() (any, error) {
		var v any
		if err := d.DecodeJSON(ctx, &v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// DecodeJSON unmarshals the body into dest. Only the fetch is cached; decoding runs on every call.
func (d *Document) DecodeJSON(ctx context.Context, dest any) error {
	body, err := d.Raw(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, d.url, err)
	}
	return nil
}

func (d *Document) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.url, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: get %s: %s", ErrUnexpectedStatus, d.url, resp.Status)
	}
	d.contentType = resp.Header.Get("Content-Type")
	return body, nil
}
