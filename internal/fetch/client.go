package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/nelodl/internal/apperr"
)

type Options struct {
	// Timeout bounds a whole request; zero means no timeout.
	Timeout          time.Duration
	Profile          Profile
	CloudflareBypass bool
	Transport        http.RoundTripper
	DebugLogger      interface {
		Debugf(string, ...any)
	}
}

// Fetcher issues single-attempt GET requests with the fixed header profile.
type Fetcher struct {
	client  *http.Client
	profile Profile
}

// Response is a fully read HTTP response. Body is already decoded according
// to Content-Encoding.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func New(opts Options) *Fetcher {
	var base http.RoundTripper
	if opts.Transport != nil {
		base = opts.Transport
	} else {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			// Accept-Encoding is set by hand, so bodies are decoded in decodeBody.
			DisableCompression:  true,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		}
	}

	if opts.CloudflareBypass {
		base = cloudflarebp.AddCloudFlareByPass(base)
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: roundTripper{
			base: base,
			log:  opts.DebugLogger,
		},
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, cloudflare=%t)",
			opts.Timeout, opts.CloudflareBypass)
	}

	return &Fetcher{
		client:  client,
		profile: opts.Profile.withDefaults(),
	}
}

type roundTripper struct {
	base http.RoundTripper
	log  interface{ Debugf(string, ...any) }
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s (host=%s)", req.Method, req.URL.String(), req.Host)
	}

	return rt.base.RoundTrip(req)
}

// Fetch performs one GET of target. A non-2xx status is not an error here;
// callers decide what to do with it. progress, when non-nil, receives the
// running count of decoded body bytes.
func (f *Fetcher) Fetch(ctx context.Context, target string, progress func(done int64)) (*Response, error) {
	headers, err := RequestHeaders(target, f.profile)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &apperr.RequestError{URL: target, Err: err}
	}

	req.Host = headers.Get("Host")
	headers.Del("Host")
	req.Header = headers

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &apperr.RequestError{URL: target, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, &apperr.RequestError{URL: target, Status: resp.StatusCode, Err: err}
	}
	defer func() {
		_ = body.Close()
	}()

	var buf bytes.Buffer
	if _, err := copyWithProgress(&buf, body, progress); err != nil {
		return nil, &apperr.RequestError{URL: target, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return &Response{
		URL:         target,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        buf.Bytes(),
	}, nil
}

// FetchDocument fetches target and parses it as HTML. Unlike Fetch, a non-2xx
// status is reported as a RequestError.
func (f *Fetcher) FetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	resp, err := f.Fetch(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &apperr.RequestError{URL: target, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &apperr.ParseError{URL: target, What: err.Error()}
	}

	return doc, nil
}
