package fetch

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/brogergvhs/nelodl/internal/apperr"
)

const (
	DefaultAccept         = "image/png,image/svg+xml,image/*;q=0.8,video/*;q=0.8,*/*;q=0.5"
	DefaultAcceptEncoding = "gzip, deflate, br"
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.1.2 Safari/605.1.15"
	DefaultAcceptLanguage = "en-ca"
	DefaultReferer        = "https://manganelo.com/"
)

// Profile is the part of the header set that may be overridden by config.
type Profile struct {
	UserAgent      string
	Referer        string
	AcceptLanguage string
}

func DefaultProfile() Profile {
	return Profile{
		UserAgent:      DefaultUserAgent,
		Referer:        DefaultReferer,
		AcceptLanguage: DefaultAcceptLanguage,
	}
}

func (p Profile) withDefaults() Profile {
	def := DefaultProfile()
	if p.UserAgent == "" {
		p.UserAgent = def.UserAgent
	}
	if p.Referer == "" {
		p.Referer = def.Referer
	}
	if p.AcceptLanguage == "" {
		p.AcceptLanguage = def.AcceptLanguage
	}

	return p
}

func parseAbs(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &apperr.RequestError{URL: raw, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &apperr.RequestError{URL: raw, Err: apperr.ErrNoHost}
	}

	return u, nil
}

// HostOf returns the host name (without port) of an absolute URL.
func HostOf(raw string) (string, error) {
	u, err := parseAbs(raw)
	if err != nil {
		return "", err
	}

	return u.Hostname(), nil
}

// Origin returns "scheme://host[:port]" of an absolute URL.
func Origin(raw string) (string, error) {
	u, err := parseAbs(raw)
	if err != nil {
		return "", err
	}

	return u.Scheme + "://" + u.Host, nil
}

// RequestHeaders builds the static header set sent with every request to raw.
func RequestHeaders(raw string, p Profile) (http.Header, error) {
	host, err := HostOf(raw)
	if err != nil {
		return nil, err
	}

	p = p.withDefaults()

	h := http.Header{}
	h.Set("Accept", DefaultAccept)
	h.Set("Accept-Encoding", DefaultAcceptEncoding)
	h.Set("User-Agent", p.UserAgent)
	h.Set("Host", host)
	h.Set("Accept-Language", p.AcceptLanguage)
	h.Set("Referer", p.Referer)
	h.Set("Connection", "keep-alive")

	return h, nil
}
