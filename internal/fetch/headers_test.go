package fetch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/nelodl/internal/apperr"
	"github.com/brogergvhs/nelodl/internal/fetch"
)

func TestHostOf(t *testing.T) {
	host, err := fetch.HostOf("https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)

	host, err = fetch.HostOf("http://example.com:8080/manga/abc")
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
}

func TestHostOfRejectsMalformedURL(t *testing.T) {
	for _, raw := range []string{"not-a-url", "", "/relative/path", "://missing-scheme", "http://"} {
		t.Run(raw, func(t *testing.T) {
			var host string
			var err error
			require.NotPanics(t, func() { host, err = fetch.HostOf(raw) })

			require.Error(t, err)
			assert.Empty(t, host)

			var reqErr *apperr.RequestError
			require.True(t, errors.As(err, &reqErr), "want *apperr.RequestError, got %T", err)
			assert.Equal(t, raw, reqErr.URL)
		})
	}
}

func TestOrigin(t *testing.T) {
	origin, err := fetch.Origin("https://ww8.manganelo.tv/manga/abc?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://ww8.manganelo.tv", origin)

	_, err = fetch.Origin("not-a-url")
	assert.ErrorIs(t, err, apperr.ErrNoHost)
}

func TestRequestHeaders(t *testing.T) {
	h, err := fetch.RequestHeaders("https://example.com/x", fetch.Profile{})
	require.NoError(t, err)

	assert.Equal(t, "example.com", h.Get("Host"))
	assert.Equal(t, fetch.DefaultAccept, h.Get("Accept"))
	assert.Equal(t, "gzip, deflate, br", h.Get("Accept-Encoding"))
	assert.Equal(t, fetch.DefaultUserAgent, h.Get("User-Agent"))
	assert.Equal(t, "en-ca", h.Get("Accept-Language"))
	assert.Equal(t, "https://manganelo.com/", h.Get("Referer"))
	assert.Equal(t, "keep-alive", h.Get("Connection"))
}

func TestRequestHeadersProfileOverride(t *testing.T) {
	h, err := fetch.RequestHeaders("https://cdn.example.org/1.webp", fetch.Profile{
		UserAgent: "nelodl-test",
		Referer:   "https://example.org/",
	})
	require.NoError(t, err)

	assert.Equal(t, "cdn.example.org", h.Get("Host"))
	assert.Equal(t, "nelodl-test", h.Get("User-Agent"))
	assert.Equal(t, "https://example.org/", h.Get("Referer"))
	assert.Equal(t, fetch.DefaultAcceptLanguage, h.Get("Accept-Language"))
}

func TestRequestHeadersMalformedURL(t *testing.T) {
	h, err := fetch.RequestHeaders("not-a-url", fetch.DefaultProfile())
	assert.Nil(t, h)

	var reqErr *apperr.RequestError
	assert.ErrorAs(t, err, &reqErr)
}
