package nelo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/nelodl/internal/apperr"
	"github.com/brogergvhs/nelodl/internal/providers"
)

const (
	chapterSelector = "a.chapter-name.text-nowrap"
	readerSelector  = "div.container-chapter-reader"
	lazySrcAttr     = "data-src"
)

type DocumentFetcher interface {
	FetchDocument(ctx context.Context, target string) (*goquery.Document, error)
}

type Scraper struct {
	fetcher DocumentFetcher
	log     interface{ Debugf(string, ...any) }
}

var _ providers.Scraper = (*Scraper)(nil)

func NewScraper(f DocumentFetcher, log interface{ Debugf(string, ...any) }) *Scraper {
	return &Scraper{fetcher: f, log: log}
}

func (s *Scraper) debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

// ListChapters returns the chapter anchors of indexURL in document order.
func (s *Scraper) ListChapters(ctx context.Context, indexURL string) ([]providers.ChapterRef, error) {
	doc, err := s.fetcher.FetchDocument(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	anchors := doc.Find(chapterSelector)
	if anchors.Length() == 0 {
		return nil, &apperr.ParseError{URL: indexURL, What: fmt.Sprintf("no %q anchors", chapterSelector)}
	}

	out := make([]providers.ChapterRef, 0, anchors.Length())
	var missing int

	anchors.Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			if missing == 0 {
				missing = i + 1
			}
			return
		}

		out = append(out, providers.ChapterRef{
			Name: strings.TrimSpace(a.Text()),
			Link: strings.TrimSpace(href),
		})
	})

	if missing > 0 {
		return nil, &apperr.ParseError{URL: indexURL, What: fmt.Sprintf("chapter anchor %d has no href", missing)}
	}

	s.debugf("Found %d chapter anchors on %s", len(out), indexURL)

	return out, nil
}

// ListPages returns the absolute page image URLs of a chapter in reading order.
func (s *Scraper) ListPages(ctx context.Context, chapterURL string) ([]string, error) {
	doc, err := s.fetcher.FetchDocument(ctx, chapterURL)
	if err != nil {
		return nil, err
	}

	reader := doc.Find(readerSelector).First()
	if reader.Length() == 0 {
		return nil, &apperr.ParseError{URL: chapterURL, What: fmt.Sprintf("no %q element", readerSelector)}
	}

	imgs := reader.Find("img")
	pages := make([]string, 0, imgs.Length())

	for i := range imgs.Nodes {
		src, ok := imgs.Eq(i).Attr(lazySrcAttr)
		src = strings.TrimSpace(src)
		if !ok || src == "" {
			return nil, &apperr.ParseError{URL: chapterURL, What: fmt.Sprintf("image %d has no %s", i, lazySrcAttr)}
		}

		pages = append(pages, resolve(chapterURL, src))
	}

	s.debugf("Found %d pages on %s", len(pages), chapterURL)

	return pages, nil
}

func resolve(base, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}

	b, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return b.ResolveReference(u).String()
}
