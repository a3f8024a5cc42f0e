// Package pipeline drives a whole manga download: list chapters, keep and
// order the real ones, then assemble them one after another.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/brogergvhs/nelodl/internal/assembler"
	"github.com/brogergvhs/nelodl/internal/chapters"
	"github.com/brogergvhs/nelodl/internal/fetch"
	"github.com/brogergvhs/nelodl/internal/providers"
	"github.com/brogergvhs/nelodl/internal/ui"
)

type ChapterLister interface {
	ListChapters(ctx context.Context, indexURL string) ([]providers.ChapterRef, error)
}

type ChapterAssembler interface {
	AssembleChapter(ctx context.Context, name, chapterURL string) (*assembler.Report, error)
}

type Options struct {
	// Range and List select 1-based positions of the sorted chapter list.
	Range string
	List  string
	// Out receives the "<name>: <url>" line printed before each chapter.
	Out io.Writer
}

// Chapter is a sorted chapter with its link resolved against the site root.
type Chapter struct {
	providers.ChapterRef
	URL string
}

type Pipeline struct {
	lister    ChapterLister
	assembler ChapterAssembler
	log       *ui.Logger
	opts      Options
}

func New(lister ChapterLister, asm ChapterAssembler, log *ui.Logger, opts Options) *Pipeline {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Pipeline{lister: lister, assembler: asm, log: log, opts: opts}
}

// Plan returns the chapters Run would assemble, in order.
func (p *Pipeline) Plan(ctx context.Context, mangaURL string) ([]Chapter, error) {
	origin, err := fetch.Origin(mangaURL)
	if err != nil {
		return nil, err
	}

	all, err := p.lister.ListChapters(ctx, mangaURL)
	if err != nil {
		return nil, err
	}

	kept := chapters.FilterKeyword(all, chapters.Keyword)
	if dropped := len(all) - len(kept); dropped > 0 {
		p.log.Debugf("Ignoring %d entries without %q in their name", dropped, chapters.Keyword)
	}

	selected, err := chapters.Select(chapters.Sort(kept), p.opts.Range, p.opts.List)
	if err != nil {
		return nil, err
	}

	out := make([]Chapter, 0, len(selected))
	for _, c := range selected {
		link, err := resolveLink(origin, c.Link)
		if err != nil {
			return nil, err
		}
		out = append(out, Chapter{ChapterRef: c, URL: link})
	}

	return out, nil
}

// Run assembles every planned chapter sequentially. The first chapter-level
// error stops the run; stats cover the chapters finished before it.
func (p *Pipeline) Run(ctx context.Context, mangaURL string) (*ui.Stats, error) {
	start := time.Now()
	stats := &ui.Stats{}

	planned, err := p.Plan(ctx, mangaURL)
	if err != nil {
		return stats, err
	}

	p.log.Infof("Found %d chapters", len(planned))

	for _, ch := range planned {
		_, _ = fmt.Fprintf(p.opts.Out, "%s: %s\n", ch.Name, ch.URL)

		rep, err := p.assembler.AssembleChapter(ctx, ch.Name, ch.URL)
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("chapter %q: %w", ch.Name, err)
		}

		stats.Chapters++
		stats.Pages += rep.Written
		stats.Missing += len(rep.Missing)
		stats.Bytes += rep.Bytes
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func resolveLink(origin, link string) (string, error) {
	base, err := url.Parse(origin + "/")
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("chapter link %q: %w", link, err)
	}

	return base.ResolveReference(ref).String(), nil
}
