package providers

import "context"

// ChapterRef is one entry of a chapter-list page: the visible chapter name and
// its link as written in the page (usually relative to the site root).
type ChapterRef struct {
	Name string
	Link string
}

// Scraper understands the two page shapes of a source: the chapter list and
// the chapter reader.
type Scraper interface {
	ListChapters(ctx context.Context, indexURL string) ([]ChapterRef, error)
	ListPages(ctx context.Context, chapterURL string) ([]string, error)
}
