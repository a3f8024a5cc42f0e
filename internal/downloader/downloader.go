package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/brogergvhs/nelodl/internal/apperr"
	"github.com/brogergvhs/nelodl/internal/fetch"
	"github.com/brogergvhs/nelodl/internal/ui"
)

// Fetcher is the part of fetch.Fetcher the downloader needs.
type Fetcher interface {
	Fetch(ctx context.Context, target string, progress func(done int64)) (*fetch.Response, error)
}

// Progress receives per-chapter download progress. ui.ProgressHandle
// implements it.
type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

// Result is the outcome of one page download. Path is set only on success.
type Result struct {
	Index  int
	URL    string
	Path   string
	Format string
	Bytes  int64
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

type Options struct {
	// Workers caps concurrent page downloads per chapter; zero starts one
	// goroutine per page.
	Workers     int
	JPEGQuality int
}

type Downloader struct {
	fetcher Fetcher
	log     *ui.Logger
	workers int
	quality int
}

func New(f Fetcher, log *ui.Logger, opts Options) *Downloader {
	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	return &Downloader{
		fetcher: f,
		log:     log,
		workers: max(0, opts.Workers),
		quality: quality,
	}
}

// PageFile is the workspace file name of the page at index.
func PageFile(index int) string {
	return fmt.Sprintf("%d.jpg", index)
}

// DownloadPage fetches one page into workspace as <index>.jpg and normalizes
// it to JPEG. A non-2xx response fails the page without touching the disk.
func (d *Downloader) DownloadPage(ctx context.Context, workspace string, index int, url string, progress func(done int64)) Result {
	res := Result{Index: index, URL: url}

	resp, err := d.fetcher.Fetch(ctx, url, progress)
	if err != nil {
		res.Err = err
		return res
	}
	res.Bytes = int64(len(resp.Body))

	if !resp.OK() {
		res.Err = &apperr.RequestError{URL: url, Status: resp.StatusCode}
		return res
	}

	path := filepath.Join(workspace, PageFile(index))
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		res.Err = &apperr.FilesystemError{Op: "write page", Path: path, Err: err}
		return res
	}

	format, err := normalize(path, d.quality)
	res.Format = format
	if err != nil {
		_ = os.Remove(path)
		res.Err = err
		return res
	}

	d.log.Debugf("Page %d: %s (%s, %d bytes)", index, url, format, res.Bytes)

	res.Path = path
	return res
}

// DownloadAll downloads every page of a chapter concurrently and returns one
// Result per URL, ordered by page index. Failures are logged and reported in
// the results; they never stop the other pages. ph may be nil.
func (d *Downloader) DownloadAll(ctx context.Context, workspace string, urls []string, ph Progress) []Result {
	total := len(urls)
	results := make([]Result, total)

	var (
		done     atomic.Int64
		received atomic.Int64
		wg       sync.WaitGroup
		sem      chan struct{}
	)

	if d.workers > 0 {
		sem = make(chan struct{}, d.workers)
	}

	report := func() {
		if ph != nil {
			ph.Update(int(done.Load()), total, received.Load())
		}
	}
	report()

	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			var last int64
			res := d.DownloadPage(ctx, workspace, i, u, func(n int64) {
				received.Add(n - last)
				last = n
				report()
			})

			if res.Err != nil {
				d.log.Errorf("Failed to download %s: %v", u, res.Err)
			}

			results[i] = res
			done.Add(1)
			report()
		}()
	}

	wg.Wait()

	if ph != nil {
		ph.MarkDone()
	}

	return results
}
