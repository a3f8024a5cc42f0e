// Package assembler turns one chapter into one document: it lists the
// chapter's pages, downloads them into a transient workspace and writes the
// successfully downloaded pages, in page order, into the output document.
//
// All paths are explicit; the process working directory is never changed, so
// chapters could safely be assembled concurrently even though the pipeline
// runs them one at a time.
package assembler

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/brogergvhs/nelodl/internal/apperr"
	"github.com/brogergvhs/nelodl/internal/document"
	"github.com/brogergvhs/nelodl/internal/downloader"
	"github.com/brogergvhs/nelodl/internal/ui"
	"github.com/brogergvhs/nelodl/internal/util"
)

type PageLister interface {
	ListPages(ctx context.Context, chapterURL string) ([]string, error)
}

type PageDownloader interface {
	DownloadAll(ctx context.Context, workspace string, urls []string, ph downloader.Progress) []downloader.Result
}

type Options struct {
	// OutputDir receives finished documents and hosts the workspaces.
	OutputDir     string
	Format        string
	KeepWorkspace bool
	// Progress, when set, creates the progress sink for one chapter.
	Progress func(chapter string) downloader.Progress
	// Workspaces, when set, tracks live workspaces for interrupt cleanup.
	Workspaces *util.Workspaces
}

type Assembler struct {
	pages PageLister
	dl    PageDownloader
	log   *ui.Logger
	opts  Options
}

// Report describes one assembled chapter.
type Report struct {
	Name    string
	Output  string
	Listed  int
	Written int
	Missing []int
	Bytes   int64
}

func New(pages PageLister, dl PageDownloader, log *ui.Logger, opts Options) (*Assembler, error) {
	format, err := document.NormalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	return &Assembler{pages: pages, dl: dl, log: log, opts: opts}, nil
}

// AssembleChapter builds <OutputDir>/<name>.<format> from the reader page at
// chapterURL. Page failures leave gaps; listing, workspace and document
// failures are returned. The workspace is removed in every case.
func (a *Assembler) AssembleChapter(ctx context.Context, name, chapterURL string) (rep *Report, err error) {
	pages, err := a.pages.ListPages(ctx, chapterURL)
	if err != nil {
		return nil, err
	}

	home := a.opts.OutputDir
	base := util.SafeFileName(name)
	workspace := filepath.Join(home, base)

	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, &apperr.FilesystemError{Op: "create workspace", Path: workspace, Err: err}
	}
	if a.opts.Workspaces != nil {
		a.opts.Workspaces.Add(workspace)
	}
	defer func() {
		if cerr := a.teardown(workspace); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var ph downloader.Progress
	if a.opts.Progress != nil {
		ph = a.opts.Progress(name)
	}

	results := a.dl.DownloadAll(ctx, workspace, pages, ph)

	rep = &Report{Name: name, Listed: len(pages)}
	for _, r := range results {
		rep.Bytes += r.Bytes
	}

	docName := base + "." + a.opts.Format
	staged := filepath.Join(workspace, docName)

	w, err := document.Create(a.opts.Format, staged)
	if err != nil {
		return nil, &apperr.FilesystemError{Op: "create document", Path: staged, Err: err}
	}

	for _, r := range results {
		if !r.OK() {
			rep.Missing = append(rep.Missing, r.Index)
			continue
		}

		if err := w.AddPage(r.Path); err != nil {
			a.log.Errorf("Failed to read image %s: %v", r.Path, err)
			rep.Missing = append(rep.Missing, r.Index)
			continue
		}
	}
	rep.Written = w.Pages()

	if err := w.Close(); err != nil {
		return nil, &apperr.FilesystemError{Op: "finalize document", Path: staged, Err: err}
	}

	dest := filepath.Join(home, docName)
	if err := util.CopyFile(staged, dest); err != nil {
		return nil, &apperr.FilesystemError{Op: "copy document", Path: dest, Err: err}
	}
	rep.Output = dest

	if len(rep.Missing) > 0 {
		a.log.Warnf("%s: %d of %d pages missing %v", name, len(rep.Missing), rep.Listed, rep.Missing)
	}

	return rep, nil
}

func (a *Assembler) teardown(workspace string) error {
	if a.opts.Workspaces != nil {
		defer a.opts.Workspaces.Remove(workspace)
	}

	if a.opts.KeepWorkspace {
		a.log.Infof("Keeping workspace %s", workspace)
		return nil
	}

	if err := os.RemoveAll(workspace); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &apperr.FilesystemError{Op: "remove workspace", Path: workspace, Err: err}
	}

	return nil
}
