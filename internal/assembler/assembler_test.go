package assembler_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/nelodl/internal/apperr"
	"github.com/brogergvhs/nelodl/internal/assembler"
	"github.com/brogergvhs/nelodl/internal/document"
	"github.com/brogergvhs/nelodl/internal/downloader"
	"github.com/brogergvhs/nelodl/internal/fetch"
	"github.com/brogergvhs/nelodl/internal/util"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

type staticPages struct {
	pages []string
	err   error
}

func (s staticPages) ListPages(context.Context, string) ([]string, error) {
	return s.pages, s.err
}

type sink struct {
	mu   sync.Mutex
	done bool
}

func (s *sink) Update(int, int, int64) {}

func (s *sink) MarkDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pageServer serves solid-colour pages. Earlier pages are slower so that
// downloads complete in reverse order. Paths listed in broken drop the
// connection without a response.
func pageServer(t *testing.T, colors map[string]color.Color, broken ...string) *httptest.Server {
	t.Helper()

	delays := map[string]time.Duration{"/0.png": 150 * time.Millisecond, "/1.png": 75 * time.Millisecond}
	payloads := map[string][]byte{}
	for p, c := range colors {
		payloads[p] = solidPNG(t, c)
	}
	drop := map[string]bool{}
	for _, p := range broken {
		drop[p] = true
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if drop[r.URL.Path] {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}

		body, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		time.Sleep(delays[r.URL.Path])
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newAssembler(t *testing.T, pages []string, opts assembler.Options) *assembler.Assembler {
	t.Helper()

	dl := downloader.New(fetch.New(fetch.Options{}), nil, downloader.Options{})
	a, err := assembler.New(staticPages{pages: pages}, dl, nil, opts)
	require.NoError(t, err)
	return a
}

// cbzColors returns the dominant channel of every page in a CBZ, in order.
func cbzColors(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var out []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		img, err := jpeg.Decode(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)

		r, g, b, _ := img.At(8, 12).RGBA()
		switch {
		case r > g && r > b:
			out = append(out, "red")
		case g > r && g > b:
			out = append(out, "green")
		default:
			out = append(out, "blue")
		}
	}

	return out
}

func TestAssembleChapterKeepsPageOrder(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": red, "/1.png": green, "/2.png": blue})
	out := t.TempDir()

	a := newAssembler(t, []string{srv.URL + "/0.png", srv.URL + "/1.png", srv.URL + "/2.png"},
		assembler.Options{OutputDir: out, Format: document.FormatCBZ})

	rep, err := a.AssembleChapter(context.Background(), "Chapter 1", "https://example.com/chapter-1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "Chapter 1.cbz"), rep.Output)
	assert.Equal(t, 3, rep.Listed)
	assert.Equal(t, 3, rep.Written)
	assert.Empty(t, rep.Missing)
	assert.Positive(t, rep.Bytes)

	assert.Equal(t, []string{"red", "green", "blue"}, cbzColors(t, rep.Output))
}

func TestAssembleChapterSkipsFailedPage(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": red, "/2.png": blue}, "/1.png")
	out := t.TempDir()

	a := newAssembler(t, []string{srv.URL + "/0.png", srv.URL + "/1.png", srv.URL + "/2.png"},
		assembler.Options{OutputDir: out, Format: document.FormatCBZ})

	rep, err := a.AssembleChapter(context.Background(), "Chapter 2", "https://example.com/chapter-2")
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Listed)
	assert.Equal(t, 2, rep.Written)
	assert.Equal(t, []int{1}, rep.Missing)
	assert.Equal(t, []string{"red", "blue"}, cbzColors(t, rep.Output))
}

func TestAssembleChapterWritesPDFByDefault(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": red, "/1.png": green})
	out := t.TempDir()
	progress := &sink{}

	a := newAssembler(t, []string{srv.URL + "/0.png", srv.URL + "/1.png"}, assembler.Options{
		OutputDir: out,
		Progress:  func(string) downloader.Progress { return progress },
	})

	rep, err := a.AssembleChapter(context.Background(), "Chapter 3", "https://example.com/chapter-3")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "Chapter 3.pdf"), rep.Output)
	data, err := os.ReadFile(rep.Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.True(t, progress.done)
}

func TestAssembleChapterReusesExistingWorkspace(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": red})
	out := t.TempDir()

	stale := filepath.Join(out, "Chapter 4")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "7.jpg"), []byte("left over"), 0o644))

	a := newAssembler(t, []string{srv.URL + "/0.png"}, assembler.Options{OutputDir: out, Format: document.FormatCBZ})

	for range 2 {
		rep, err := a.AssembleChapter(context.Background(), "Chapter 4", "https://example.com/chapter-4")
		require.NoError(t, err)
		assert.Equal(t, 1, rep.Written)
		assert.NoDirExists(t, stale)
	}
}

func TestAssembleChapterCleansUpAfterSuccessAndFailure(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": red})
	out := t.TempDir()
	ws := util.NewWorkspaces()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	a := newAssembler(t, []string{srv.URL + "/0.png"}, assembler.Options{OutputDir: out, Workspaces: ws})

	_, err = a.AssembleChapter(context.Background(), "Chapter 5", "https://example.com/chapter-5")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(out, "Chapter 5"))

	// A directory in the way of the final document makes the copy step fail.
	require.NoError(t, os.MkdirAll(filepath.Join(out, "Chapter 6.pdf"), 0o755))

	_, err = a.AssembleChapter(context.Background(), "Chapter 6", "https://example.com/chapter-6")
	var fsErr *apperr.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "copy document", fsErr.Op)
	assert.NoDirExists(t, filepath.Join(out, "Chapter 6"))

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, after)
	assert.Empty(t, ws.Active())
}

func TestAssembleChapterPageListErrorCreatesNoWorkspace(t *testing.T) {
	out := t.TempDir()
	listErr := &apperr.ParseError{URL: "https://example.com/c", What: "no reader"}

	dl := downloader.New(fetch.New(fetch.Options{}), nil, downloader.Options{})
	a, err := assembler.New(staticPages{err: listErr}, dl, nil, assembler.Options{OutputDir: out})
	require.NoError(t, err)

	rep, err := a.AssembleChapter(context.Background(), "Chapter 7", "https://example.com/c")
	assert.Nil(t, rep)
	assert.True(t, errors.Is(err, listErr))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssembleChapterKeepWorkspace(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": green})
	out := t.TempDir()

	a := newAssembler(t, []string{srv.URL + "/0.png"}, assembler.Options{OutputDir: out, KeepWorkspace: true})

	_, err := a.AssembleChapter(context.Background(), "Chapter 8", "https://example.com/chapter-8")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "Chapter 8", "0.jpg"))
	assert.FileExists(t, filepath.Join(out, "Chapter 8.pdf"))
}

func TestAssembleChapterSanitizesFileName(t *testing.T) {
	srv := pageServer(t, map[string]color.Color{"/0.png": blue})
	out := t.TempDir()

	a := newAssembler(t, []string{srv.URL + "/0.png"}, assembler.Options{OutputDir: out})

	rep, err := a.AssembleChapter(context.Background(), "Chapter 9 / Finale", "https://example.com/chapter-9")
	require.NoError(t, err)

	assert.Equal(t, "Chapter 9 / Finale", rep.Name)
	assert.Equal(t, filepath.Join(out, "Chapter 9 _ Finale.pdf"), rep.Output)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := assembler.New(staticPages{}, nil, nil, assembler.Options{Format: "epub"})
	assert.Error(t, err)
}
