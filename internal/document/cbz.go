package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// cbzWriter stores pages as zero-padded sequential entries so comic readers,
// which sort by name, keep page order.
type cbzWriter struct {
	out   *os.File
	zw    *zip.Writer
	pages int
}

func newCBZ(path string) (*cbzWriter, error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &cbzWriter{out: out, zw: zip.NewWriter(out)}, nil
}

func (w *cbzWriter) AddPage(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(imagePath))
	header.Name = fmt.Sprintf("%04d%s", w.pages, ext)
	header.Method = zip.Deflate

	entry, err := w.zw.CreateHeader(header)
	if err != nil {
		return err
	}

	if _, err := io.Copy(entry, f); err != nil {
		return err
	}

	w.pages++
	return nil
}

func (w *cbzWriter) Pages() int { return w.pages }

func (w *cbzWriter) Close() error {
	if err := w.zw.Close(); err != nil {
		_ = w.out.Close()
		return err
	}

	return w.out.Close()
}
