package downloader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	"github.com/brogergvhs/nelodl/internal/apperr"
)

const DefaultJPEGQuality = 90

// normalize decodes the image stored at path, whatever format the source
// served, and rewrites it in place as a JPEG. It returns the sniffed source
// MIME type.
func normalize(path string, quality int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &apperr.FilesystemError{Op: "read page", Path: path, Err: err}
	}

	format := mimetype.Detect(data).String()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return format, &apperr.ImageCodecError{Path: path, Format: format, Err: fmt.Errorf("decode: %w", err)}
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return format, &apperr.ImageCodecError{Path: path, Format: format, Err: fmt.Errorf("encode jpeg: %w", err)}
	}

	return format, nil
}
