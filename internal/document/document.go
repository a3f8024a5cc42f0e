// Package document assembles ordered page images into a single output file.
package document

import (
	"fmt"
	"strings"
)

const (
	FormatPDF = "pdf"
	FormatCBZ = "cbz"
)

var Formats = []string{FormatPDF, FormatCBZ}

// Writer appends pages in call order. Close finalizes and flushes the file;
// after a failed Close the file content is undefined.
type Writer interface {
	AddPage(imagePath string) error
	Pages() int
	Close() error
}

// NormalizeFormat lower-cases f and defaults the empty string to PDF.
func NormalizeFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatCBZ:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %s)", f, strings.Join(Formats, " or "))
	}
}

// Create opens a new document of the given format at path.
func Create(format, path string) (Writer, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCBZ:
		return newCBZ(path)
	default:
		return newPDF(path)
	}
}
