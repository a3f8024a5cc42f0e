package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"

	"github.com/signintech/gopdf"
)

// pdfWriter puts one image per page, each page sized to its image.
type pdfWriter struct {
	out   *os.File
	pdf   *gopdf.GoPdf
	pages int
}

func newPDF(path string) (*pdfWriter, error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: *gopdf.PageSizeA4})

	return &pdfWriter{out: out, pdf: pdf}, nil
}

func (w *pdfWriter) AddPage(imagePath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("page %s: %w", imagePath, err)
	}

	holder, err := gopdf.ImageHolderByBytes(data)
	if err != nil {
		return fmt.Errorf("page %s: %w", imagePath, err)
	}

	rect := &gopdf.Rect{W: float64(cfg.Width), H: float64(cfg.Height)}
	w.pdf.AddPageWithOption(gopdf.PageOption{PageSize: rect})

	if err := w.pdf.ImageByHolder(holder, 0, 0, rect); err != nil {
		return fmt.Errorf("page %s: %w", imagePath, err)
	}

	w.pages++
	return nil
}

func (w *pdfWriter) Pages() int { return w.pages }

func (w *pdfWriter) Close() error {
	if err := w.pdf.Write(w.out); err != nil {
		_ = w.out.Close()
		return err
	}

	return w.out.Close()
}
