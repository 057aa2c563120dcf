// Package document builds a paginated PDF from an ordered list of images,
// one full-bleed page per image.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var ErrNoPage = errors.New("no page started")

// Writer is the page-at-a-time document interface the Assembler drives.
type Writer interface {
	SetPageSize(width, height float64) error
	DrawFullPageImage(path string, width, height float64) error
	CommitPage() error
	Finalize() error
}

// PDF is a Writer backed by gofpdf. Units are points, so an image's pixel
// dimensions become the page size one to one.
type PDF struct {
	path   string
	pdf    *gofpdf.Fpdf
	pages  int
	inPage bool
}

func NewPDF(path string) *PDF {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("comic-pager", true)
	return &PDF{path: path, pdf: pdf}
}

func (p *PDF) SetPageSize(width, height float64) error {
	p.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
	p.inPage = true
	return p.pdf.Error()
}

func (p *PDF) DrawFullPageImage(path string, width, height float64) error {
	if !p.inPage {
		return ErrNoPage
	}
	opts := gofpdf.ImageOptions{
		ImageType: imageType(path),
		ReadDpi:   false,
	}
	p.pdf.ImageOptions(path, 0, 0, width, height, false, opts, 0, "")
	if err := p.pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw %s: %w", path, err)
	}
	return nil
}

func (p *PDF) CommitPage() error {
	if !p.inPage {
		return ErrNoPage
	}
	p.inPage = false
	p.pages++
	return p.pdf.Error()
}

// Finalize writes the document to disk.
func (p *PDF) Finalize() error {
	if err := p.pdf.OutputFileAndClose(p.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.path, err)
	}
	return nil
}

// Pages returns the number of committed pages.
func (p *PDF) Pages() int {
	return p.pages
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	default:
		return "JPG"
	}
}
