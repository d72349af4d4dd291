// Package docs composes finished post text and its images into a PDF
// artifact for operator review.
package docs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Renderer writes review documents to disk.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes text and each image in imagePaths below it into a
// single A4 PDF at outPath. Parent directories are created as needed.
func (r *Renderer) Render(text string, imagePaths []string, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, 6, tr(text), "", "L", false)

	for _, imagePath := range imagePaths {
		if _, err := os.Stat(imagePath); err != nil {
			return fmt.Errorf("image not found: %w", err)
		}

		pdf.Ln(6)
		pdf.ImageOptions(
			imagePath, 15, pdf.GetY(), 120, 0, true,
			fpdf.ImageOptions{ReadDpi: true}, 0, "",
		)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}
