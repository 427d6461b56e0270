// Package render rasterizes a single-page PDF into a PNG artifact for
// grid-line based table detection.
package render

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 150.0

// Page renders the first page of the document at pdfPath into a PNG at
// imagePath.
func Page(pdfPath, imagePath string, dpi float64) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return fmt.Errorf("opening %s for rendering: %w", pdfPath, err)
	}
	defer func() { _ = doc.Close() }()

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", pdfPath, err)
	}

	if err := imaging.Save(img, imagePath); err != nil {
		return fmt.Errorf("writing %s: %w", imagePath, err)
	}
	return nil
}
