// Package pipeline materializes selected pages of a source PDF as
// upright single-page documents with cached layout geometry, and hands
// them to a table parser.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/tablex/internal/layout"
	"github.com/MeKo-Tech/tablex/internal/render"
)

// Flavor selects the downstream table-extraction strategy. Lattice works
// on ruled grid lines and needs a rendered page image; stream works on
// text geometry alone.
type Flavor string

const (
	FlavorLattice Flavor = "lattice"
	FlavorStream  Flavor = "stream"
)

// ParseFlavor validates a flavor name.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(s)) {
	case FlavorLattice:
		return FlavorLattice, nil
	case FlavorStream:
		return FlavorStream, nil
	default:
		return "", fmt.Errorf("unknown flavor %q (must be %q or %q)", s, FlavorLattice, FlavorStream)
	}
}

// RequiresImage reports whether the flavor needs a rendered page image.
func (f Flavor) RequiresImage() bool { return f == FlavorLattice }

// LayoutAnalyzer produces page geometry from a single-page document.
type LayoutAnalyzer interface {
	Analyze(path string, opts layout.Options) (*layout.Layout, error)
}

// textAnalyzer is the default text-geometry analyzer.
type textAnalyzer struct{}

func (textAnalyzer) Analyze(path string, opts layout.Options) (*layout.Layout, error) {
	return layout.Analyze(path, opts)
}

// Renderer rasterizes a single-page document into an image artifact.
type Renderer interface {
	Render(pdfPath, imagePath string, dpi float64) error
}

// fitzRenderer is the default MuPDF-backed renderer.
type fitzRenderer struct{}

func (fitzRenderer) Render(pdfPath, imagePath string, dpi float64) error {
	return render.Page(pdfPath, imagePath, dpi)
}

// Table is a table reported by a parser. Detection itself lives outside
// this module; the type only fixes the boundary.
type Table struct {
	Page   int
	Order  int
	Bounds layout.Box
	Rows   [][]string
}

// TableParser consumes per-page geometry and reports the tables it
// finds. Implementations never touch the document files or the layout
// cache directly.
type TableParser interface {
	ExtractTables(g *PageGeometry) ([]Table, error)
}
