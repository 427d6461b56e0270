// Package layout performs geometric layout analysis of a single PDF page:
// it extracts positioned character boxes and groups them into horizontal
// and vertical text lines. Coordinates are PDF page coordinates in points,
// origin at the bottom-left corner.
package layout

import "strings"

// Box is an axis-aligned bounding box in page coordinates.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// union grows the box to cover o.
func (b Box) union(o Box) Box {
	if o.X0 < b.X0 {
		b.X0 = o.X0
	}
	if o.Y0 < b.Y0 {
		b.Y0 = o.Y0
	}
	if o.X1 > b.X1 {
		b.X1 = o.X1
	}
	if o.Y1 > b.Y1 {
		b.Y1 = o.Y1
	}
	return b
}

// Char is a single positioned character.
type Char struct {
	Box
	Text     string
	Font     string
	FontSize float64
}

// TextLine is a run of characters reading in one direction.
// For vertical lines, Upward reports whether the run reads bottom-to-top
// in stream order.
type TextLine struct {
	Box
	Chars    []Char
	Vertical bool
	Upward   bool
}

// Text returns the concatenated character content of the line.
func (l TextLine) Text() string {
	var sb strings.Builder
	for _, c := range l.Chars {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Blank reports whether the line carries no printable text.
func (l TextLine) Blank() bool {
	return strings.TrimSpace(l.Text()) == ""
}

// Size holds upright page dimensions in points.
type Size struct {
	Width  float64
	Height float64
}

// Layout is the analyzed geometry of one page.
type Layout struct {
	Width          float64
	Height         float64
	Chars          []Char
	HorizontalText []TextLine
	VerticalText   []TextLine
}

// Dimensions returns the page size carried by the layout.
func (l *Layout) Dimensions() Size {
	return Size{Width: l.Width, Height: l.Height}
}
