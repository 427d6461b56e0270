package layout

import (
	"fmt"
	"math"
	"sort"

	lpdf "github.com/ledongthuc/pdf"
)

// Options controls how characters are grouped into text lines.
// The zero value picks the defaults.
type Options struct {
	// XTolerance is the maximum horizontal drift, in points, between
	// characters that still belong to the same vertical run. It also
	// bounds row clustering jitter.
	XTolerance float64
	// YTolerance is the maximum baseline distance, in points, between
	// characters on the same horizontal line.
	YTolerance float64
	// MinRunLength is the minimum number of characters for a vertical run.
	MinRunLength int
}

// DefaultOptions returns the grouping tolerances used when none are configured.
func DefaultOptions() Options {
	return Options{
		XTolerance:   3.0,
		YTolerance:   3.0,
		MinRunLength: 2,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.XTolerance <= 0 {
		o.XTolerance = def.XTolerance
	}
	if o.YTolerance <= 0 {
		o.YTolerance = def.YTolerance
	}
	if o.MinRunLength <= 0 {
		o.MinRunLength = def.MinRunLength
	}
	return o
}

// AnalysisError reports that layout analysis could not produce geometry
// for a page.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("layout analysis of %s failed: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Analyze reads the first page of the document at path and returns its
// geometry. The document is expected to be a single-page file produced by
// page materialization.
func Analyze(path string, opts Options) (_ *Layout, err error) {
	opts = opts.withDefaults()

	// The underlying reader panics on some corrupt content streams.
	defer func() {
		if r := recover(); r != nil {
			err = &AnalysisError{Path: path, Err: fmt.Errorf("content stream: %v", r)}
		}
	}()

	f, reader, err := lpdf.Open(path)
	if err != nil {
		return nil, &AnalysisError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if reader.NumPage() < 1 {
		return nil, &AnalysisError{Path: path, Err: fmt.Errorf("document has no pages")}
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return nil, &AnalysisError{Path: path, Err: fmt.Errorf("page 1 unreadable")}
	}

	width, height := pageSize(page)
	chars := extractChars(page.Content())

	l := &Layout{
		Width:  width,
		Height: height,
		Chars:  chars,
	}
	l.VerticalText, l.HorizontalText = groupLines(chars, opts)
	return l, nil
}

// pageSize reads the MediaBox, falling back to US Letter when absent.
func pageSize(page lpdf.Page) (float64, float64) {
	width, height := 612.0, 792.0
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		x0 := mediaBox.Index(0).Float64()
		y0 := mediaBox.Index(1).Float64()
		x1 := mediaBox.Index(2).Float64()
		y1 := mediaBox.Index(3).Float64()
		width = x1 - x0
		height = y1 - y0
	}
	return width, height
}

// extractChars flattens positioned text items into per-character boxes.
// Multi-character items are split evenly across the item's advance width.
// Whitespace is dropped; it separates runs but carries no geometry.
func extractChars(content lpdf.Content) []Char {
	var chars []Char
	for _, item := range content.Text {
		runes := []rune(item.S)
		if len(runes) == 0 {
			continue
		}
		charWidth := item.W / float64(len(runes))
		ascent := item.FontSize
		if ascent <= 0 {
			ascent = 1
		}
		x := item.X
		for _, r := range runes {
			if r != ' ' && r != '\t' && r != '\n' {
				chars = append(chars, Char{
					Box: Box{
						X0: x,
						Y0: item.Y,
						X1: x + charWidth,
						Y1: item.Y + ascent,
					},
					Text:     string(r),
					Font:     item.Font,
					FontSize: item.FontSize,
				})
			}
			x += charWidth
		}
	}
	return chars
}

// groupLines partitions chars into vertical runs and horizontal lines.
// Vertical runs are maximal stream-order sequences of characters stacked
// at a (near) constant X; everything else is clustered into horizontal
// lines by baseline.
func groupLines(chars []Char, opts Options) (vertical, horizontal []TextLine) {
	inVertical := make([]bool, len(chars))

	run := []int{}
	flush := func() {
		if len(run) >= opts.MinRunLength {
			vertical = append(vertical, buildVerticalLine(chars, run))
			for _, i := range run {
				inVertical[i] = true
			}
		}
		run = run[:0]
	}
	for i := range chars {
		if len(run) > 0 {
			prev := chars[run[len(run)-1]]
			cur := chars[i]
			stacked := math.Abs(cur.CenterX()-prev.CenterX()) <= opts.XTolerance &&
				math.Abs(cur.Y0-prev.Y0) > opts.YTolerance
			if !stacked {
				flush()
			}
		}
		run = append(run, i)
	}
	flush()

	horizontal = buildHorizontalLines(chars, inVertical, opts)
	return vertical, horizontal
}

// buildVerticalLine assembles a vertical run, recording its reading direction.
func buildVerticalLine(chars []Char, run []int) TextLine {
	line := TextLine{
		Box:      chars[run[0]].Box,
		Vertical: true,
		Upward:   chars[run[len(run)-1]].Y0 > chars[run[0]].Y0,
	}
	for _, i := range run {
		line.Chars = append(line.Chars, chars[i])
		line.Box = line.Box.union(chars[i].Box)
	}
	return line
}

// buildHorizontalLines clusters the remaining characters by baseline.
func buildHorizontalLines(chars []Char, inVertical []bool, opts Options) []TextLine {
	idx := make([]int, 0, len(chars))
	for i := range chars {
		if !inVertical[i] {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil
	}

	// Top-to-bottom, then left-to-right.
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := chars[idx[a]], chars[idx[b]]
		if math.Abs(ca.Y0-cb.Y0) > opts.YTolerance {
			return ca.Y0 > cb.Y0
		}
		return ca.X0 < cb.X0
	})

	var lines []TextLine
	var cur *TextLine
	curY := 0.0
	for _, i := range idx {
		c := chars[i]
		if cur == nil || math.Abs(c.Y0-curY) > opts.YTolerance {
			if cur != nil {
				lines = append(lines, *cur)
			}
			cur = &TextLine{Box: c.Box}
			curY = c.Y0
		}
		cur.Chars = append(cur.Chars, c)
		cur.Box = cur.Box.union(c.Box)
	}
	if cur != nil {
		lines = append(lines, *cur)
	}
	return lines
}
