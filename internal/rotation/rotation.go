// Package rotation infers the physical skew of a page from the geometry
// of its text, without touching the document itself.
package rotation

import "github.com/MeKo-Tech/tablex/internal/layout"

// Verdict names the 90-degree correction that restores upright reading
// orientation. None means the page already reads upright.
type Verdict int

const (
	None Verdict = iota
	Clockwise
	Anticlockwise
)

func (v Verdict) String() string {
	switch v {
	case Clockwise:
		return "clockwise"
	case Anticlockwise:
		return "anticlockwise"
	default:
		return "none"
	}
}

// Degrees returns the physical page rotation to apply for the verdict,
// positive meaning clockwise. Applying it yields an upright page.
func (v Verdict) Degrees() int {
	switch v {
	case Clockwise:
		return 90
	case Anticlockwise:
		return -90
	default:
		return 0
	}
}

// Detect decides whether a page's content is skewed by 90 degrees.
//
// Vertical text must dominate horizontal text for a page to count as
// skewed at all. The direction then comes from how the vertical runs
// read: runs reading top-to-bottom on the left half of the page yield
// Anticlockwise, runs reading bottom-to-top on the right half yield
// Clockwise; ties go to Clockwise. A page with no text always yields
// None.
func Detect(chars []layout.Char, horizontal, vertical []layout.TextLine, pageWidth float64) Verdict {
	if len(chars) == 0 {
		return None
	}

	hCount, hExtent := measure(horizontal)
	vCount, vExtent := measure(vertical)
	dominant := vCount > hCount || (vCount > 0 && vCount == hCount && vExtent > hExtent)
	if !dominant {
		return None
	}

	mid := pageWidth / 2
	var clockwise, anticlockwise int
	for _, line := range vertical {
		if line.Blank() {
			continue
		}
		switch {
		case !line.Upward && line.CenterX() < mid:
			anticlockwise++
		case line.Upward && line.CenterX() >= mid:
			clockwise++
		}
	}
	if clockwise == 0 && anticlockwise == 0 {
		return None
	}
	if anticlockwise > clockwise {
		return Anticlockwise
	}
	return Clockwise
}

// measure counts non-blank lines and sums their dominant extent.
func measure(lines []layout.TextLine) (int, float64) {
	count := 0
	extent := 0.0
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		count++
		if l.Vertical {
			extent += l.Height()
		} else {
			extent += l.Width()
		}
	}
	return count, extent
}
