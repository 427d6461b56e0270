// Package pages parses user page selections like "1,3,4", "2-5", "3-end"
// or "all" into an explicit, sorted list of 1-based page numbers.
package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CountFunc reports the number of pages in the source document. It is
// invoked lazily: selections that do not reference the last page never
// call it, so the document is not opened for the common "1" default.
type CountFunc func() (int, error)

// MalformedSelectionError reports a selection expression that cannot be
// parsed into a page list.
type MalformedSelectionError struct {
	Token  string
	Reason string
}

func (e *MalformedSelectionError) Error() string {
	return fmt.Sprintf("malformed page selection token %q: %s", e.Token, e.Reason)
}

// Parse converts a selection expression into a sorted, deduplicated list
// of page numbers. Tokens are comma-separated and are either a single page
// "N" or a range "A-B"; "B" may be the keyword "end" (last page), and the
// whole expression may be "all" (every page). lastPage is only called when
// the expression actually needs the page count.
func Parse(expr string, lastPage CountFunc) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &MalformedSelectionError{Token: expr, Reason: "empty selection"}
	}

	// Fast path: a bare page number never opens the source document.
	if n, err := strconv.Atoi(expr); err == nil {
		if n < 1 {
			return nil, &MalformedSelectionError{Token: expr, Reason: "page numbers start at 1"}
		}
		return []int{n}, nil
	}

	var spans [][2]int
	if strings.EqualFold(expr, "all") {
		last, err := lastPage()
		if err != nil {
			return nil, fmt.Errorf("resolving page count: %w", err)
		}
		spans = append(spans, [2]int{1, last})
	} else {
		for _, tok := range strings.Split(expr, ",") {
			span, err := parseToken(strings.TrimSpace(tok), lastPage)
			if err != nil {
				return nil, err
			}
			spans = append(spans, span)
		}
	}

	seen := make(map[int]bool)
	var out []int
	for _, s := range spans {
		for p := s[0]; p <= s[1]; p++ {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Ints(out)
	return out, nil
}

// parseToken parses a single token into an inclusive {start, end} span.
func parseToken(tok string, lastPage CountFunc) ([2]int, error) {
	if !strings.Contains(tok, "-") {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return [2]int{}, &MalformedSelectionError{Token: tok, Reason: "not a page number"}
		}
		if n < 1 {
			return [2]int{}, &MalformedSelectionError{Token: tok, Reason: "page numbers start at 1"}
		}
		return [2]int{n, n}, nil
	}

	parts := strings.SplitN(tok, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return [2]int{}, &MalformedSelectionError{Token: tok, Reason: "invalid range start"}
	}

	var end int
	rawEnd := strings.TrimSpace(parts[1])
	if strings.EqualFold(rawEnd, "end") {
		end, err = lastPage()
		if err != nil {
			return [2]int{}, fmt.Errorf("resolving page count for %q: %w", tok, err)
		}
	} else {
		end, err = strconv.Atoi(rawEnd)
		if err != nil {
			return [2]int{}, &MalformedSelectionError{Token: tok, Reason: "invalid range end"}
		}
	}

	if start < 1 {
		return [2]int{}, &MalformedSelectionError{Token: tok, Reason: "page numbers start at 1"}
	}
	if start > end {
		return [2]int{}, &MalformedSelectionError{
			Token:  tok,
			Reason: fmt.Sprintf("range start %d greater than end %d", start, end),
		}
	}
	return [2]int{start, end}, nil
}
