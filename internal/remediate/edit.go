package remediate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vibeguard/vibeguard/internal/types"
)

// ErrOverlappingEdits is returned when edits passed together overlap.
var ErrOverlappingEdits = errors.New("overlapping edits")

func spanAt(off int) types.Span { return types.Span{Start: off, End: off} }

// ApplyEdits applies edits, all computed against text, and returns the
// result. Edits must not overlap; an insertion may share an offset with the
// start of a replacement and lands before it.
func ApplyEdits(text string, edits ...Edit) (string, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})
	for i, e := range sorted {
		if e.Span.Start < 0 || e.Span.End > len(text) || e.Span.Start > e.Span.End {
			return "", fmt.Errorf("edit [%d,%d) outside text of %d bytes", e.Span.Start, e.Span.End, len(text))
		}
		if i > 0 && sorted[i-1].Span.End > e.Span.Start {
			return "", ErrOverlappingEdits
		}
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, e := range sorted {
		b.WriteString(text[prev:e.Span.Start])
		b.WriteString(e.Text)
		prev = e.Span.End
	}
	b.WriteString(text[prev:])
	return b.String(), nil
}
