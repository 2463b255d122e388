package scanner

import (
	"sort"
	"strings"

	"github.com/vibeguard/vibeguard/internal/types"
)

// LineIndex maps byte offsets of a text to 1-based positions.
type LineIndex struct {
	starts []int
}

// NewLineIndex records the start offset of every line in text.
func NewLineIndex(text string) LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return LineIndex{starts: starts}
}

// Position converts offset to a 1-based line and column.
func (li LineIndex) Position(offset int) types.Position {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return types.Position{Line: i + 1, Column: offset - li.starts[i] + 1}
}

// LineStart returns the offset of the first byte on the line holding offset.
func LineStart(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// LineEnd returns the offset of the newline ending the line holding offset,
// or len(text) on the last line.
func LineEnd(text string, offset int) int {
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(text)
}
