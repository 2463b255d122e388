package scanner

import (
	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/types"
)

const genericMessage = "Hardcoded secret in variable assignment! Move to .env for security."

// Scan runs every registry pattern and then the generic assignment rule over
// text and returns the findings for the document at path. Named-pattern
// findings come first, in registry order; a generic match on a line that
// already holds a named finding is dropped. Scan touches no shared state and
// may be called concurrently.
func Scan(path, text string) []types.Finding {
	li := NewLineIndex(text)
	var out []types.Finding
	namedLines := map[int]bool{}

	for _, p := range detectors.All() {
		for _, loc := range p.FindAll(text) {
			start, end := loc[0], loc[1]
			if IsAlreadySafe(text[LineStart(text, start):start]) {
				continue
			}
			f := newFinding(path, text, li, types.Span{Start: start, End: end})
			f.Detector = p.ID
			f.Severity = p.Severity
			f.Message = p.Name + " hardcoded! Move to .env to prevent leaks."
			namedLines[f.Line] = true
			out = append(out, f)
		}
	}

	for _, m := range detectors.Generic.FindAllStringSubmatchIndex(text, -1) {
		span := types.Span{Start: m[2], End: m[3]}
		if namedLines[li.Position(span.Start).Line] {
			continue
		}
		if IsAlreadySafe(text[LineStart(text, span.Start):span.Start]) {
			continue
		}
		f := newFinding(path, text, li, span)
		f.Detector = detectors.GenericID
		f.Severity = types.SevWarning
		f.Message = genericMessage
		out = append(out, f)
	}
	return out
}

func newFinding(path, text string, li LineIndex, span types.Span) types.Finding {
	start := li.Position(span.Start)
	return types.Finding{
		Path:   path,
		Line:   start.Line,
		Column: start.Column,
		Match:  text[span.Start:span.End],
		Span:   span,
		End:    li.Position(span.End),
	}
}
