package remediate

import (
	"regexp"
	"strings"
)

// importScanLines bounds how far into a file we look for import statements.
const importScanLines = 200

var (
	rePyHasOS     = regexp.MustCompile(`(?m)^(?:import\s+os\b|from\s+os\s+import)`)
	rePyImport    = regexp.MustCompile(`^(?:import|from)\s+`)
	reGoHasOS     = regexp.MustCompile(`(?m)^\s*(?:import\s+)?(?:os\s+)?"os"\s*(?://.*)?$`)
	reGoBlock     = regexp.MustCompile(`^import\s*\(\s*$`)
	reGoImport    = regexp.MustCompile(`^import\s+(?:\w+\s+)?"[^"]+"`)
	reGoPackage   = regexp.MustCompile(`^package\s+\w+`)
	reCSHasSystem = regexp.MustCompile(`(?m)^\s*(?:global\s+)?using\s+System\s*;`)
	reCSUsing     = regexp.MustCompile(`^\s*(?:global\s+)?using\s+[\w.]+\s*;`)
)

type line struct {
	text  string
	start int // offset of the first byte
	next  int // offset of the following line (len(text) on the last line)
}

// headLines splits the first importScanLines lines of text.
func headLines(text string) []line {
	var out []line
	off := 0
	for len(out) < importScanLines && off < len(text) {
		end := strings.IndexByte(text[off:], '\n')
		if end < 0 {
			out = append(out, line{text: text[off:], start: off, next: len(text)})
			break
		}
		out = append(out, line{text: strings.TrimSuffix(text[off:off+end], "\r"), start: off, next: off + end + 1})
		off += end + 1
	}
	return out
}

// insertAfter builds an insertion of stmt at the start of the line following
// l, adding the newline l lacks when it is the last line of text.
func insertAfter(text string, l line, stmt string) Edit {
	if l.next == len(text) && !strings.HasSuffix(text, "\n") {
		stmt = "\n" + stmt
	}
	return Edit{Span: spanAt(l.next), Text: stmt}
}

// importEdit returns the insertion that makes eco's accessor resolvable in
// text, or false when nothing is needed or the import already exists.
func importEdit(eco Ecosystem, text string) (Edit, bool) {
	switch eco {
	case Python:
		if rePyHasOS.MatchString(text) {
			return Edit{}, false
		}
		return pythonImport(text), true
	case Go:
		if reGoHasOS.MatchString(text) {
			return Edit{}, false
		}
		return goImport(text)
	case CSharp:
		if reCSHasSystem.MatchString(text) {
			return Edit{}, false
		}
		return afterLast(text, reCSUsing, "using System;\n"), true
	}
	return Edit{}, false
}

func pythonImport(text string) Edit {
	lines := headLines(text)
	last := -1
	for i := 0; i < len(lines); i++ {
		if !rePyImport.MatchString(lines[i].text) {
			continue
		}
		// `from x import (` continues until the closing parenthesis
		if strings.Contains(lines[i].text, "(") && !strings.Contains(lines[i].text, ")") {
			for i+1 < len(lines) && !strings.Contains(lines[i].text, ")") {
				i++
			}
		}
		last = i
	}
	if last < 0 {
		return Edit{Span: spanAt(0), Text: "import os\n"}
	}
	return insertAfter(text, lines[last], "import os\n")
}

func goImport(text string) (Edit, bool) {
	lines := headLines(text)
	lastSingle, pkg := -1, -1
	for i, l := range lines {
		switch {
		case reGoBlock.MatchString(l.text):
			return insertAfter(text, l, "\t\"os\"\n"), true
		case reGoImport.MatchString(l.text):
			lastSingle = i
		case pkg < 0 && reGoPackage.MatchString(l.text):
			pkg = i
		}
	}
	if lastSingle >= 0 {
		return insertAfter(text, lines[lastSingle], "import \"os\"\n"), true
	}
	if pkg >= 0 {
		return insertAfter(text, lines[pkg], "\nimport \"os\"\n"), true
	}
	// a fragment without a package clause has nowhere valid to import into
	return Edit{}, false
}

func afterLast(text string, re *regexp.Regexp, stmt string) Edit {
	lines := headLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		if re.MatchString(lines[i].text) {
			return insertAfter(text, lines[i], stmt)
		}
	}
	return Edit{Span: spanAt(0), Text: stmt}
}
