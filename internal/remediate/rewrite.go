package remediate

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

// Ecosystem selects the environment accessor emitted for a file.
type Ecosystem int

const (
	Python Ecosystem = iota // also the fallback for unknown extensions
	JavaScript
	Go
	PHP
	Ruby
	Java
	CSharp
	Rust
)

var ecosystemByExt = map[string]Ecosystem{
	".js":   JavaScript,
	".ts":   JavaScript,
	".jsx":  JavaScript,
	".tsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".go":   Go,
	".php":  PHP,
	".rb":   Ruby,
	".java": Java,
	".cs":   CSharp,
	".rs":   Rust,
	".py":   Python,
}

var ecosystemNames = [...]string{
	Python:     "python",
	JavaScript: "javascript",
	Go:         "go",
	PHP:        "php",
	Ruby:       "ruby",
	Java:       "java",
	CSharp:     "csharp",
	Rust:       "rust",
}

func (e Ecosystem) String() string {
	if int(e) < len(ecosystemNames) {
		return ecosystemNames[e]
	}
	return fmt.Sprintf("Ecosystem(%d)", int(e))
}

// EcosystemFor picks the ecosystem from path's extension.
func EcosystemFor(path string) Ecosystem {
	if e, ok := ecosystemByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return e
	}
	return Python
}

// Accessor returns the expression reading name from the environment.
func (e Ecosystem) Accessor(name string) string {
	switch e {
	case JavaScript:
		return "process.env." + name
	case Go:
		return `os.Getenv("` + name + `")`
	case PHP:
		return `getenv('` + name + `')`
	case Ruby:
		return `ENV['` + name + `']`
	case Java:
		return `System.getenv("` + name + `")`
	case CSharp:
		return `Environment.GetEnvironmentVariable("` + name + `")`
	case Rust:
		return `std::env::var("` + name + `").unwrap()`
	default:
		return `os.getenv("` + name + `")`
	}
}

// ErrConstantDeclaration is returned for a literal that initializes a
// compile-time constant, which an environment lookup cannot do.
var ErrConstantDeclaration = errors.New("secret initializes a compile-time constant; change the declaration to a variable first")

var (
	reGoConst      = regexp.MustCompile(`^\s*const\s`)
	reGoConstBlock = regexp.MustCompile(`^const\s*\(`)
	reGoOtherBlock = regexp.MustCompile(`^(var|import|type)\s*\(`)
	reRustConst    = regexp.MustCompile(`^\s*(pub(\([^)]*\))?\s+)?(const|static)\s`)
	reConstKeyword = regexp.MustCompile(`\bconst\s`)
)

// InConstant reports whether the literal at span is the initializer of a
// constant the file's language evaluates at compile time: Go const
// declarations and blocks, Rust const and static items, C# and PHP const.
func InConstant(text, path string, span types.Span) bool {
	start := scanner.LineStart(text, span.Start)
	prefix := text[start:span.Start]
	switch EcosystemFor(path) {
	case Go:
		return reGoConst.MatchString(prefix) || inGoConstBlock(text[:start])
	case Rust:
		return reRustConst.MatchString(prefix)
	case CSharp, PHP:
		return reConstKeyword.MatchString(prefix)
	}
	return false
}

// inGoConstBlock walks back from the end of before to the nearest enclosing
// parenthesized declaration.
func inGoConstBlock(before string) bool {
	lines := strings.Split(before, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(l, ")"), strings.HasPrefix(l, "func "), reGoOtherBlock.MatchString(l):
			return false
		case reGoConstBlock.MatchString(l):
			return true
		}
	}
	return false
}

// Edit replaces Span with Text. An empty span is an insertion.
type Edit struct {
	Span types.Span
	Text string
}

// RewritePlan is the source edit for one remediation.
type RewritePlan struct {
	Ecosystem Ecosystem
	// Edit replaces the literal, including its quotes when they matched.
	Edit Edit
	// Import is set when the accessor needs an import the file lacks.
	Import *Edit
}

// Edits returns the plan's edits, replacement first.
func (p RewritePlan) Edits() []Edit {
	if p.Import == nil {
		return []Edit{p.Edit}
	}
	return []Edit{p.Edit, *p.Import}
}

// PlanRewrite computes the edits that replace the literal at span in the
// file at path with an environment lookup of name. text is the file content
// the span was computed against.
func PlanRewrite(text, path string, span types.Span, name string) RewritePlan {
	eco := EcosystemFor(path)
	plan := RewritePlan{
		Ecosystem: eco,
		Edit:      Edit{Span: ExpandQuotes(text, span), Text: eco.Accessor(name)},
	}
	if imp, ok := importEdit(eco, text); ok {
		plan.Import = &imp
	}
	return plan
}

// ExpandQuotes widens span by one byte on each side when the literal sits on
// one line and is wrapped in a matching pair of ", ' or ` characters, so the
// accessor replaces the quotes too. Otherwise span is returned unchanged.
func ExpandQuotes(text string, span types.Span) types.Span {
	if span.Start <= 0 || span.End > len(text) || span.Start > span.End {
		return span
	}
	lineEnd := scanner.LineEnd(text, span.Start)
	if span.End >= lineEnd {
		// multi-line, or nothing after the literal on its line
		return span
	}
	if scanner.LineStart(text, span.Start) == span.Start {
		return span
	}
	before, after := text[span.Start-1], text[span.End]
	if before == after && (before == '"' || before == '\'' || before == '`') {
		return types.Span{Start: span.Start - 1, End: span.End + 1}
	}
	return span
}
