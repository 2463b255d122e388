package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	removedMark = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("-")
	addedMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("+")
)

// PreviewEdit prints removed and added source lines as a small diff,
// syntax-highlighted for path's language unless noColor is set.
func PreviewEdit(w io.Writer, path string, removed, added []string, noColor bool) {
	fmt.Fprintf(w, "--- %s\n+++ %s\n", path, path)
	minus, plus := "-", "+"
	if !noColor {
		minus, plus = removedMark, addedMark
	}
	for _, l := range removed {
		if !noColor {
			l = HighlightLine(l, path)
		}
		fmt.Fprintf(w, "%s %s\n", minus, l)
	}
	for _, l := range added {
		if !noColor {
			l = HighlightLine(l, path)
		}
		fmt.Fprintf(w, "%s %s\n", plus, l)
	}
}

// HighlightLine renders one source line with ANSI colours for filename's
// language. Unknown languages are returned unchanged.
func HighlightLine(line string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return line
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
