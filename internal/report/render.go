package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/vibeguard/vibeguard/internal/types"
)

var (
	sevErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pathStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// SortFindings orders findings by path, line and column.
func SortFindings(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// PrintText writes one line per finding with severity colours.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	SortFindings(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxDet := 8
		for _, f := range findings {
			if l := len(f.Detector); l > maxDet {
				maxDet = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := fmt.Sprintf("%-7s", f.Severity)
			loc := f.Path + ":" + strconv.Itoa(f.Line) + ":" + strconv.Itoa(f.Column)
			msg := f.Message
			if !opts.NoColor {
				sev = severityStyle(f.Severity).Render(sev)
				loc = pathStyle.Render(loc)
				msg = dimStyle.Render(msg)
			}
			fmt.Fprintf(w, "%s %-*s %s  %s  %s\n", sev, maxDet, f.Detector, loc, maskValue(f.Match), msg)
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable writes findings as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	SortFindings(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "DETECTOR", "FILE", "LINE", "MATCH")
		for _, f := range findings {
			_ = table.Append([]string{
				string(f.Severity),
				f.Detector,
				f.Path,
				strconv.Itoa(f.Line),
				maskValue(f.Match),
			})
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	errs, warns := 0, 0
	for _, f := range findings {
		if f.Severity == types.SevError {
			errs++
		} else {
			warns++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (error: %d, warning: %d)\n", len(findings), errs, warns)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

func severityStyle(s types.Severity) lipgloss.Style {
	if s == types.SevError {
		return sevErrorStyle
	}
	return sevWarningStyle
}

// Severity renders s with its colour unless noColor is set.
func Severity(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	return severityStyle(s).Render(string(s))
}

// MaskValue hides all but the first and last four bytes of a secret.
func MaskValue(s string) string { return maskValue(s) }

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
