package tui

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))
)

const defaultStatus = "q: quit | j/k: navigate | f: fix | r: rescan | s: show/hide secrets | +/-: context"

// Options wires the browser to the scan and remediation engines.
type Options struct {
	// Root resolves finding paths when reading context lines.
	Root string
	// Rescan re-runs the workspace scan.
	Rescan func() ([]types.Finding, error)
	// Suggest returns the default variable name for a finding.
	Suggest func(types.Finding) string
	// Validate checks a typed variable name.
	Validate func(string) error
	// Fix remediates f under name and returns a one-line summary.
	Fix func(f types.Finding, name string) (string, error)
}

type findingsMsg []types.Finding

type statusMsg string

type fixedMsg struct {
	summary string
	err     error
}

// Model is the findings browser: a table of findings, a detail pane with
// highlighted source context, and an inline name prompt for fixing.
type Model struct {
	opts     Options
	table    table.Model
	viewport viewport.Model
	input    textinput.Model
	findings []types.Finding
	prefs    Prefs

	naming   bool
	nameErr  error
	scanning bool
	quitting bool
	ready    bool
	width    int
	height   int
	status   string
}

// NewModel initializes the browser with findings.
func NewModel(findings []types.Finding, opts Options) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 8},
		{Title: "Detector", Width: 24},
		{Title: "Path", Width: 40},
		{Title: "Match", Width: 30},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	m := Model{
		opts:     opts,
		table:    t,
		input:    newNameInput(""),
		findings: findings,
		prefs:    LoadPrefs(),
		status:   defaultStatus,
	}
	m.rebuildTableRows()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) displayMatch(s string) string {
	if m.prefs.HideSecrets {
		return redactSecret(s)
	}
	return s
}

func (m *Model) rebuildTableRows() {
	rows := make([]table.Row, len(m.findings))
	for i, f := range m.findings {
		rows[i] = table.Row{
			strings.ToUpper(string(f.Severity)),
			f.Detector,
			fmt.Sprintf("%s:%d", f.Path, f.Line),
			m.displayMatch(f.Match),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.updateViewportContent()
}

func (m *Model) selected() (types.Finding, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.findings) {
		return types.Finding{}, false
	}
	return m.findings[idx], true
}

func (m *Model) rescan() tea.Cmd {
	rescan := m.opts.Rescan
	return func() tea.Msg {
		if rescan == nil {
			return statusMsg("Rescan not available")
		}
		fs, err := rescan()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return findingsMsg(fs)
	}
}

func (m *Model) startNaming() {
	f, ok := m.selected()
	if !ok || m.opts.Fix == nil {
		return
	}
	suggested := ""
	if m.opts.Suggest != nil {
		suggested = m.opts.Suggest(f)
	}
	m.input = newNameInput(suggested)
	m.naming = true
	m.checkName()
}

func (m *Model) checkName() {
	m.nameErr = nil
	if m.opts.Validate != nil {
		m.nameErr = m.opts.Validate(strings.TrimSpace(m.input.Value()))
	}
}

func (m *Model) fix() tea.Cmd {
	f, ok := m.selected()
	if !ok {
		return nil
	}
	name := strings.TrimSpace(m.input.Value())
	fix := m.opts.Fix
	return func() tea.Msg {
		summary, err := fix(f, name)
		return fixedMsg{summary: summary, err: err}
	}
}

func (m Model) updateNaming(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.naming = false
		m.status = "Fix canceled"
		return m, nil
	case "enter":
		m.checkName()
		if m.nameErr != nil {
			return m, nil
		}
		m.naming = false
		return m, m.fix()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	m.checkName()
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.scanning = true
			m.status = "Rescanning..."
			return m, m.rescan()
		case "f", "enter":
			m.startNaming()
			return m, nil
		case "s":
			m.prefs.HideSecrets = !m.prefs.HideSecrets
			_ = SavePrefs(m.prefs)
			m.rebuildTableRows()
			return m, nil
		case "+", "=":
			if m.prefs.ContextLines < 20 {
				m.prefs.ContextLines += 2
			}
			m.updateViewportContent()
			return m, nil
		case "-", "_":
			if m.prefs.ContextLines > 1 {
				m.prefs.ContextLines -= 2
			}
			m.updateViewportContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		available := m.height - 2
		tableHeight := available * 45 / 100
		viewportHeight := available - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1
		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width, m.viewport.Height = m.width, viewportHeight
		}
		m.updateViewportContent()
		return m, nil

	case findingsMsg:
		m.scanning = false
		m.findings = msg
		m.rebuildTableRows()
		m.status = fmt.Sprintf("Rescan complete - %d findings", len(m.findings))
		return m, nil

	case fixedMsg:
		if msg.err != nil {
			m.status = "Fix failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.summary
		m.scanning = true
		return m, m.rescan()

	case statusMsg:
		m.scanning = false
		m.status = string(msg)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	m.updateViewportContent()
	return m, cmd
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	f, ok := m.selected()
	if !ok {
		m.viewport.SetContent("No secrets to review.\n\nPress 'r' to rescan")
		return
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finding Details") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Path:"), f.Path)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Detector:"), f.Detector)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Severity:"), f.Severity)
	fmt.Fprintf(&b, "%s %d:%d\n", keyStyle.Render("Position:"), f.Line, f.Column)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Message:"), f.Message)
	fmt.Fprintf(&b, "\n%s\n", keyStyle.Render("Context:"))

	path := f.Path
	if m.opts.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(m.opts.Root, path)
	}
	lines, start, err := readFileContext(path, f.Line, m.prefs.ContextLines)
	if err != nil {
		b.WriteString(m.displayMatch(f.Match))
	}
	for i, line := range lines {
		n := start + i
		num := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(fmt.Sprintf("%4d ", n))
		if n == f.Line && f.Match != "" {
			line = strings.ReplaceAll(line, f.Match, m.displayMatch(f.Match))
			hl := report.HighlightLine(line, f.Path)
			hl = strings.ReplaceAll(hl, m.displayMatch(f.Match), matchStyle.Render(m.displayMatch(f.Match)))
			b.WriteString(num + hl + "\n")
			continue
		}
		b.WriteString(num + report.HighlightLine(line, f.Path) + "\n")
	}
	m.viewport.SetContent(b.String())
}

func readFileContext(path string, targetLine, contextLines int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	startLine := targetLine - contextLines
	if startLine < 1 {
		startLine = 1
	}
	endLine := targetLine + contextLines

	var lines []string
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		if n >= startLine && n <= endLine {
			lines = append(lines, sc.Text())
		}
		if n > endLine {
			break
		}
	}
	return lines, startLine, sc.Err()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	errs, warns := 0, 0
	for _, f := range m.findings {
		if f.Severity == types.SevError {
			errs++
		} else {
			warns++
		}
	}
	stats := fmt.Sprintf("Total: %-4d  |  %s %-4d  |  %s %-4d",
		len(m.findings),
		report.Severity(types.SevError, false)+":", errs,
		report.Severity(types.SevWarning, false)+":", warns)
	if m.scanning {
		stats += "  (scanning...)"
	}
	header := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Background(lipgloss.Color("237")).
		Render(stats)

	tableRender := tableBorderStyle.Width(m.width).Render(m.table.View())
	detailRender := detailPaneBorderStyle.Width(m.width).Height(m.viewport.Height).Render(m.viewport.View())

	footer := m.status
	if m.naming {
		footer = "Variable name: " + m.input.View()
		if m.nameErr != nil {
			footer += "  " + errorStyle.Render(m.nameErr.Error())
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, tableRender, detailRender, statusStyle.Width(m.width).Render(footer))
}
