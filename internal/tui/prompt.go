package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// IsInteractive reports whether stdin and stderr are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func newNameInput(suggested string) textinput.Model {
	ti := textinput.New()
	ti.SetValue(suggested)
	ti.Placeholder = "OPENAI_API_KEY"
	ti.CharLimit = 128
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	ti.CursorEnd()
	ti.Focus()
	return ti
}

type nameModel struct {
	title    string
	input    textinput.Model
	validate func(string) error
	err      error
	done     bool
	canceled bool
}

func newNameModel(title, suggested string, validate func(string) error) nameModel {
	m := nameModel{title: title, input: newNameInput(suggested), validate: validate}
	m.check()
	return m
}

func (m *nameModel) value() string { return strings.TrimSpace(m.input.Value()) }

func (m *nameModel) check() {
	if m.validate != nil {
		m.err = m.validate(m.value())
	}
}

func (m nameModel) Init() tea.Cmd { return textinput.Blink }

func (m nameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			m.check()
			if m.err != nil {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.check()
	return m, cmd
}

func (m nameModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.title) + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hintStyle.Render("enter: confirm • esc: skip") + "\n")
	return b.String()
}

// PromptName asks for an environment variable name, pre-filled with
// suggested, re-validating on every keystroke. ok is false when the user
// dismissed the prompt.
func PromptName(suggested string, validate func(string) error) (name string, ok bool, err error) {
	m := newNameModel("Environment variable name for this secret:", suggested, validate)
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", false, fmt.Errorf("error running prompt: %w", err)
	}
	fm := final.(nameModel)
	if fm.canceled || !fm.done {
		return "", false, nil
	}
	return fm.value(), true, nil
}

type confirmModel struct {
	question   string
	defaultYes bool
	answer     bool
	done       bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		m.answer, m.done = true, true
	case "n", "N", "esc", "ctrl+c":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.defaultYes, true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	choices := "[y/N]"
	if m.defaultYes {
		choices = "[Y/n]"
	}
	return fmt.Sprintf("%s %s ", promptStyle.Render(m.question), hintStyle.Render(choices))
}

// Confirm asks a yes/no question. Enter picks defaultYes.
func Confirm(question string, defaultYes bool) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question, defaultYes: defaultYes}, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return false, fmt.Errorf("error running prompt: %w", err)
	}
	return final.(confirmModel).answer, nil
}
