// Package prompt asks the questions events need while being configured.
// On a terminal it uses small bubbletea programs; otherwise every question
// takes its default.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/tui/theme"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a question.
var ErrAborted = errors.New(errors.ErrCodeInvalidInput, "prompt aborted")

// New returns an interactive prompter when stdin and stdout are terminals
// and a defaults-only prompter otherwise.
func New() registry.Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return &Terminal{in: os.Stdin, out: os.Stderr}
	}
	return Defaults{}
}

// Defaults answers every question with its default.
type Defaults struct{}

func (Defaults) Input(label, defaultValue string) (string, error) { return defaultValue, nil }

func (Defaults) Confirm(label string, defaultValue bool) (bool, error) { return defaultValue, nil }

// Interactive reports false: nobody is asked.
func (Defaults) Interactive() bool { return false }

// Terminal renders questions with bubbletea. Questions are drawn on out so
// that stdout stays free for shell lines.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal returns a prompter reading keys from in and drawing on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Interactive reports true.
func (t *Terminal) Interactive() bool { return true }

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out)).Run()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "prompt failed")
	}
	return final, nil
}

// Input asks for a line of text. An empty answer means the default.
func (t *Terminal) Input(label, defaultValue string) (string, error) {
	final, err := t.run(newInputModel(label, defaultValue))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.Value(), nil
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(label string, defaultValue bool) (bool, error) {
	final, err := t.run(newConfirmModel(label, defaultValue))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.value, nil
}

type inputModel struct {
	label   string
	def     string
	input   textinput.Model
	done    bool
	aborted bool
}

func newInputModel(label, def string) inputModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()
	return inputModel{label: label, def: def, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value is the answer, falling back to the default when nothing was typed.
func (m inputModel) Value() string {
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		return v
	}
	return m.def
}

func (m inputModel) View() string {
	t := theme.DefaultTheme
	if m.done || m.aborted {
		return fmt.Sprintf("%s %s\n", t.Prompt.Render("?"), m.label)
	}
	return fmt.Sprintf("%s %s\n%s\n", t.Prompt.Render("?"), m.label, m.input.View())
}

type confirmModel struct {
	label   string
	value   bool
	done    bool
	aborted bool
}

func newConfirmModel(label string, def bool) confirmModel {
	return confirmModel{label: label, value: def}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.value = !m.value
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	t := theme.DefaultTheme
	hint := "y/N"
	if m.value {
		hint = "Y/n"
	}
	line := fmt.Sprintf("%s %s %s", t.Prompt.Render("?"), m.label, t.Muted.Render("("+hint+")"))
	if m.done {
		answer := "no"
		if m.value {
			answer = "yes"
		}
		line += " " + t.Accent.Render(answer)
	}
	return line + "\n"
}
