// Package prompt reads single lines of user input, either through an
// interactive terminal widget or from a plain reader.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/den-cli/den/internal/domain"
	"golang.org/x/term"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// New returns a Terminal prompter when in is an interactive terminal
// and a Line prompter otherwise.
func New(in io.Reader, out io.Writer) domain.Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTerminal(f, out)
	}
	return NewLine(in, out)
}

// Terminal prompts with a bubbletea text input.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Ensure Terminal implements domain.Prompter.
var _ domain.Prompter = (*Terminal)(nil)

// Ask shows label and returns the entered line.
func (t *Terminal) Ask(label string) (string, error) {
	return t.run(newInputModel(label, false))
}

// AskSecret is Ask with masked input.
func (t *Terminal) AskSecret(label string) (string, error) {
	return t.run(newInputModel(label, true))
}

func (t *Terminal) run(m inputModel) (string, error) {
	p := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	result, ok := final.(inputModel)
	if !ok {
		return "", errors.New("prompt: unexpected model")
	}
	if result.cancelled {
		return "", domain.ErrPromptCancelled
	}
	return result.value, nil
}

// inputModel is a one-line bubbletea input.
// Fields are ordered to minimize memory padding.
type inputModel struct {
	input     textinput.Model
	label     string
	value     string
	done      bool
	cancelled bool
}

func newInputModel(label string, secret bool) inputModel {
	ti := textinput.New()
	ti.Prompt = labelStyle.Render(label) + " "
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	ti.Focus()
	return inputModel{input: ti, label: label}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		// Leave the answered prompt in the scrollback without the cursor.
		shown := m.value
		if m.input.EchoMode == textinput.EchoPassword {
			shown = strings.Repeat("*", len([]rune(m.value)))
		}
		return labelStyle.Render(m.label) + " " + shown + "\n"
	}
	return m.input.View() + "\n"
}

// Line prompts by writing the label and reading a line from a reader.
type Line struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLine creates a Line prompter.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{reader: bufio.NewReader(in), out: out}
}

// Ensure Line implements domain.Prompter.
var _ domain.Prompter = (*Line)(nil)

// Ask writes label and returns the next input line without its line ending.
// It returns io.EOF when input is exhausted before any character is read.
func (l *Line) Ask(label string) (string, error) {
	if _, err := fmt.Fprint(l.out, label+" "); err != nil {
		return "", err
	}
	line, err := l.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskSecret reads like Ask. Input that is not a terminal has no echo to hide.
func (l *Line) AskSecret(label string) (string, error) {
	return l.Ask(label)
}
