package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/den-cli/den/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeRunes(m inputModel, s string) inputModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(inputModel)
	}
	return m
}

func TestInputModel_Enter(t *testing.T) {
	// Setup
	m := newInputModel("Task name:", false)

	// Execute
	m = typeRunes(m, "backup")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inputModel)

	// Assert
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.Equal(t, "backup", m.value)
	assert.Contains(t, m.View(), "backup")
}

func TestInputModel_Cancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := typeRunes(newInputModel("Label:", false), "abc")

		next, cmd := m.Update(tea.KeyMsg{Type: key})
		m = next.(inputModel)

		require.NotNil(t, cmd)
		assert.True(t, m.cancelled)
		assert.Empty(t, m.value)
	}
}

func TestInputModel_SecretIsMasked(t *testing.T) {
	m := typeRunes(newInputModel("Value:", true), "hunter2")

	assert.NotContains(t, m.View(), "hunter2")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inputModel)
	assert.Equal(t, "hunter2", m.value)
	assert.NotContains(t, m.View(), "hunter2")
	assert.Contains(t, m.View(), "*******")
}

func TestLine_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("backup\r\necho hi\nlast"), &out)

	first, err := p.Ask("Task name:")
	require.NoError(t, err)
	assert.Equal(t, "backup", first)

	second, err := p.AskSecret("Command:")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", second)

	// Final line without newline is still returned.
	third, err := p.Ask("Other:")
	require.NoError(t, err)
	assert.Equal(t, "last", third)

	_, err = p.Ask("More:")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Task name: Command: Other: More: ", out.String())
}

func TestLine_EmptyLine(t *testing.T) {
	p := NewLine(strings.NewReader("\n"), io.Discard)

	answer, err := p.Ask("Name:")
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestNew_NonTerminalUsesLine(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard)

	_, ok := p.(*Line)
	assert.True(t, ok)
	var _ domain.Prompter = p
}
