package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FilterBarModel is the regex input above the queue list. It shows the
// controller's filter status and the error of an invalid pattern.
type FilterBarModel struct {
	input  textinput.Model
	width  int
	active bool
	status string
	errMsg string
}

func NewFilterBarModel() FilterBarModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = filterPromptStyle
	ti.TextStyle = filterTextStyle
	ti.Placeholder = "regex over number, title, author, labels..."
	ti.PlaceholderStyle = filterHintStyle
	ti.CharLimit = 256
	return FilterBarModel{input: ti}
}

// Open focuses the input for typing.
func (m *FilterBarModel) Open() tea.Cmd {
	m.active = true
	m.input.CursorEnd()
	return m.input.Focus()
}

// Close stops typing; the pattern stays applied.
func (m *FilterBarModel) Close() {
	m.active = false
	m.input.Blur()
}

// IsActive returns whether the input has focus.
func (m FilterBarModel) IsActive() bool {
	return m.active
}

// Visible reports whether the bar takes a line on screen.
func (m FilterBarModel) Visible() bool {
	return m.active || m.input.Value() != ""
}

// Value returns the typed pattern.
func (m FilterBarModel) Value() string {
	return m.input.Value()
}

// SetValue replaces the typed pattern.
func (m *FilterBarModel) SetValue(s string) {
	m.input.SetValue(s)
}

// SetResult shows the outcome of applying the pattern.
func (m *FilterBarModel) SetResult(status string, err error) {
	m.status = status
	m.errMsg = ""
	if err != nil {
		m.errMsg = err.Error()
	}
}

func (m *FilterBarModel) SetWidth(width int) {
	m.width = width
}

func (m FilterBarModel) Update(msg tea.Msg) (FilterBarModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m FilterBarModel) View() string {
	right := filterStatusStyle.Render(m.status)
	if m.errMsg != "" {
		right = filterErrorStyle.Render(m.errMsg)
	}
	m.input.Width = max(m.width-lipgloss.Width(right)-4, 10)
	line := m.input.View() + "  " + right
	return ansi.Truncate(line, max(m.width, 1), "…")
}
