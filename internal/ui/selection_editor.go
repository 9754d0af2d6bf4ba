package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shhac/queuetea/internal/queue"
)

// SelectionEditorModel renders a centered overlay with the selection summary
// in an editable text area. Closing it hands the edited text back so the
// numbers it contains become the new selection.
type SelectionEditorModel struct {
	textarea textarea.Model
	visible  bool
	count    int

	// Terminal dimensions (for centering)
	width  int
	height int
}

func NewSelectionEditorModel() SelectionEditorModel {
	ta := textarea.New()
	ta.Placeholder = "PR numbers, e.g. #4101 #4102"
	ta.CharLimit = 65535
	ta.ShowLineNumbers = false
	ta.Blur()
	return SelectionEditorModel{textarea: ta}
}

// Show opens the overlay pre-filled with summary.
func (m *SelectionEditorModel) Show(summary queue.Summary) tea.Cmd {
	m.visible = true
	m.count = summary.Count
	m.textarea.SetValue(summary.Text)
	m.resize()
	return m.textarea.Focus()
}

// Hide dismisses the overlay.
func (m *SelectionEditorModel) Hide() {
	m.visible = false
	m.textarea.Blur()
}

// IsVisible returns whether the overlay is currently shown.
func (m SelectionEditorModel) IsVisible() bool {
	return m.visible
}

// Value returns the current text.
func (m SelectionEditorModel) Value() string {
	return m.textarea.Value()
}

// SetSize updates terminal dimensions for centering and text area sizing.
func (m *SelectionEditorModel) SetSize(termWidth, termHeight int) {
	m.width = termWidth
	m.height = termHeight
	m.resize()
}

func (m *SelectionEditorModel) resize() {
	_, oh := m.overlayDimensions()
	m.textarea.SetWidth(m.innerWidth())
	// border (2) + title (2) + footer (2)
	m.textarea.SetHeight(max(oh-6, 3))
}

func (m SelectionEditorModel) Update(msg tea.Msg) (SelectionEditorModel, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && key.Matches(kmsg, OverlayKeys.Apply) {
		text := m.textarea.Value()
		m.Hide()
		return m, func() tea.Msg { return SelectionEditedMsg{Text: text} }
	}
	// Pass everything else to textarea (typing, cursor blink, etc.)
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m SelectionEditorModel) View() string {
	if !m.visible {
		return ""
	}

	overlayW, overlayH := m.overlayDimensions()
	innerW := m.innerWidth()

	title := overlayTitleStyle.Render(fmt.Sprintf(" Selected PRs (%d) ", m.count))
	titleLine := lipgloss.PlaceHorizontal(innerW, lipgloss.Left, title)

	live := len(queue.ParseNumbers(m.textarea.Value()))
	hint := overlayFooterStyle.Render(fmt.Sprintf("%d numbers · Ctrl+S / Esc: apply", live))
	footer := lipgloss.PlaceHorizontal(innerW, lipgloss.Right, hint)

	box := lipgloss.JoinVertical(lipgloss.Left, titleLine, "", m.textarea.View(), "", footer)

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(overlayBorderColor).
		Padding(0, 1).
		Width(overlayW - 2).
		Height(overlayH - 2)

	rendered := overlayStyle.Render(box)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, rendered)
}

// overlayDimensions returns the outer box dimensions.
func (m SelectionEditorModel) overlayDimensions() (width, height int) {
	width = int(float64(m.width) * 0.60)
	height = int(float64(m.height) * 0.70)
	if width < 50 {
		width = min(50, m.width)
	}
	if height < 12 {
		height = min(12, m.height)
	}
	return width, height
}

// innerWidth returns the usable content width inside the overlay box.
func (m SelectionEditorModel) innerWidth() int {
	ow, _ := m.overlayDimensions()
	return max(ow-4, 10) // border (2) + padding (2)
}

// RollupConfirmModel asks for confirmation before launching a rollup.
type RollupConfirmModel struct {
	visible bool
	numbers []int
	width   int
	height  int
}

func NewRollupConfirmModel() RollupConfirmModel {
	return RollupConfirmModel{}
}

// Show opens the prompt for nums.
func (m *RollupConfirmModel) Show(nums []int) {
	m.visible = true
	m.numbers = nums
}

// Hide dismisses the prompt.
func (m *RollupConfirmModel) Hide() {
	m.visible = false
}

// IsVisible returns whether the prompt is currently shown.
func (m RollupConfirmModel) IsVisible() bool {
	return m.visible
}

func (m *RollupConfirmModel) SetSize(termWidth, termHeight int) {
	m.width = termWidth
	m.height = termHeight
}

func (m RollupConfirmModel) Update(msg tea.Msg) (RollupConfirmModel, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(kmsg, OverlayKeys.Confirm):
		nums := m.numbers
		m.Hide()
		return m, func() tea.Msg { return RollupConfirmedMsg{Numbers: nums} }
	case key.Matches(kmsg, OverlayKeys.Cancel):
		m.Hide()
		return m, func() tea.Msg { return RollupCancelledMsg{} }
	}
	return m, nil
}

func (m RollupConfirmModel) View() string {
	if !m.visible {
		return ""
	}
	width := min(max(int(float64(m.width)*0.5), 40), m.width)
	innerW := max(width-4, 10)

	refs := make([]string, len(m.numbers))
	for i, n := range m.numbers {
		refs[i] = fmt.Sprintf("#%d", n)
	}
	list := wordWrap(strings.Join(refs, " "), innerW)

	box := lipgloss.JoinVertical(lipgloss.Left,
		overlayTitleStyle.Render(" Rollup "),
		"",
		queue.RollupPrompt(len(m.numbers)),
		rowMetaStyle.Render(list),
		"",
		overlayFooterStyle.Render("y/Enter: open GitHub to authorize · n/Esc: cancel"),
	)
	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(overlayBorderColor).
		Padding(0, 1).
		Width(width - 2).
		Render(box)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, rendered)
}
