package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel renders a centered help overlay with keybinding reference.
type HelpOverlayModel struct {
	viewport viewport.Model
	width    int
	height   int
	visible  bool
	context  Panel // which panel was focused when help opened
	ready    bool
}

func NewHelpOverlayModel() HelpOverlayModel {
	return HelpOverlayModel{}
}

// Show makes the overlay visible and sets the context panel.
func (m *HelpOverlayModel) Show(context Panel) {
	m.visible = true
	m.context = context
	m.refreshContent()
}

// Hide dismisses the overlay.
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// IsVisible returns whether the overlay is currently shown.
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize updates the overlay dimensions and rebuilds the viewport.
func (m *HelpOverlayModel) SetSize(termWidth, termHeight int) {
	m.width = termWidth
	m.height = termHeight

	innerW, innerH := m.innerDimensions()
	if !m.ready {
		m.viewport = viewport.New(innerW, innerH)
		m.ready = true
	} else {
		m.viewport.Width = innerW
		m.viewport.Height = innerH
	}
	m.refreshContent()
}

func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, GlobalKeys.Help), msg.String() == "esc", msg.String() == "q":
			m.Hide()
			return m, func() tea.Msg { return HelpClosedMsg{} }
		default:
			// Scroll the viewport with j/k/arrows
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	overlayW, overlayH := m.overlayDimensions()

	var content string
	if m.ready {
		content = m.viewport.View()
	}

	title := overlayTitleStyle.Render(" Keyboard Shortcuts ")
	footer := overlayFooterStyle.Render(" ? / Esc to close ")

	innerW := max(overlayW-4, 1) // border + padding

	titleLine := lipgloss.PlaceHorizontal(innerW, lipgloss.Center, title)
	footerLine := lipgloss.PlaceHorizontal(innerW, lipgloss.Center, footer)

	boxParts := []string{titleLine, "", content}
	if indicator := scrollIndicator(m.viewport, innerW); indicator != "" {
		boxParts = append(boxParts, indicator)
	} else {
		boxParts = append(boxParts, "")
	}
	boxParts = append(boxParts, footerLine)
	box := lipgloss.JoinVertical(lipgloss.Left, boxParts...)

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(overlayBorderColor).
		Padding(0, 1).
		Width(overlayW - 2). // account for border
		Height(overlayH - 2)

	rendered := overlayStyle.Render(box)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, rendered)
}

// overlayDimensions returns the outer dimensions of the overlay box.
func (m HelpOverlayModel) overlayDimensions() (width, height int) {
	width = int(float64(m.width) * 0.65)
	height = int(float64(m.height) * 0.75)
	if width < 50 {
		width = min(50, m.width)
	}
	if height < 15 {
		height = min(15, m.height)
	}
	return width, height
}

// innerDimensions returns the viewport dimensions inside the overlay box.
func (m HelpOverlayModel) innerDimensions() (width, height int) {
	ow, oh := m.overlayDimensions()
	// Subtract border (2), padding (2), title line (2), footer line (2), blank lines (2)
	return max(ow-6, 1), max(oh-10, 1)
}

func (m *HelpOverlayModel) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHelpContent())
	m.viewport.GotoTop()
}

type helpSection struct {
	title string
	match bool // whether this section matches current context
	keys  []key.Binding
}

func (m HelpOverlayModel) sections() []helpSection {
	return []helpSection{
		{
			title: "Global",
			keys: []key.Binding{
				GlobalKeys.Filter, GlobalKeys.Sort, GlobalKeys.Timeline,
				GlobalKeys.CloseTimeline, GlobalKeys.Tab, GlobalKeys.OpenBrowser,
				GlobalKeys.Refresh, GlobalKeys.Help, GlobalKeys.Quit,
			},
		},
		{
			title: "Queue",
			match: m.context == PanelQueue,
			keys: []key.Binding{
				QueueListKeys.Up, QueueListKeys.Down, QueueListKeys.HalfUp,
				QueueListKeys.HalfDown, QueueListKeys.Top, QueueListKeys.Bottom,
				QueueListKeys.Toggle, QueueListKeys.SelectAll, QueueListKeys.SelectNone,
				QueueListKeys.SelectRollups, QueueListKeys.EditSelection,
				QueueListKeys.CopySummary, QueueListKeys.Rollup,
			},
		},
		{
			title: "Timeline",
			match: m.context == PanelTimeline,
			keys: []key.Binding{
				TimelineKeys.Up, TimelineKeys.Down, TimelineKeys.HalfUp,
				TimelineKeys.HalfDown, TimelineKeys.Top, TimelineKeys.Bottom,
			},
		},
		{
			title: "Mouse",
			keys: []key.Binding{
				key.NewBinding(key.WithHelp("click row", "open its timeline")),
				key.NewBinding(key.WithHelp("click elsewhere", "close the timeline")),
				key.NewBinding(key.WithHelp("hover row", "preload its timeline")),
				key.NewBinding(key.WithHelp("wheel", "scroll")),
			},
		},
	}
}

func (m HelpOverlayModel) renderHelpContent() string {
	innerW, _ := m.innerDimensions()

	var b strings.Builder
	for i, section := range m.sections() {
		if i > 0 {
			b.WriteString("\n\n")
		}

		titleStr := section.title
		style, divider := helpSectionStyle, helpDividerStyle
		if section.match {
			titleStr += " (current)"
			style, divider = helpSectionActiveStyle, helpSectionActiveStyle
		}
		b.WriteString(style.Render(titleStr))
		b.WriteString("\n")

		divLen := min(lipgloss.Width(titleStr)+2, innerW)
		b.WriteString(divider.Render(strings.Repeat("─", divLen)))
		b.WriteString("\n")

		for _, binding := range section.keys {
			h := binding.Help()
			b.WriteString(helpKeyStyle.Render(padRight(h.Key, 20)) + helpDescStyle.Render(h.Desc) + "\n")
		}
	}
	return b.String()
}

// Help overlay styles
var (
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("33"))

	helpSectionActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	helpDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)
