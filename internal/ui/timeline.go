package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/shhac/queuetea/internal/queue"
)

// TimelineModel renders the comment timeline of one PR in a scrollable
// viewport.
type TimelineModel struct {
	viewport viewport.Model
	spinner  spinner.Model
	md       MarkdownRenderer
	ready    bool
	width    int
	height   int
	focused  bool

	number int
	title  string
	url    string
	panel  *queue.Panel
	errMsg string
}

func NewTimelineModel() TimelineModel {
	return TimelineModel{spinner: newLoadingSpinner()}
}

// Show switches the panel to PR number. Content arrives through SetPanel.
func (m *TimelineModel) Show(number int, title, url string) {
	if m.number != number {
		m.panel = nil
	}
	m.number = number
	m.title = title
	m.url = url
	m.errMsg = ""
	m.refreshContent()
}

// Number returns the PR shown, or 0.
func (m TimelineModel) Number() int {
	return m.number
}

// Loading reports whether the panel is waiting for its first fetch.
func (m TimelineModel) Loading() bool {
	return m.number != 0 && m.errMsg == "" && (m.panel == nil || !m.panel.Loaded)
}

// SetPanel installs loaded timeline content. A panel asking to be pinned is
// scrolled to its newest entry and the request is consumed.
func (m *TimelineModel) SetPanel(p *queue.Panel) {
	if p == nil || p.Number != m.number {
		return
	}
	m.panel = p
	m.errMsg = ""
	m.refreshContent()
	if p.PinBottom && m.ready {
		m.viewport.GotoBottom()
		p.PinBottom = false
	}
}

// SetError records a fetch failure for the shown PR. Content already loaded
// stays in place.
func (m *TimelineModel) SetError(number int, err string) {
	if number != m.number {
		return
	}
	m.errMsg = err
	m.refreshContent()
}

// Clear closes the panel's content.
func (m *TimelineModel) Clear() {
	m.number = 0
	m.panel = nil
	m.errMsg = ""
	m.title = ""
	m.url = ""
}

func (m *TimelineModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// border (2) + header (2) + indicator (1)
	innerW := max(width-4, 1)
	innerH := max(height-5, 1)
	if !m.ready {
		m.viewport = viewport.New(innerW, innerH)
		m.ready = true
	} else {
		m.viewport.Width = innerW
		m.viewport.Height = innerH
	}
	m.refreshContent()
}

func (m *TimelineModel) SetFocused(focused bool) {
	m.focused = focused
}

// Refresh re-renders content, e.g. after relative times changed.
func (m *TimelineModel) Refresh() {
	m.refreshContent()
}

// Scroll moves the viewport by lines; negative scrolls up.
func (m *TimelineModel) Scroll(lines int) {
	if lines < 0 {
		m.viewport.ScrollUp(-lines)
	} else {
		m.viewport.ScrollDown(lines)
	}
}

func (m *TimelineModel) refreshContent() {
	if !m.ready {
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.renderEvents())
	m.viewport.SetYOffset(offset)
}

func (m TimelineModel) Update(msg tea.Msg) (TimelineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, TimelineKeys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, TimelineKeys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, TimelineKeys.HalfUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, TimelineKeys.HalfDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m TimelineModel) View() string {
	innerW := max(m.width-4, 1)
	header := panelHeaderStyle(m.focused).Render(fmt.Sprintf("#%d", m.number))
	if m.title != "" {
		header += " " + timelineTitleStyle.Render(m.title)
	}
	header = ansi.Truncate(header, innerW, "…")

	var content string
	switch {
	case m.errMsg != "" && (m.panel == nil || !m.panel.Loaded):
		content = renderErrorWithHint(formatUserError(m.errMsg), "Press r to retry")
	case m.Loading():
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(1, 2).
			Render(m.spinner.View() + " Loading timeline...")
	case len(m.panel.Events) == 0:
		content = renderEmptyState("No recent activity", "Press o to open the PR")
	default:
		content = m.viewport.View()
		if indicator := scrollIndicator(m.viewport, innerW); indicator != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, indicator)
		}
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, header, "", content)
	style := panelStyle(m.focused, false, m.width-2, m.height-2).Padding(0, 1)
	return style.Render(inner)
}

// renderEvents draws every event as a header line and a markdown body.
func (m *TimelineModel) renderEvents() string {
	if m.panel == nil {
		return ""
	}
	width := max(m.viewport.Width, 10)
	sep := timelineSepStyle.Render(strings.Repeat("─", min(width, 40)))

	var b strings.Builder
	for i, ev := range m.panel.Events {
		if i > 0 {
			b.WriteString("\n" + sep + "\n")
		}
		b.WriteString(eventHeader(ev))
		if body := strings.TrimSpace(ev.Body); body != "" {
			b.WriteString("\n")
			b.WriteString(m.md.Render(body, width))
		}
	}
	return b.String()
}

func eventHeader(ev queue.TimelineEvent) string {
	actor := ev.Actor
	if actor == "" {
		actor = "ghost"
	}
	line := timelineActorStyle.Render(actor) + " " + timelineKindStyle.Render(ev.Kind)
	if ev.Created.Text != "" {
		line += " " + timelineTimeStyle.Render(ev.Created.Text)
	}
	return line
}
