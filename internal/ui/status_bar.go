package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shhac/queuetea/internal/queue"
)

// StatusBarModel renders the bottom status bar.
type StatusBarModel struct {
	width        int
	focused      Panel
	mode         AppMode
	selected     int
	refreshing   bool
	lastUpdated  string // relative label of the last successful load
	timelineOpen bool

	// Temporary flash message (e.g. "Copied 3 PRs")
	statusMessage string
	// Monotonic counter: incremented on each SetTemporaryMessage call.
	// StatusBarClearMsg carries the seq at time of scheduling; if it doesn't
	// match current seq the clear is stale and ignored.
	messageSeq int
}

func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetState(focused Panel, mode AppMode, timelineOpen bool) {
	m.focused = focused
	m.mode = mode
	m.timelineOpen = timelineOpen
}

// SetSelection updates the number of checked PRs.
func (m *StatusBarModel) SetSelection(count int) {
	m.selected = count
}

// SetRefreshing updates whether a queue load is in flight.
func (m *StatusBarModel) SetRefreshing(refreshing bool) {
	m.refreshing = refreshing
}

// SetLastUpdated renders the time of the last successful load relative to now.
func (m *StatusBarModel) SetLastUpdated(fetched, now time.Time) {
	if fetched.IsZero() {
		m.lastUpdated = ""
		return
	}
	m.lastUpdated = queue.RelativeTime(fetched.Format(time.RFC3339Nano), now)
}

// SetTemporaryMessage shows a flash message in the status bar.
// Returns a tea.Cmd that will send a StatusBarClearMsg after the given duration,
// which the caller must include in the returned command batch.
func (m *StatusBarModel) SetTemporaryMessage(msg string, duration time.Duration) tea.Cmd {
	m.messageSeq++
	m.statusMessage = msg
	seq := m.messageSeq
	return tea.Tick(duration, func(_ time.Time) tea.Msg {
		return StatusBarClearMsg{Seq: seq}
	})
}

// Message returns the current flash message.
func (m StatusBarModel) Message() string {
	return m.statusMessage
}

// ClearIfSeqMatch clears the message only if the given seq matches the current one.
// Returns true if the message was cleared.
func (m *StatusBarModel) ClearIfSeqMatch(seq int) bool {
	if seq == m.messageSeq {
		m.statusMessage = ""
		return true
	}
	return false
}

func (m StatusBarModel) View() string {
	var leftHints string
	if m.statusMessage != "" {
		leftHints = " " + m.statusMessage
	} else {
		leftHints = m.keyHints()
	}
	rightInfo := m.contextInfo()

	leftRendered := statusBarAccentStyle.Render(leftHints)
	rightRendered := statusBarStyle.Render(rightInfo)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	padding := max(m.width-leftWidth-rightWidth, 0)

	bar := leftRendered +
		statusBarStyle.Render(strings.Repeat(" ", padding)) +
		rightRendered

	return statusBarStyle.Width(m.width).MaxHeight(1).Render(bar)
}

func (m StatusBarModel) keyHints() string {
	switch m.mode {
	case ModeFilter:
		return " [Esc]clear [Enter]apply [type]regex"
	case ModeOverlay:
		return " [Esc]close"
	}

	if m.focused == PanelTimeline {
		return " [j/k]scroll [g/G]top/bottom [Tab]queue [Esc]close [o]open [?]help"
	}
	hints := " [j/k]move [Space]check [A/N/R]select [e]edit [y]copy [U]rollup [/]filter [s]sort [c]timeline"
	if m.timelineOpen {
		hints += " [Tab]timeline"
	}
	return hints + " [?]help"
}

func (m StatusBarModel) contextInfo() string {
	var parts []string
	if m.selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", m.selected))
	}
	switch {
	case m.refreshing:
		parts = append(parts, "refreshing…")
	case m.lastUpdated != "":
		parts = append(parts, "updated "+m.lastUpdated)
	}

	modeStr := " NAV "
	switch m.mode {
	case ModeFilter:
		modeStr = " FILTER "
	case ModeOverlay:
		modeStr = " OVERLAY "
	}
	if len(parts) == 0 {
		return modeStr
	}
	return strings.Join(parts, " · ") + " " + modeStr
}
