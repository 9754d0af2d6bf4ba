package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/shhac/queuetea/internal/queue"
)

// loadState tracks the data-fetch lifecycle.
type loadState int

const (
	stateLoading loadState = iota
	stateLoaded
	stateError
)

const (
	rowHeight         = 2
	rankColumnWidth   = 5
	numberColumnWidth = 7
	statusColumnWidth = 15
	maxRowLabels      = 3
)

var (
	cursorMarker = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#F793FF", Dark: "#AD58B4"}).
			Render("│")
	activeMarker = rowActiveMarkerStyle.Render("▸")
)

// QueueListModel manages the queue list panel. Rows come from the
// controller in display order; hidden items are skipped.
type QueueListModel struct {
	ctrl    *queue.Controller
	spinner spinner.Model
	width   int
	height  int
	focused bool

	// cursor indexes the visible items; cursorNumber survives re-sorts.
	cursor       int
	cursorNumber int
	offset       int

	// PR whose timeline is open (0 = none).
	activeNumber int

	state  loadState
	errMsg string
}

func NewQueueListModel() QueueListModel {
	return QueueListModel{
		spinner: newLoadingSpinner(),
		state:   stateLoading,
	}
}

// SetController points the list at a loaded snapshot.
func (m *QueueListModel) SetController(c *queue.Controller) {
	m.ctrl = c
	m.state = stateLoaded
	m.errMsg = ""
	m.Sync()
}

// SetLoading puts the panel into loading state.
func (m *QueueListModel) SetLoading() {
	m.state = stateLoading
	m.errMsg = ""
}

// SetError puts the panel into error state with a message.
func (m *QueueListModel) SetError(err string) {
	m.state = stateError
	m.errMsg = err
}

// SetActiveTimeline marks which PR's timeline is open.
func (m *QueueListModel) SetActiveTimeline(number int) {
	m.activeNumber = number
}

func (m *QueueListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

func (m *QueueListModel) SetFocused(focused bool) {
	m.focused = focused
}

func (m QueueListModel) visible() []*queue.Item {
	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Visible()
}

// Selected returns the item under the cursor.
func (m QueueListModel) Selected() (*queue.Item, bool) {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil, false
	}
	return items[m.cursor], true
}

// SelectedNumber returns the PR number under the cursor, or 0.
func (m QueueListModel) SelectedNumber() int {
	if it, ok := m.Selected(); ok {
		return it.Number
	}
	return 0
}

// Sync re-anchors the cursor after the visible set or order changed. The
// cursor follows its PR when it is still visible, otherwise it is clamped.
func (m *QueueListModel) Sync() {
	items := m.visible()
	found := false
	for i, it := range items {
		if it.Number == m.cursorNumber {
			m.cursor = i
			found = true
			break
		}
	}
	if !found {
		m.cursor = min(max(m.cursor, 0), max(len(items)-1, 0))
	}
	if m.cursor < len(items) {
		m.cursorNumber = items[m.cursor].Number
	} else {
		m.cursorNumber = 0
	}
	m.ensureVisible()
}

// SelectNumber moves the cursor to number. It reports false when the PR is
// not visible.
func (m *QueueListModel) SelectNumber(number int) bool {
	for i, it := range m.visible() {
		if it.Number == number {
			m.cursor = i
			m.cursorNumber = number
			m.ensureVisible()
			return true
		}
	}
	return false
}

// moveBy shifts the cursor by delta rows, clamped to the list.
func (m *QueueListModel) moveBy(delta int) {
	items := m.visible()
	if len(items) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(items)-1)
	m.cursorNumber = items[m.cursor].Number
	m.ensureVisible()
}

// capacity is the number of rows that fit inside the panel.
func (m QueueListModel) capacity() int {
	// border (2) + header (1)
	return max((m.height-3)/rowHeight, 1)
}

func (m *QueueListModel) ensureVisible() {
	c := m.capacity()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+c {
		m.offset = m.cursor - c + 1
	}
	if n := len(m.visible()); m.offset > max(n-c, 0) {
		m.offset = max(n-c, 0)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// ItemAt maps a row relative to the panel's top border to the PR rendered
// there.
func (m QueueListModel) ItemAt(row int) (int, bool) {
	if m.state != stateLoaded {
		return 0, false
	}
	contentRow := row - 2 // border + header
	if contentRow < 0 || contentRow >= m.capacity()*rowHeight {
		return 0, false
	}
	idx := m.offset + contentRow/rowHeight
	items := m.visible()
	if idx >= len(items) {
		return 0, false
	}
	return items[idx].Number, true
}

func (m QueueListModel) Update(msg tea.Msg) (QueueListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == stateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if m.state != stateLoaded {
			return m, nil
		}
		half := max(m.capacity()/2, 1)
		switch {
		case key.Matches(msg, QueueListKeys.Up):
			m.moveBy(-1)
		case key.Matches(msg, QueueListKeys.Down):
			m.moveBy(1)
		case key.Matches(msg, QueueListKeys.HalfUp):
			m.moveBy(-half)
		case key.Matches(msg, QueueListKeys.HalfDown):
			m.moveBy(half)
		case key.Matches(msg, QueueListKeys.Top):
			m.moveBy(-len(m.visible()))
		case key.Matches(msg, QueueListKeys.Bottom):
			m.moveBy(len(m.visible()))
		}
	}
	return m, nil
}

func (m QueueListModel) View() string {
	header := m.renderHeader()

	var content string
	switch m.state {
	case stateLoading:
		content = m.renderLoading()
	case stateError:
		content = renderErrorWithHint(formatUserError(m.errMsg), "Press r to retry")
	case stateLoaded:
		content = m.renderRows()
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, header, content)
	style := panelStyle(m.focused, false, m.width-2, m.height-2)
	return style.Render(inner)
}

func (m QueueListModel) renderHeader() string {
	title := panelHeaderStyle(m.focused).Render("Queue")
	if m.ctrl == nil {
		return title
	}
	info := fmt.Sprintf(" %d shown · sorted by %s", m.ctrl.VisibleCount(), m.ctrl.SortKey())
	return ansi.Truncate(title+rowMetaStyle.Render(info), max(m.width-2, 1), "…")
}

func (m QueueListModel) renderLoading() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(1, 2).
		Render(m.spinner.View() + " Loading queue...")
}

func (m QueueListModel) renderRows() string {
	items := m.visible()
	if len(items) == 0 {
		if len(m.ctrl.Items()) == 0 {
			return renderEmptyState("The queue is empty", "Press r to refresh")
		}
		return renderEmptyState("No PRs match the filter", "Press / to edit the filter")
	}

	// border (2) + scrollbar (1)
	rowWidth := max(m.width-3, 1)
	end := min(m.offset+m.capacity(), len(items))
	var rows []string
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(items[i], i == m.cursor, rowWidth))
	}
	body := strings.Join(rows, "\n")
	height := m.capacity() * rowHeight
	body = lipgloss.NewStyle().Width(rowWidth).Height(height).Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderScrollbar(items, height))
}

// renderRow draws one item as two lines: identity and title, then metadata.
func (m QueueListModel) renderRow(it *queue.Item, isCursor bool, width int) string {
	prefix := "  "
	switch {
	case isCursor && it.Number == m.activeNumber:
		prefix = cursorMarker + activeMarker
	case isCursor:
		prefix = cursorMarker + " "
	case it.Number == m.activeNumber:
		prefix = " " + activeMarker
	}

	check := "[ ]"
	if it.Checked {
		check = rowCheckedStyle.Render("[x]")
	}
	rank := rowRankStyle.Render(padRight(queue.RankLabel(it.Rank), rankColumnWidth))
	number := rowNumberStyle.Render(padRight(strconv.Itoa(it.Number), numberColumnWidth))
	line1 := prefix + check + " " + rank + number + statusBadge(it.Priority.Status, it.IsTrying)

	titleWidth := max(width-lipgloss.Width(line1), 1)
	titleStyle := rowTitleStyle
	if isCursor && m.focused {
		titleStyle = titleStyle.Bold(true)
	}
	line1 += titleStyle.Render(runewidth.Truncate(it.Title, titleWidth, "…"))

	line2 := prefix + "    " + rowMetaStyle.Render(strings.Join(rowMeta(it), " · "))
	if it.Mergeable == "CONFLICTING" {
		line2 += " " + rowConflictStyle.Render("conflict")
	}
	for _, ctx := range it.CI {
		if b := ciBadge(ctx.State); b != "" {
			line2 += " " + b
		}
	}
	for i, l := range it.Labels {
		if i == maxRowLabels {
			line2 += rowMetaStyle.Render(fmt.Sprintf(" +%d", len(it.Labels)-maxRowLabels))
			break
		}
		line2 += " " + labelBadge(l)
	}

	return ansi.Truncate(line1, width, "…") + "\n" + ansi.Truncate(line2, width, "…")
}

// rowMeta lists the plain metadata fields of an item.
func rowMeta(it *queue.Item) []string {
	var meta []string
	if it.Author != "" {
		meta = append(meta, it.Author)
	}
	switch {
	case it.Approver != "":
		meta = append(meta, "r="+it.Approver)
	case it.Reviewer != "":
		meta = append(meta, "rev "+it.Reviewer)
	}
	switch p := it.Priority.Secondary; {
	case p == queue.RollupPriority:
		meta = append(meta, "rollup")
	case p != 0:
		meta = append(meta, "p="+strconv.Itoa(p))
	}
	if it.Complexity > 0 {
		meta = append(meta, "±"+strconv.Itoa(it.Complexity))
	}
	if it.Created.Datetime != "" {
		meta = append(meta, "opened "+it.Created.Text)
	}
	if it.Committed.Datetime != "" {
		meta = append(meta, "pushed "+it.Committed.Text)
	}
	return meta
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
