package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/queue"
)

// -- Queue domain handlers --

// handleQueueMsg handles snapshot loads and the background refresh timer.
func (m App) handleQueueMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QueueLoadedMsg:
		m.loading = false
		m.fetchedAt = msg.Snapshot.FetchedAt
		var cmds []tea.Cmd

		if m.ctrl == nil {
			m.ctrl = queue.NewController(msg.Snapshot.Items, m.opts.Now)
			if m.opts.DefaultSort != m.ctrl.SortKey() {
				m.ctrl.Sort(m.opts.DefaultSort)
			}
			if pattern := m.filterBar.Value(); pattern != "" {
				m.ctrl.Filter(pattern)
				m.filterBar.SetResult(m.ctrl.FilterStatus(), m.ctrl.FilterError())
			}
			m.queueList.SetController(m.ctrl)
			cmds = append(cmds, m.hover(m.queueList.SelectedNumber()))
		} else {
			prev := snapshotItems(m.ctrl.Items())
			m.ctrl.Replace(msg.Snapshot.Items)
			m.filterBar.SetResult(m.ctrl.FilterStatus(), m.ctrl.FilterError())
			m.queueList.SetController(m.ctrl)
			if msg.Background && m.opts.Notifications && m.opts.Notifier != nil {
				if newly := dashboard.NewlyApproved(prev, msg.Snapshot.Items); len(newly) > 0 {
					cmds = append(cmds, notifyApprovedCmd(m.opts.Notifier, itemNumbers(newly)))
				}
			}
		}
		slog.Debug("Queue loaded", "items", len(msg.Snapshot.Items), "background", msg.Background)

		m.statusBar.SetLastUpdated(m.fetchedAt, m.opts.Now())
		m.syncTimeline()
		m.syncStatus()
		cmds = append(cmds, m.schedulePoll(m.opts.RefreshInterval))
		return m, tea.Batch(cmds...)

	case QueueErrorMsg:
		m.loading = false
		slog.Error("Queue load failed", "error", msg.Err, "background", msg.Background)
		var cmds []tea.Cmd
		if m.ctrl == nil {
			m.queueList.SetError(msg.Err.Error())
		} else {
			cmds = append(cmds, m.statusBar.SetTemporaryMessage(
				"Refresh failed: "+firstLine(formatUserError(msg.Err.Error())), 5*time.Second,
			))
		}
		m.syncStatus()
		cmds = append(cmds, m.schedulePoll(m.opts.RetryInterval))
		return m, tea.Batch(cmds...)

	case pollTickMsg:
		if msg.Seq != m.pollSeq || m.loading {
			return m, nil
		}
		m.loading = true
		m.syncStatus()
		return m, loadQueueCmd(m.opts.Loader, true)
	}
	return m, nil
}

// schedulePoll starts a new refresh timer and orphans any pending one.
func (m *App) schedulePoll(interval time.Duration) tea.Cmd {
	m.pollSeq++
	if interval <= 0 {
		return nil
	}
	return pollTickCmd(interval, m.pollSeq)
}

// refresh drops the cached snapshot and loads the queue again. A timeline
// whose fetch failed is retried as well.
func (m App) refresh() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.opts.Loader.Invalidate()
	cmds := []tea.Cmd{loadQueueCmd(m.opts.Loader, false)}
	if m.ctrl == nil {
		m.queueList.SetLoading()
		cmds = append(cmds, m.queueList.spinner.Tick)
	} else if panel, ok := m.ctrl.Panels().Active(); ok && m.ctrl.Panels().Retry(panel.Number) {
		cmds = append(cmds, fetchTimelineCmd(m.opts.Loader, panel.Number))
	}
	m.syncStatus()
	return m, tea.Batch(cmds...)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func snapshotItems(items []*queue.Item) []queue.Item {
	out := make([]queue.Item, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}

func itemNumbers(items []queue.Item) []int {
	nums := make([]int, len(items))
	for i, it := range items {
		nums[i] = it.Number
	}
	return nums
}

// -- Timeline domain handlers --

// handleTimelineMsg stores fetched timelines. A failed fetch leaves any
// content in place.
func (m App) handleTimelineMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case TimelineLoadedMsg:
		m.ctrl.Panels().Populate(msg.Number, msg.Events, m.opts.Now())
		m.syncTimeline()

	case TimelineErrorMsg:
		slog.Warn("Timeline fetch failed", "number", msg.Number, "error", msg.Err)
		m.ctrl.Panels().Fail(msg.Number)
		m.timeline.SetError(msg.Number, msg.Err.Error())
	}
	return m, nil
}

// hover pre-fetches the timeline of number and pins it to its newest entry.
func (m *App) hover(number int) tea.Cmd {
	if m.ctrl == nil || number == 0 {
		return nil
	}
	fetch := m.ctrl.Panels().Hover(number)
	m.syncTimeline()
	if fetch {
		return fetchTimelineCmd(m.opts.Loader, number)
	}
	return nil
}

// openTimeline opens the panel of number, closing any other.
func (m *App) openTimeline(number int) tea.Cmd {
	if m.ctrl == nil || number == 0 {
		return nil
	}
	fetch := m.ctrl.Panels().Click(number)
	m.panelsChanged()
	if fetch {
		return tea.Batch(fetchTimelineCmd(m.opts.Loader, number), m.timeline.spinner.Tick)
	}
	return nil
}

// closeTimeline closes the open panel, if any.
func (m *App) closeTimeline() {
	if m.ctrl == nil {
		return
	}
	m.ctrl.Panels().Close()
	m.panelsChanged()
}

// panelsChanged re-lays out the screen after a panel opened or closed.
func (m *App) panelsChanged() {
	m.recalcLayout()
	m.syncTimeline()
	if !m.timelineOpen() && m.focused == PanelTimeline {
		m.focusPanel(PanelQueue)
	}
	m.syncStatus()
}

// -- Overlay handlers --

// handleOverlayMsg handles results of the selection editor, rollup prompt
// and help overlay.
func (m App) handleOverlayMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.setMode(ModeNavigation)
	switch msg := msg.(type) {
	case SelectionEditedMsg:
		if m.ctrl == nil {
			return m, nil
		}
		s := m.ctrl.SelectByNumbers(msg.Text)
		m.syncStatus()
		return m, m.flash(fmt.Sprintf("%d PRs selected", s.Count))

	case RollupConfirmedMsg:
		url, err := queue.RollupURL(m.opts.ClientID, m.opts.RepoLabel, msg.Numbers)
		if err != nil {
			slog.Error("Building rollup URL failed", "error", err)
			return m, m.flash("Rollup failed: " + err.Error())
		}
		slog.Info("Launching rollup", "numbers", msg.Numbers)
		return m, tea.Batch(
			m.flash(fmt.Sprintf("Authorize the rollup of %d PRs in your browser", len(msg.Numbers))),
			m.open(url),
		)

	case RollupCancelledMsg, HelpClosedMsg:
		return m, nil
	}
	return m, nil
}

// -- Action outcome handlers --

func (m App) handleActionMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BrowserOpenedMsg:
		if msg.Err != nil {
			slog.Warn("Opening browser failed", "url", msg.URL, "error", msg.Err)
			return m, m.flash("Could not open browser: " + msg.Err.Error())
		}

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			slog.Warn("Clipboard write failed", "error", msg.Err)
			return m, m.flash("Copy failed: " + msg.Err.Error())
		}
		return m, m.flash(fmt.Sprintf("Copied %d PRs", msg.Count))

	case SortSavedMsg:
		if msg.Err != nil {
			slog.Warn("Saving sort key failed", "key", msg.Key, "error", msg.Err)
			return m, m.flash("Could not save sort: " + msg.Err.Error())
		}
		slog.Debug("Saved sort key", "key", msg.Key)
	}
	return m, nil
}

// open launches url in the browser when an opener is configured.
func (m App) open(url string) tea.Cmd {
	if m.opts.Opener == nil || url == "" {
		return nil
	}
	return openBrowserCmd(m.opts.Opener, url)
}

// -- Key handlers --

// handleKeyMsg routes keys by overlay, then mode, then focused panel.
func (m App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Overlays capture all keys
	var cmd tea.Cmd
	switch {
	case m.helpOverlay.IsVisible():
		m.helpOverlay, cmd = m.helpOverlay.Update(msg)
		return m, cmd
	case m.selectionEditor.IsVisible():
		m.selectionEditor, cmd = m.selectionEditor.Update(msg)
		return m, cmd
	case m.rollupConfirm.IsVisible():
		m.rollupConfirm, cmd = m.rollupConfirm.Update(msg)
		return m, cmd
	}

	if m.mode == ModeFilter {
		return m.handleFilterKey(msg)
	}

	// Global key handling in navigation mode
	switch {
	case key.Matches(msg, GlobalKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, GlobalKeys.Help):
		m.setMode(ModeOverlay)
		m.helpOverlay.SetSize(m.width, m.height)
		m.helpOverlay.Show(m.focused)
		return m, nil

	case key.Matches(msg, GlobalKeys.Tab):
		m.focusPanel(m.focused.Next())
		return m, nil

	case key.Matches(msg, GlobalKeys.Filter):
		m.setMode(ModeFilter)
		cmd := m.filterBar.Open()
		m.recalcLayout()
		return m, cmd

	case key.Matches(msg, GlobalKeys.Sort):
		return m.cycleSort()

	case key.Matches(msg, GlobalKeys.Refresh):
		return m.refresh()

	case key.Matches(msg, GlobalKeys.OpenBrowser):
		url := ""
		if m.focused == PanelTimeline {
			url = m.timeline.url
		} else if it, ok := m.queueList.Selected(); ok {
			url = it.HTMLURL
		}
		if url == "" {
			return m, m.flash("No PR selected")
		}
		return m, m.open(url)

	case key.Matches(msg, GlobalKeys.Timeline):
		if m.focused == PanelTimeline {
			m.closeTimeline()
			return m, nil
		}
		number := m.queueList.SelectedNumber()
		if number != 0 && m.timeline.Number() == number {
			m.closeTimeline()
			return m, nil
		}
		return m, m.openTimeline(number)

	case key.Matches(msg, GlobalKeys.CloseTimeline):
		m.closeTimeline()
		return m, nil
	}

	if m.focused == PanelTimeline {
		m.timeline, cmd = m.timeline.Update(msg)
		return m, cmd
	}
	return m.handleQueueKey(msg)
}

// handleFilterKey edits the filter pattern. Every keystroke re-applies it;
// Enter keeps it and Esc clears it.
func (m App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterBar.SetValue("")
		m.applyFilter()
		m.filterBar.Close()
		m.setMode(ModeNavigation)
		m.recalcLayout()
		return m, nil
	case "enter":
		m.filterBar.Close()
		m.setMode(ModeNavigation)
		m.recalcLayout()
		return m, nil
	}

	before := m.filterBar.Value()
	var cmd tea.Cmd
	m.filterBar, cmd = m.filterBar.Update(msg)
	if m.filterBar.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

// applyFilter runs the typed pattern against the controller.
func (m *App) applyFilter() {
	if m.ctrl == nil {
		return
	}
	m.ctrl.Filter(m.filterBar.Value())
	m.filterBar.SetResult(m.ctrl.FilterStatus(), m.ctrl.FilterError())
	m.queueList.Sync()
}

// cycleSort switches to the next sort key and saves it as the default.
func (m App) cycleSort() (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	next := queue.NextSortKey(m.ctrl.SortKey())
	m.ctrl.Sort(next)
	m.queueList.Sync()
	cmds := []tea.Cmd{m.flash("Sorted by " + next)}
	if m.opts.ConfigPath != "" {
		cmds = append(cmds, saveSortCmd(m.opts.ConfigPath, next))
	}
	return m, tea.Batch(cmds...)
}

// handleQueueKey handles selection keys and cursor movement in the list.
func (m App) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, QueueListKeys.Toggle):
		if n := m.queueList.SelectedNumber(); n != 0 {
			m.ctrl.ToggleChecked(n)
			m.syncStatus()
		}
		return m, nil

	case key.Matches(msg, QueueListKeys.SelectAll):
		s := m.ctrl.SelectAll()
		m.syncStatus()
		return m, m.flash(fmt.Sprintf("%d PRs selected", s.Count))

	case key.Matches(msg, QueueListKeys.SelectNone):
		s := m.ctrl.SelectNone()
		m.syncStatus()
		return m, m.flash(fmt.Sprintf("%d PRs selected", s.Count))

	case key.Matches(msg, QueueListKeys.SelectRollups):
		s := m.ctrl.SelectApprovedRollups()
		m.syncStatus()
		return m, m.flash(fmt.Sprintf("%d approved rollups selected", s.Count))

	case key.Matches(msg, QueueListKeys.EditSelection):
		m.setMode(ModeOverlay)
		m.selectionEditor.SetSize(m.width, m.height)
		return m, m.selectionEditor.Show(m.ctrl.Summary())

	case key.Matches(msg, QueueListKeys.CopySummary):
		s := m.ctrl.Summary()
		if s.Count == 0 {
			return m, m.flash("No PRs selected")
		}
		return m, copySummaryCmd(m.opts.Clipboard, s)

	case key.Matches(msg, QueueListKeys.Rollup):
		nums := m.ctrl.RollupNumbers()
		if len(nums) == 0 {
			return m, m.flash("No PRs selected")
		}
		m.setMode(ModeOverlay)
		m.rollupConfirm.SetSize(m.width, m.height)
		m.rollupConfirm.Show(nums)
		return m, nil
	}

	before := m.queueList.SelectedNumber()
	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	if after := m.queueList.SelectedNumber(); after != before {
		return m, tea.Batch(cmd, m.hover(after))
	}
	return m, cmd
}

// -- Mouse handlers --

// handleMouseMsg maps mouse events onto rows: motion hovers, a left click
// opens the row's timeline, a click inside the timeline keeps it open and a
// click anywhere else closes it.
func (m App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNavigation || m.ctrl == nil {
		return m, nil
	}
	sizes := m.panelSizes()
	if sizes.TooSmall {
		return m, nil
	}

	row := msg.Y - panelTop(m.filterBar.Visible())
	inPanels := row >= 0 && row < sizes.PanelHeight
	inQueue := inPanels && msg.X < sizes.QueueWidth
	inTimeline := inPanels && !inQueue && sizes.TimelineWidth > 0

	var number int
	var onRow bool
	if inQueue {
		number, onRow = m.queueList.ItemAt(row)
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		switch {
		case inTimeline:
			m.timeline.Scroll(delta * 3)
		case inQueue:
			m.queueList.moveBy(delta)
			return m, m.hover(m.queueList.SelectedNumber())
		}
		return m, nil

	case tea.MouseButtonNone:
		if msg.Action == tea.MouseActionMotion && onRow {
			return m, m.hover(number)
		}
		return m, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch {
		case onRow:
			m.queueList.SelectNumber(number)
			m.focusPanel(PanelQueue)
			return m, m.openTimeline(number)
		case inTimeline:
			m.ctrl.Panels().ClickOutside(m.timeline.Number())
			m.focusPanel(PanelTimeline)
		default:
			m.ctrl.Panels().ClickOutside(0)
			m.panelsChanged()
		}
	}
	return m, nil
}

// -- Infrastructure handlers --

// handleSpinnerTick routes spinner ticks to all panels.
func (m App) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	cmds = append(cmds, cmd)
	m.timeline, cmd = m.timeline.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
