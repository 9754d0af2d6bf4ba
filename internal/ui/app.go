package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/shhac/queuetea/internal/queue"
)

// Options wires the App to its collaborators and user settings.
type Options struct {
	Loader    QueueLoader
	Opener    URLOpener
	Notifier  Notifier
	Clipboard ClipboardWriter

	// Title is shown at the left of the header, e.g. "rust-lang/rust".
	Title     string
	ClientID  string
	RepoLabel string
	// ConfigPath receives the sort key when it changes. Empty disables saving.
	ConfigPath string

	RefreshInterval time.Duration
	RetryInterval   time.Duration
	RelTimeInterval time.Duration
	DefaultSort     string
	Notifications   bool

	Now func() time.Time
}

// App is the root Bubbletea model for the queue dashboard.
type App struct {
	// Panel models
	queueList QueueListModel
	timeline  TimelineModel
	filterBar FilterBarModel
	statusBar StatusBarModel

	// Overlays
	helpOverlay     HelpOverlayModel
	selectionEditor SelectionEditorModel
	rollupConfirm   RollupConfirmModel

	// Controller of the loaded snapshot (nil until the first load succeeds)
	ctrl *queue.Controller
	opts Options

	// Layout state
	focused Panel
	width   int
	height  int

	// Mode
	mode AppMode

	// Background refresh. Only the tick carrying pollSeq is honoured.
	pollSeq   int
	loading   bool
	fetchedAt time.Time
}

// NewApp creates the App with its sub-models in loading state.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = queue.DefaultSortKey
	}
	if opts.RelTimeInterval <= 0 {
		opts.RelTimeInterval = queue.RefreshInterval
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = opts.RefreshInterval
	}

	return App{
		queueList:       NewQueueListModel(),
		timeline:        NewTimelineModel(),
		filterBar:       NewFilterBarModel(),
		statusBar:       NewStatusBarModel(),
		helpOverlay:     NewHelpOverlayModel(),
		selectionEditor: NewSelectionEditorModel(),
		rollupConfirm:   NewRollupConfirmModel(),
		opts:            opts,
		focused:         PanelQueue,
		mode:            ModeNavigation,
		loading:         true,
	}
}

func (m App) Init() tea.Cmd {
	return tea.Batch(
		loadQueueCmd(m.opts.Loader, false),
		m.queueList.spinner.Tick,
		relTimeTickCmd(m.opts.RelTimeInterval),
	)
}

// Update dispatches messages to domain-specific sub-handlers.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Queue domain: loading, background refresh
	case QueueLoadedMsg, QueueErrorMsg, pollTickMsg:
		return m.handleQueueMsg(msg)

	// Timeline domain
	case TimelineLoadedMsg, TimelineErrorMsg:
		return m.handleTimelineMsg(msg)

	// Overlay results
	case SelectionEditedMsg, RollupConfirmedMsg, RollupCancelledMsg, HelpClosedMsg:
		return m.handleOverlayMsg(msg)

	// Outcomes of fire-and-forget actions
	case BrowserOpenedMsg, ClipboardCopiedMsg, SortSavedMsg:
		return m.handleActionMsg(msg)

	case relTimeTickMsg:
		if m.ctrl != nil {
			m.ctrl.RefreshTimes()
			m.timeline.Refresh()
		}
		m.statusBar.SetLastUpdated(m.fetchedAt, m.opts.Now())
		return m, relTimeTickCmd(m.opts.RelTimeInterval)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case StatusBarClearMsg:
		m.statusBar.ClearIfSeqMatch(msg.Seq)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	// Cursor blink and similar internal messages for focused inputs
	var cmd tea.Cmd
	switch {
	case m.selectionEditor.IsVisible():
		m.selectionEditor, cmd = m.selectionEditor.Update(msg)
	case m.filterBar.IsActive():
		m.filterBar, cmd = m.filterBar.Update(msg)
	}
	return m, cmd
}

// handleWindowSize processes terminal resize events.
func (m App) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.helpOverlay.SetSize(m.width, m.height)
	m.selectionEditor.SetSize(m.width, m.height)
	m.rollupConfirm.SetSize(m.width, m.height)
	m.recalcLayout()
	return m, nil
}

func (m App) View() string {
	sizes := m.panelSizes()

	if sizes.TooSmall {
		msg := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Render(fmt.Sprintf("Terminal too small. Please resize to at least %d×%d.",
				minTotalWidth, minPanelHeight+headerHeight+statusBarHeight))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	// Overlays take the whole screen
	switch {
	case m.helpOverlay.IsVisible():
		return m.helpOverlay.View()
	case m.selectionEditor.IsVisible():
		return m.selectionEditor.View()
	case m.rollupConfirm.IsVisible():
		return m.rollupConfirm.View()
	}

	var panelViews []string
	if sizes.QueueWidth > 0 {
		panelViews = append(panelViews, m.queueList.View())
	}
	if sizes.TimelineWidth > 0 {
		panelViews = append(panelViews, m.timeline.View())
	}
	panels := lipgloss.JoinHorizontal(lipgloss.Top, panelViews...)

	rows := []string{m.renderHeader()}
	if m.filterBar.Visible() {
		rows = append(rows, m.filterBar.View())
	}
	rows = append(rows, panels, m.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderHeader draws the title and the queue counters.
func (m App) renderHeader() string {
	title := m.opts.Title
	if title == "" {
		title = "queuetea"
	}
	line := headerTitleStyle.Render(title)
	if m.ctrl != nil {
		s := m.ctrl.Stats()
		line += headerStatStyle.Render(fmt.Sprintf(" %d in queue", s.Count)) +
			headerDimStyle.Render(" · ") +
			headerStatStyle.Render(fmt.Sprintf("%d approved", s.Approved)) +
			headerDimStyle.Render(" · ") +
			headerStatStyle.Render(fmt.Sprintf("%d rollups", s.Rollups))
	}
	return ansi.Truncate(line, max(m.width, 1), "…")
}

// -- Layout & panel helpers --

func (m App) timelineOpen() bool {
	return m.ctrl != nil && m.ctrl.Panels().IsOpen()
}

func (m App) panelSizes() PanelSizes {
	return CalculatePanelSizes(m.width, m.height, m.timelineOpen(), m.filterBar.Visible())
}

// focusPanel sets focus to the given panel. The timeline can only take focus
// while it is open.
func (m *App) focusPanel(p Panel) {
	if p == PanelTimeline && !m.timelineOpen() {
		p = PanelQueue
	}
	if p == PanelQueue && m.timelineOpen() && m.panelSizes().QueueWidth == 0 {
		p = PanelTimeline
	}
	m.focused = p
	m.queueList.SetFocused(p == PanelQueue)
	m.timeline.SetFocused(p == PanelTimeline)
	m.syncStatus()
}

func (m *App) recalcLayout() {
	sizes := m.panelSizes()
	m.statusBar.SetWidth(m.width)
	m.filterBar.SetWidth(m.width)
	if sizes.TooSmall {
		return
	}
	if sizes.QueueWidth > 0 {
		m.queueList.SetSize(sizes.QueueWidth, sizes.PanelHeight)
	}
	if sizes.TimelineWidth > 0 {
		m.timeline.SetSize(sizes.TimelineWidth, sizes.PanelHeight)
	}
	m.focusPanel(m.focused)
}

// setMode switches the input mode and updates the status bar.
func (m *App) setMode(mode AppMode) {
	m.mode = mode
	m.syncStatus()
}

// syncStatus pushes the current focus, mode and selection to the status bar.
func (m *App) syncStatus() {
	m.statusBar.SetState(m.focused, m.mode, m.timelineOpen())
	m.statusBar.SetRefreshing(m.loading)
	if m.ctrl != nil {
		m.statusBar.SetSelection(m.ctrl.Summary().Count)
	}
}

// syncTimeline mirrors the controller's open panel into the timeline view.
func (m *App) syncTimeline() {
	if m.ctrl == nil {
		return
	}
	panel, ok := m.ctrl.Panels().Active()
	if !ok {
		m.timeline.Clear()
		m.queueList.SetActiveTimeline(0)
		return
	}
	if m.timeline.Number() != panel.Number {
		title, url := "", ""
		if it, ok := m.ctrl.Item(panel.Number); ok {
			title, url = it.Title, it.HTMLURL
		}
		m.timeline.Show(panel.Number, title, url)
	}
	m.queueList.SetActiveTimeline(panel.Number)
	if panel.Loaded {
		m.timeline.SetPanel(panel)
	}
}

// flash shows a temporary status bar message.
func (m *App) flash(text string) tea.Cmd {
	return m.statusBar.SetTemporaryMessage(text, 3*time.Second)
}
