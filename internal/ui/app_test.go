package ui

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/demo"
	"github.com/shhac/queuetea/internal/queue"
)

var testNow = time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

type fakeOpener struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeOpener) Open(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (f *fakeNotifier) Send(_ context.Context, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (f *fakeClipboard) WriteText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	return f.err
}

type testDeps struct {
	loader    *dashboard.Loader
	opener    *fakeOpener
	notifier  *fakeNotifier
	clipboard *fakeClipboard
}

func newDemoLoader() *dashboard.Loader {
	svc := demo.NewService()
	return dashboard.NewLoader(dashboard.Config{
		PRs:       svc,
		Queue:     svc,
		Timelines: svc,
		Owner:     svc.Owner(),
		Repo:      svc.Repo(),
		Interval:  time.Minute,
		Now:       func() time.Time { return testNow },
	})
}

// newTestApp returns an App sized to width x height, without any snapshot.
func newTestApp(t *testing.T, width, height int, mutate func(*Options)) (App, testDeps) {
	t.Helper()
	deps := testDeps{
		loader:    newDemoLoader(),
		opener:    &fakeOpener{},
		notifier:  &fakeNotifier{},
		clipboard: &fakeClipboard{},
	}
	opts := Options{
		Loader:          deps.loader,
		Opener:          deps.opener,
		Notifier:        deps.notifier,
		Clipboard:       deps.clipboard,
		Title:           "acme/engine",
		ClientID:        "cid",
		RepoLabel:       "engine",
		RefreshInterval: time.Minute,
		RetryInterval:   time.Second,
		Now:             func() time.Time { return testNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	m := NewApp(opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	return m, deps
}

// newLoadedApp returns a 120x40 App with the demo queue loaded.
func newLoadedApp(t *testing.T, mutate func(*Options)) (App, testDeps) {
	t.Helper()
	m, deps := newTestApp(t, 120, 40, mutate)
	m, _ = update(t, m, QueueLoadedMsg{Snapshot: loadSnapshot(t, deps.loader)})
	return m, deps
}

func loadSnapshot(t *testing.T, l *dashboard.Loader) dashboard.Snapshot {
	t.Helper()
	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return snap
}

func update(t *testing.T, m App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", next)
	}
	return app, cmd
}

func press(t *testing.T, m App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(t, m, keyMsg(k))
	}
	return m, cmd
}

// keyMsg creates a tea.KeyMsg from a key string.
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// drain runs cmd and every command it batches, collecting the messages that
// arrive within a short window. Timers longer than the window never report.
func drain(cmd tea.Cmd) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					run(bc)
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-timeout:
			return msgs
		}
	}
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func visibleNumbers(m App) []int {
	var nums []int
	for _, it := range m.ctrl.Visible() {
		nums = append(nums, it.Number)
	}
	return nums
}

func TestAppInitialLoad(t *testing.T) {
	m, _ := newLoadedApp(t, nil)

	if m.ctrl == nil {
		t.Fatal("controller not created")
	}
	want := []int{4101, 4102, 4103, 4099, 4104, 4105, 4106}
	if got := visibleNumbers(m); !slices.Equal(got, want) {
		t.Errorf("visible order = %v, want %v", got, want)
	}
	if m.loading {
		t.Error("loading should be false after QueueLoadedMsg")
	}
	if got := m.queueList.SelectedNumber(); got != 4101 {
		t.Errorf("cursor on #%d, want #4101", got)
	}
	if !m.ctrl.Panels().Fetched(4101) {
		t.Error("row under the cursor should be pre-fetched")
	}

	view := m.View()
	for _, want := range []string{"acme/engine", "7 in queue", "2 approved", "2 rollups", "Speed up trait selection"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestAppDefaultSortFromOptions(t *testing.T) {
	m, _ := newLoadedApp(t, func(o *Options) { o.DefaultSort = "number" })

	if got := m.ctrl.SortKey(); got != "number" {
		t.Errorf("SortKey() = %q, want number", got)
	}
	if got := visibleNumbers(m)[0]; got != 4106 {
		t.Errorf("first row = #%d, want #4106", got)
	}
}

func TestAppQueueErrorBeforeLoad(t *testing.T) {
	m, _ := newTestApp(t, 120, 40, nil)
	m, cmd := update(t, m, QueueErrorMsg{Err: errors.New("gh CLI not found in PATH")})

	if m.queueList.state != stateError {
		t.Errorf("queue list state = %v, want stateError", m.queueList.state)
	}
	if cmd == nil {
		t.Error("expected a retry tick after a failed load")
	}
	if !strings.Contains(m.View(), "GitHub CLI (gh) not found") {
		t.Error("View() should show the friendly error")
	}
}

func TestAppQueueErrorAfterLoadKeepsData(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = update(t, m, QueueErrorMsg{Err: errors.New("rate limit exceeded"), Background: true})

	if m.queueList.state != stateLoaded {
		t.Error("a failed refresh should keep the loaded list")
	}
	if !strings.Contains(m.statusBar.Message(), "rate limit") {
		t.Errorf("status message = %q, want rate limit notice", m.statusBar.Message())
	}
}

func TestAppPollTickSeq(t *testing.T) {
	m, _ := newLoadedApp(t, nil)

	m, cmd := update(t, m, pollTickMsg{Seq: m.pollSeq - 1})
	if cmd != nil || m.loading {
		t.Fatal("stale tick should be ignored")
	}

	m, cmd = update(t, m, pollTickMsg{Seq: m.pollSeq})
	if !m.loading {
		t.Fatal("current tick should start a load")
	}
	loaded, ok := findMsg[QueueLoadedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected QueueLoadedMsg from the background load")
	}
	if !loaded.Background {
		t.Error("tick-driven load should be marked Background")
	}

	// A second tick while loading is dropped.
	if _, cmd := update(t, m, pollTickMsg{Seq: m.pollSeq}); cmd != nil {
		t.Error("tick during a load should be dropped")
	}
}

func TestAppBackgroundLoadNotifiesNewlyApproved(t *testing.T) {
	m, deps := newLoadedApp(t, func(o *Options) { o.Notifications = true })
	m, _ = press(t, m, "space") // check #4101

	snap := loadSnapshot(t, deps.loader)
	items := slices.Clone(snap.Items)
	for i := range items {
		if items[i].Number == 4101 {
			items[i].Priority.Status = queue.StatusApproved
		}
	}
	m, cmd := update(t, m, QueueLoadedMsg{
		Snapshot:   dashboard.Snapshot{Items: items, FetchedAt: testNow},
		Background: true,
	})
	drain(cmd)

	deps.notifier.mu.Lock()
	bodies := slices.Clone(deps.notifier.bodies)
	deps.notifier.mu.Unlock()
	if len(bodies) != 1 || !strings.Contains(bodies[0], "#4101") {
		t.Errorf("notifications = %q, want one mentioning #4101", bodies)
	}

	it, _ := m.ctrl.Item(4101)
	if !it.Checked {
		t.Error("checked state should survive a refresh")
	}
}

func TestAppForegroundLoadDoesNotNotify(t *testing.T) {
	m, deps := newLoadedApp(t, func(o *Options) { o.Notifications = true })

	items := slices.Clone(loadSnapshot(t, deps.loader).Items)
	for i := range items {
		items[i].Priority.Status = queue.StatusApproved
	}
	_, cmd := update(t, m, QueueLoadedMsg{Snapshot: dashboard.Snapshot{Items: items}})
	drain(cmd)

	if len(deps.notifier.bodies) != 0 {
		t.Errorf("foreground load sent %d notifications", len(deps.notifier.bodies))
	}
}

func TestAppSelectionKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []int
	}{
		{"toggle cursor row", []string{"space"}, []int{4101}},
		{"toggle twice", []string{"space", "space"}, nil},
		{"toggle after move", []string{"j", "space"}, []int{4102}},
		{"select all", []string{"A"}, []int{4099, 4101, 4102, 4103, 4104, 4105, 4106}},
		{"select none", []string{"A", "N"}, nil},
		{"approved rollups", []string{"R"}, []int{4102, 4103}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newLoadedApp(t, nil)
			m, _ = press(t, m, tt.keys...)
			if got := m.ctrl.Summary().Numbers; !slices.Equal(got, tt.want) {
				t.Errorf("selection = %v, want %v", got, tt.want)
			}
			if got := m.statusBar.selected; got != len(tt.want) {
				t.Errorf("status bar count = %d, want %d", got, len(tt.want))
			}
		})
	}
}

func TestAppFilterLive(t *testing.T) {
	m, _ := newLoadedApp(t, nil)

	m, _ = press(t, m, "/")
	if m.mode != ModeFilter {
		t.Fatalf("mode = %v, want ModeFilter", m.mode)
	}
	m, _ = press(t, m, "t", "y", "p", "o")
	if got := visibleNumbers(m); !slices.Equal(got, []int{4102}) {
		t.Fatalf("visible = %v, want [4102]", got)
	}
	if m.filterBar.status != "(1 filtered)" {
		t.Errorf("filter status = %q, want (1 filtered)", m.filterBar.status)
	}

	// Enter keeps the pattern applied.
	m, _ = press(t, m, "enter")
	if m.mode != ModeNavigation {
		t.Errorf("mode = %v, want ModeNavigation", m.mode)
	}
	if got := m.ctrl.VisibleCount(); got != 1 {
		t.Errorf("VisibleCount() = %d after Enter, want 1", got)
	}
	if got := m.queueList.SelectedNumber(); got != 4102 {
		t.Errorf("cursor on #%d, want #4102", got)
	}

	// Esc clears it.
	m, _ = press(t, m, "/", "esc")
	if got := m.ctrl.VisibleCount(); got != 7 {
		t.Errorf("VisibleCount() = %d after Esc, want 7", got)
	}
	if m.filterBar.Visible() {
		t.Error("filter bar should hide once cleared")
	}
}

func TestAppFilterInvalidPatternKeepsVisibility(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = press(t, m, "/", "F", "i", "x")
	before := visibleNumbers(m)

	m, _ = press(t, m, "(")
	if m.filterBar.errMsg == "" {
		t.Error("expected an inline error for an unbalanced group")
	}
	if got := visibleNumbers(m); !slices.Equal(got, before) {
		t.Errorf("visible = %v, want unchanged %v", got, before)
	}
}

func TestAppSortCycleSavesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, _ := newLoadedApp(t, func(o *Options) { o.ConfigPath = path })

	m, cmd := press(t, m, "s")
	if got := m.ctrl.SortKey(); got != "number" {
		t.Fatalf("SortKey() = %q, want number", got)
	}
	if got := m.queueList.SelectedNumber(); got != 4101 {
		t.Errorf("cursor should follow #4101 across the re-sort, on #%d", got)
	}

	saved, ok := findMsg[SortSavedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected SortSavedMsg")
	}
	if saved.Err != nil {
		t.Fatalf("save failed: %v", saved.Err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.Contains(string(data), `"default_sort": "number"`) {
		t.Errorf("config = %s, want default_sort number", data)
	}
}

func TestAppTimelineToggle(t *testing.T) {
	m, deps := newLoadedApp(t, nil)

	m, _ = press(t, m, "c")
	panel, ok := m.ctrl.Panels().Active()
	if !ok || panel.Number != 4101 {
		t.Fatalf("active panel = %+v, want #4101", panel)
	}
	if m.timeline.Number() != 4101 {
		t.Errorf("timeline shows #%d, want #4101", m.timeline.Number())
	}
	if m.timeline.width == 0 {
		t.Error("timeline panel should be laid out once open")
	}

	events, err := deps.loader.Timeline(context.Background(), 4101)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	m, _ = update(t, m, TimelineLoadedMsg{Number: 4101, Events: events})
	if m.timeline.Loading() {
		t.Error("timeline should be loaded")
	}
	if !strings.Contains(m.View(), "#4101") {
		t.Error("View() should show the timeline header")
	}

	m, _ = press(t, m, "c")
	if m.ctrl.Panels().IsOpen() {
		t.Error("second c should close the timeline")
	}

	m, _ = press(t, m, "enter", "esc")
	if m.ctrl.Panels().IsOpen() {
		t.Error("Esc should close the timeline")
	}
}

func TestAppTimelineErrorKeepsContent(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	m, _ = press(t, m, "c")
	events, _ := deps.loader.Timeline(context.Background(), 4101)
	m, _ = update(t, m, TimelineLoadedMsg{Number: 4101, Events: events})

	m, _ = update(t, m, TimelineErrorMsg{Number: 4101, Err: errors.New("boom")})
	panel, _ := m.ctrl.Panels().Active()
	if len(panel.Events) != len(events) {
		t.Errorf("events = %d after failed fetch, want %d", len(panel.Events), len(events))
	}
}

func TestAppHoverFetchesOnce(t *testing.T) {
	m, _ := newLoadedApp(t, nil)

	m, cmd := press(t, m, "j")
	if !m.ctrl.Panels().Fetched(4102) {
		t.Fatal("moving onto #4102 should pre-fetch its timeline")
	}
	if _, ok := findMsg[TimelineLoadedMsg](drain(cmd)); !ok {
		t.Error("expected a timeline fetch for #4102")
	}

	m, _ = press(t, m, "k")
	if _, cmd = press(t, m, "j"); cmd != nil {
		if _, ok := findMsg[TimelineLoadedMsg](drain(cmd)); ok {
			t.Error("hovering #4102 again should not fetch twice")
		}
	}
}

func TestAppRollupFlow(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	m, _ = press(t, m, "R", "U")

	if !m.rollupConfirm.IsVisible() || m.mode != ModeOverlay {
		t.Fatal("U should open the rollup prompt")
	}
	if !strings.Contains(m.View(), "Create a rollup of 2 PRs?") {
		t.Error("prompt text missing from View()")
	}

	m, cmd := press(t, m, "y")
	confirmed, ok := findMsg[RollupConfirmedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected RollupConfirmedMsg")
	}
	m, cmd = update(t, m, confirmed)
	if m.mode != ModeNavigation {
		t.Errorf("mode = %v after confirm, want ModeNavigation", m.mode)
	}
	drain(cmd)

	deps.opener.mu.Lock()
	urls := slices.Clone(deps.opener.urls)
	deps.opener.mu.Unlock()
	if len(urls) != 1 {
		t.Fatalf("opened %d URLs, want 1", len(urls))
	}
	u, err := url.Parse(urls[0])
	if err != nil {
		t.Fatalf("parse %q: %v", urls[0], err)
	}
	if got := u.Query().Get("client_id"); got != "cid" {
		t.Errorf("client_id = %q, want cid", got)
	}
	want := `{"cmd":"rollup","repo_label":"engine","nums":[4102,4103]}`
	if got := u.Query().Get("state"); got != want {
		t.Errorf("state = %s, want %s", got, want)
	}
}

func TestAppRollupCancel(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	m, _ = press(t, m, "R", "U")
	m, cmd := press(t, m, "n")

	cancelled, ok := findMsg[RollupCancelledMsg](drain(cmd))
	if !ok {
		t.Fatal("expected RollupCancelledMsg")
	}
	m, _ = update(t, m, cancelled)
	if m.mode != ModeNavigation || m.rollupConfirm.IsVisible() {
		t.Error("cancel should return to navigation")
	}
	if len(deps.opener.urls) != 0 {
		t.Error("cancel should not open a browser")
	}
}

func TestAppRollupWithoutSelection(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = press(t, m, "U")

	if m.rollupConfirm.IsVisible() {
		t.Error("prompt should not open with nothing checked")
	}
	if got := m.statusBar.Message(); got != "No PRs selected" {
		t.Errorf("status message = %q, want No PRs selected", got)
	}
}

func TestAppSelectionEditor(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = press(t, m, "R", "e")

	if !m.selectionEditor.IsVisible() {
		t.Fatal("e should open the selection editor")
	}
	if got := m.selectionEditor.Value(); !strings.Contains(got, " - #4102 (Fix typo in borrow checker docs)") {
		t.Errorf("editor text = %q, want summary lines", got)
	}

	m.selectionEditor.textarea.SetValue("keep #4104 and 4105 please")
	m, cmd := press(t, m, "ctrl+s")
	edited, ok := findMsg[SelectionEditedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected SelectionEditedMsg")
	}
	m, _ = update(t, m, edited)

	if got := m.ctrl.Summary().Numbers; !slices.Equal(got, []int{4104, 4105}) {
		t.Errorf("selection = %v, want [4104 4105]", got)
	}
	if m.mode != ModeNavigation {
		t.Errorf("mode = %v, want ModeNavigation", m.mode)
	}
}

func TestAppCopySummary(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	m, cmd := press(t, m, "R", "y")

	copied, ok := findMsg[ClipboardCopiedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected ClipboardCopiedMsg")
	}
	if !strings.Contains(deps.clipboard.text, " - #4103 (Update lockfile dependencies)") {
		t.Errorf("clipboard = %q", deps.clipboard.text)
	}
	m, _ = update(t, m, copied)
	if got := m.statusBar.Message(); got != "Copied 2 PRs" {
		t.Errorf("status message = %q, want Copied 2 PRs", got)
	}
}

func TestAppCopyFailure(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	deps.clipboard.err = errors.New("no clipboard utility")
	m, cmd := press(t, m, "A", "y")

	copied, _ := findMsg[ClipboardCopiedMsg](drain(cmd))
	m, _ = update(t, m, copied)
	if got := m.statusBar.Message(); !strings.Contains(got, "Copy failed") {
		t.Errorf("status message = %q, want failure notice", got)
	}
}

func TestAppOpenBrowser(t *testing.T) {
	m, deps := newLoadedApp(t, nil)
	_, cmd := press(t, m, "o")

	opened, ok := findMsg[BrowserOpenedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected BrowserOpenedMsg")
	}
	if opened.URL != dashboard.PRURL("acme", "engine", 4101) {
		t.Errorf("opened %q", opened.URL)
	}
	if len(deps.opener.urls) != 1 {
		t.Errorf("opener called %d times, want 1", len(deps.opener.urls))
	}
}

func TestAppMouse(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	top := panelTop(false)

	// Second row starts two lines below the first (border + header + 2).
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: top + 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if !m.ctrl.Panels().Fetched(4102) {
		t.Error("motion over #4102 should pre-fetch it")
	}
	if m.ctrl.Panels().IsOpen() {
		t.Error("hover alone must not open a panel")
	}

	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: top + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	panel, ok := m.ctrl.Panels().Active()
	if !ok || panel.Number != 4101 {
		t.Fatalf("click on first row: active = %+v, want #4101", panel)
	}

	sizes := m.panelSizes()
	m, _ = update(t, m, tea.MouseMsg{X: sizes.QueueWidth + 5, Y: top + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.ctrl.Panels().IsOpen() {
		t.Error("click inside the timeline should keep it open")
	}
	if m.focused != PanelTimeline {
		t.Errorf("focused = %v, want Timeline", m.focused)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.ctrl.Panels().IsOpen() {
		t.Error("click outside should close the timeline")
	}
	if m.focused != PanelQueue {
		t.Errorf("focused = %v, want Queue", m.focused)
	}
}

func TestAppMouseWheelMovesCursor(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.queueList.SelectedNumber(); got != 4102 {
		t.Errorf("cursor on #%d after wheel, want #4102", got)
	}
}

func TestAppNarrowTimelineReplacesList(t *testing.T) {
	m, deps := newTestApp(t, 70, 30, nil)
	m, _ = update(t, m, QueueLoadedMsg{Snapshot: loadSnapshot(t, deps.loader)})

	m, _ = press(t, m, "c")
	if m.focused != PanelTimeline {
		t.Errorf("focused = %v, want Timeline when the list is hidden", m.focused)
	}
	if m.panelSizes().QueueWidth != 0 {
		t.Error("queue list should be hidden")
	}

	m, _ = press(t, m, "esc")
	if m.focused != PanelQueue {
		t.Errorf("focused = %v after close, want Queue", m.focused)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, _ = press(t, m, "?")
	if !m.helpOverlay.IsVisible() || m.mode != ModeOverlay {
		t.Fatal("? should open help")
	}

	m, cmd := press(t, m, "esc")
	closed, ok := findMsg[HelpClosedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected HelpClosedMsg")
	}
	m, _ = update(t, m, closed)
	if m.mode != ModeNavigation {
		t.Errorf("mode = %v, want ModeNavigation", m.mode)
	}
}

func TestAppRefreshInvalidates(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	m, cmd := press(t, m, "r")
	if !m.loading {
		t.Fatal("r should start a load")
	}
	loaded, ok := findMsg[QueueLoadedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected QueueLoadedMsg")
	}
	if loaded.Background {
		t.Error("manual refresh should not be Background")
	}

	// A second r while loading is ignored.
	if _, cmd := press(t, m, "r"); cmd != nil {
		t.Error("refresh during a load should be ignored")
	}
}

func TestAppTooSmall(t *testing.T) {
	m, _ := newTestApp(t, 30, 10, nil)
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected too-small message")
	}
}

func TestAppQuit(t *testing.T) {
	m, _ := newLoadedApp(t, nil)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
