package ui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeyMap defines keys available in navigation mode regardless of focused panel.
type GlobalKeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	Tab           key.Binding
	Filter        key.Binding
	Sort          key.Binding
	OpenBrowser   key.Binding
	Refresh       key.Binding
	Timeline      key.Binding
	CloseTimeline key.Binding
}

var GlobalKeys = GlobalKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("Tab", "switch panel"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle sort key"),
	),
	OpenBrowser: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Timeline: key.NewBinding(
		key.WithKeys("c", "enter"),
		key.WithHelp("c/Enter", "toggle timeline"),
	),
	CloseTimeline: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close timeline"),
	),
}

// QueueListKeyMap defines keys for the queue list panel.
type QueueListKeyMap struct {
	Up            key.Binding
	Down          key.Binding
	HalfUp        key.Binding
	HalfDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Toggle        key.Binding
	SelectAll     key.Binding
	SelectNone    key.Binding
	SelectRollups key.Binding
	EditSelection key.Binding
	CopySummary   key.Binding
	Rollup        key.Binding
}

var QueueListKeys = QueueListKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	HalfUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("Ctrl+u", "half page up"),
	),
	HalfDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("Ctrl+d", "half page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "toggle checkbox"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "select all visible"),
	),
	SelectNone: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "select none"),
	),
	SelectRollups: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "select approved rollups"),
	),
	EditSelection: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit selection"),
	),
	CopySummary: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy selection"),
	),
	Rollup: key.NewBinding(
		key.WithKeys("U"),
		key.WithHelp("U", "create rollup"),
	),
}

// TimelineKeyMap defines keys for the timeline panel.
type TimelineKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

var TimelineKeys = TimelineKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "scroll down"),
	),
	HalfUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("Ctrl+u", "half page up"),
	),
	HalfDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("Ctrl+d", "half page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
}

// OverlayKeyMap defines keys shared by the modal overlays.
type OverlayKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Apply   key.Binding
}

var OverlayKeys = OverlayKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y/Enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc", "q"),
		key.WithHelp("n/Esc", "cancel"),
	),
	Apply: key.NewBinding(
		key.WithKeys("ctrl+s", "esc"),
		key.WithHelp("Ctrl+S/Esc", "apply and close"),
	),
}
