package ui

import (
	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/queue"
)

// -- Queue data --

// QueueLoadedMsg is sent when a merged queue snapshot has been fetched.
type QueueLoadedMsg struct {
	Snapshot dashboard.Snapshot
	// Background is true for loads triggered by the refresh timer.
	Background bool
}

// QueueErrorMsg is sent when loading the queue fails.
type QueueErrorMsg struct {
	Err        error
	Background bool
}

// -- Timelines --

// TimelineLoadedMsg is sent when a PR's timeline has been fetched.
type TimelineLoadedMsg struct {
	Number int
	Events []queue.TimelineEvent
}

// TimelineErrorMsg is sent when fetching a PR's timeline fails.
type TimelineErrorMsg struct {
	Number int
	Err    error
}

// -- Timers --

// pollTickMsg fires when the next background refresh is due. Ticks whose
// seq is no longer current are dropped.
type pollTickMsg struct {
	Seq int
}

// relTimeTickMsg fires when relative timestamps should be re-rendered.
type relTimeTickMsg struct{}

// StatusBarClearMsg clears a flash message if Seq is still current.
type StatusBarClearMsg struct {
	Seq int
}

// -- Actions --

// BrowserOpenedMsg reports the outcome of opening a URL.
type BrowserOpenedMsg struct {
	URL string
	Err error
}

// ClipboardCopiedMsg reports the outcome of copying the selection summary.
type ClipboardCopiedMsg struct {
	Count int
	Err   error
}

// SortSavedMsg reports the outcome of persisting the sort key.
type SortSavedMsg struct {
	Key string
	Err error
}

// -- Overlays --

// SelectionEditedMsg is emitted when the selection editor closes.
type SelectionEditedMsg struct {
	Text string
}

// RollupConfirmedMsg is emitted when the user accepts the rollup prompt.
type RollupConfirmedMsg struct {
	Numbers []int
}

// RollupCancelledMsg is emitted when the user declines the rollup prompt.
type RollupCancelledMsg struct{}

// HelpClosedMsg is sent when the help overlay is dismissed.
type HelpClosedMsg struct{}
