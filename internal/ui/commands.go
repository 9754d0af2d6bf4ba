package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shhac/queuetea/internal/config"
	"github.com/shhac/queuetea/internal/notify"
	"github.com/shhac/queuetea/internal/queue"
)

// loadQueueCmd returns a command that fetches and merges the queue.
func loadQueueCmd(loader QueueLoader, background bool) tea.Cmd {
	return func() tea.Msg {
		snap, err := loader.Load(context.Background())
		if err != nil {
			return QueueErrorMsg{Err: err, Background: background}
		}
		return QueueLoadedMsg{Snapshot: snap, Background: background}
	}
}

// fetchTimelineCmd returns a command that fetches one PR's timeline.
func fetchTimelineCmd(loader QueueLoader, number int) tea.Cmd {
	return func() tea.Msg {
		events, err := loader.Timeline(context.Background(), number)
		if err != nil {
			return TimelineErrorMsg{Number: number, Err: err}
		}
		return TimelineLoadedMsg{Number: number, Events: events}
	}
}

// pollTickCmd returns a command that fires after the given interval to trigger background refresh.
func pollTickCmd(interval time.Duration, seq int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{Seq: seq}
	})
}

// relTimeTickCmd returns a command that fires when relative times are due.
func relTimeTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = queue.RefreshInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return relTimeTickMsg{}
	})
}

// openBrowserCmd opens url in the system browser.
func openBrowserCmd(opener URLOpener, url string) tea.Cmd {
	return func() tea.Msg {
		err := opener.Open(context.Background(), url)
		return BrowserOpenedMsg{URL: url, Err: err}
	}
}

// notifyApprovedCmd sends one OS notification for PRs that became approved.
// Errors are logged only; a missing notifier must not disturb the UI.
func notifyApprovedCmd(n Notifier, numbers []int) tea.Cmd {
	title, body, ok := notify.Approved(numbers)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := n.Send(context.Background(), title, body); err != nil {
			slog.Warn("Notification failed", "error", err)
		}
		return nil
	}
}

// copySummaryCmd writes the selection summary to the clipboard.
func copySummaryCmd(cb ClipboardWriter, summary queue.Summary) tea.Cmd {
	return func() tea.Msg {
		err := cb.WriteText(summary.Text)
		return ClipboardCopiedMsg{Count: summary.Count, Err: err}
	}
}

// saveSortCmd persists the chosen sort key as the default.
func saveSortCmd(path, sortKey string) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveValue(path, "default_sort", sortKey)
		return SortSavedMsg{Key: sortKey, Err: err}
	}
}
