package ui

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/queue"
)

// QueueLoader defines the data operations used by the UI layer.
// *dashboard.Loader satisfies this interface.
type QueueLoader interface {
	Load(ctx context.Context) (dashboard.Snapshot, error)
	Invalidate()
	Timeline(ctx context.Context, number int) ([]queue.TimelineEvent, error)
}

// URLOpener opens a URL outside the terminal. *browser.Opener satisfies it.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// Notifier delivers desktop notifications. *notify.Notifier satisfies it.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// ClipboardWriter is an interface for clipboard operations (allows mocking in tests).
type ClipboardWriter interface {
	WriteText(text string) error
}

// systemClipboard implements ClipboardWriter using the system clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
