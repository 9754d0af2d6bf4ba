// Package notify sends desktop notifications when PRs become approved.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const appName = "queuetea"

// maxListed caps how many PR numbers are spelled out in one notification.
const maxListed = 5

// Runner executes an external command. Tests replace it.
type Runner func(ctx context.Context, name string, args ...string) error

// Notifier delivers OS-level notifications: osascript on macOS, notify-send
// on Linux and a terminal bell elsewhere.
type Notifier struct {
	goos string
	run  Runner
}

// New returns a Notifier for the running platform.
func New() *Notifier {
	return &Notifier{goos: runtime.GOOS, run: execRunner}
}

// NewWithRunner returns a Notifier for goos that runs commands through run.
func NewWithRunner(goos string, run Runner) *Notifier {
	return &Notifier{goos: goos, run: run}
}

// Send delivers a notification with the given title and body.
// Callers may ignore the error; notifications are best effort.
func (n *Notifier) Send(ctx context.Context, title, body string) error {
	switch n.goos {
	case "darwin":
		script := fmt.Sprintf(
			`display notification %s with title %s`,
			escapeAppleScript(body),
			escapeAppleScript(title),
		)
		return n.run(ctx, "osascript", "-e", script)
	case "linux":
		return n.run(ctx, "notify-send", "-a", appName, title, body)
	default:
		_, err := fmt.Print("\a")
		return err
	}
}

// Approved describes the PRs that were newly approved. It returns ok=false
// when numbers is empty.
func Approved(numbers []int) (title, body string, ok bool) {
	if len(numbers) == 0 {
		return "", "", false
	}
	if len(numbers) == 1 {
		return "PR approved", fmt.Sprintf("#%d is approved and waiting for bors", numbers[0]), true
	}

	listed := numbers
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	parts := make([]string, len(listed))
	for i, n := range listed {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	body = strings.Join(parts, ", ")
	if extra := len(numbers) - len(listed); extra > 0 {
		body += fmt.Sprintf(" and %d more", extra)
	}
	return fmt.Sprintf("%d PRs approved", len(numbers)), body, true
}

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// escapeAppleScript returns a quoted AppleScript string with internal
// quotes and backslashes escaped.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
