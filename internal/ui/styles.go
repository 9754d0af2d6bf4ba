package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/queue"
)

// Panel border colors
var (
	focusedBorderColor   = lipgloss.Color("62")  // bright purple/blue
	unfocusedBorderColor = lipgloss.Color("240") // dim gray
	filterBorderColor    = lipgloss.Color("42")  // green
)

// Status bar
var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
	statusBarAccentStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("62")).
				Bold(true)
)

// Header line with queue stats
var (
	headerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)
	headerStatStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Queue list styles
var (
	rowTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rowMetaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	rowRankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	rowNumberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	rowCheckedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	rowConflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	rowCursorStyle   = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#F793FF", Dark: "#AD58B4"})
	rowActiveMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	columnHeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
)

// Timeline styles
var (
	timelineTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	timelineActorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	timelineKindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	timelineTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	timelineSepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Filter bar styles
var (
	filterPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	filterTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	filterHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	filterErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Italic(true)
	filterStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Overlay styles
var (
	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)
	overlayFooterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)
	overlayBorderColor = lipgloss.Color("62")
)

// Panel style builders
func panelStyle(focused bool, filtering bool, width, height int) lipgloss.Style {
	borderColor := unfocusedBorderColor
	if focused {
		borderColor = focusedBorderColor
		if filtering {
			borderColor = filterBorderColor
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Height(height)
}

func panelHeaderStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
}

// statusColors maps each queue tier to its badge color.
var statusColors = map[queue.Status]lipgloss.Color{
	queue.StatusPending:   lipgloss.Color("214"),
	queue.StatusApproved:  lipgloss.Color("42"),
	queue.StatusError:     lipgloss.Color("201"),
	queue.StatusFailure:   lipgloss.Color("196"),
	queue.StatusSuccess:   lipgloss.Color("76"),
	queue.StatusReviewing: lipgloss.Color("244"),
}

// statusBadge renders a fixed-width status cell, with "(try)" for try builds.
func statusBadge(s queue.Status, trying bool) string {
	text := strings.ToLower(s.String())
	if trying {
		text += " (try)"
	}
	color, ok := statusColors[s]
	if !ok {
		color = lipgloss.Color("244")
	}
	return lipgloss.NewStyle().Foreground(color).Width(statusColumnWidth).Render(text)
}

// labelBadge renders a label on its own GitHub color with readable text.
func labelBadge(l queue.Label) string {
	bg := "#" + strings.TrimPrefix(l.Color, "#")
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(dashboard.TextColor(l.Color))).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(l.Name)
}

// ciBadge returns a one-cell icon for a commit status state.
func ciBadge(state string) string {
	var icon, color string
	switch state {
	case "SUCCESS":
		icon, color = "✓", "42"
	case "FAILURE", "ERROR":
		icon, color = "✗", "196"
	case "PENDING", "EXPECTED":
		icon, color = "●", "226"
	default:
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(icon)
}

// newLoadingSpinner creates a consistently styled spinner for loading states.
func newLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	return s
}

// renderEmptyState renders a consistent empty state message with optional action hint.
func renderEmptyState(message, hint string) string {
	msg := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(1, 2).
		Render("— " + message)
	if hint == "" {
		return msg
	}
	h := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		Padding(0, 2).
		Render(hint)
	return lipgloss.JoinVertical(lipgloss.Left, msg, h)
}

// renderErrorWithHint renders a consistent error message with retry hint.
func renderErrorWithHint(errMsg, hint string) string {
	msg := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true).
		Padding(1, 2).
		Render(errMsg)
	if hint == "" {
		return msg
	}
	h := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(0, 2).
		Render(hint)
	return lipgloss.JoinVertical(lipgloss.Left, msg, h)
}

// formatUserError converts raw error strings into user-friendly messages.
func formatUserError(err string) string {
	lower := strings.ToLower(err)
	switch {
	case strings.Contains(lower, "gh cli not found"):
		return "GitHub CLI (gh) not found.\nInstall from https://cli.github.com or pass --token."
	case strings.Contains(lower, "no github token"):
		return "No GitHub token.\nSet QUEUETEA_TOKEN, pass --token or run 'gh auth login'."
	case strings.Contains(lower, "bad credentials") || strings.Contains(lower, "401"):
		return "GitHub rejected the token.\nCheck the token and its scopes."
	case strings.Contains(lower, "rate limit"):
		return "GitHub rate limit reached.\nWait a moment and try again."
	case strings.Contains(lower, "structure probably changed"):
		return "The homu queue page has an unexpected layout.\nCheck --homu-queue-url."
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "Request timed out.\nCheck your connection and try again."
	case strings.Contains(lower, "no such host") || strings.Contains(lower, "connection refused"):
		return "Network error.\nCheck your internet connection."
	default:
		return err
	}
}

// Vertical scrollbar styles (1-char wide column in the queue list)
var (
	scrollbarTrackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	scrollbarThumbStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	scrollbarCheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Scroll indicator style
var scrollIndicatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

// scrollIndicator returns a scroll position line for a viewport.
// Returns "" if all content fits within the viewport (no scrolling needed).
func scrollIndicator(vp viewport.Model, width int) string {
	if vp.TotalLineCount() <= vp.Height {
		return ""
	}
	pct := int(vp.ScrollPercent() * 100)
	var label string
	switch {
	case vp.AtTop():
		label = fmt.Sprintf("%d%% ▼", pct)
	case vp.AtBottom():
		label = fmt.Sprintf("▲ %d%%", pct)
	default:
		label = fmt.Sprintf("▲ %d%% ▼", pct)
	}
	return scrollIndicatorStyle.Render(
		lipgloss.PlaceHorizontal(width, lipgloss.Right, label),
	)
}
