package ui

import (
	"strings"

	"github.com/shhac/queuetea/internal/queue"
)

// renderScrollbar builds a 1-char-wide vertical scrollbar column with selection markers.
// Each row maps proportionally to the visible items; the thumb shows the rendered window
// and green markers show where checked items live.
func (m QueueListModel) renderScrollbar(items []*queue.Item, height int) string {
	total := len(items)
	if total == 0 || height <= 0 {
		return strings.TrimSuffix(strings.Repeat(" \n", max(height, 1)), "\n")
	}
	if total <= m.capacity() {
		return strings.TrimSuffix(strings.Repeat(" \n", height), "\n")
	}

	thumbSize := max(1, height*m.capacity()/total)
	thumbStart := m.offset * height / total
	if thumbStart+thumbSize > height {
		thumbStart = height - thumbSize
	}

	checked := make([]bool, height)
	for i, it := range items {
		if !it.Checked {
			continue
		}
		row := min(i*height/total, height-1)
		checked[row] = true
	}

	rows := make([]string, height)
	for i := range height {
		inThumb := i >= thumbStart && i < thumbStart+thumbSize
		switch {
		case inThumb && checked[i]:
			rows[i] = scrollbarCheckedStyle.Render("┃")
		case inThumb:
			rows[i] = scrollbarThumbStyle.Render("┃")
		case checked[i]:
			rows[i] = scrollbarCheckedStyle.Render("●")
		default:
			rows[i] = scrollbarTrackStyle.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}
