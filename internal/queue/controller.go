package queue

import (
	"time"
)

// DefaultSortKey is the sort key applied when a snapshot is first loaded.
const DefaultSortKey = "priority"

// Controller owns the interactive state of one loaded queue snapshot:
// visibility, selection, ordering, the comment panels and their fetch cache.
// It is not safe for concurrent use; callers mutate it from a single goroutine.
type Controller struct {
	items   []*Item
	now     func() time.Time
	filter  filterState
	sortKey string
	panels  *Panels
}

// NewController builds a controller over items, sorts them by the default
// key and renders their relative times. A nil now uses time.Now.
func NewController(items []Item, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		now:     now,
		sortKey: DefaultSortKey,
		panels:  NewPanels(),
	}
	c.items = make([]*Item, len(items))
	for i := range items {
		it := items[i]
		c.items[i] = &it
	}
	c.Sort(c.sortKey)
	c.RefreshTimes()
	return c
}

// Items returns the items in display order, hidden ones included.
func (c *Controller) Items() []*Item {
	return c.items
}

// Visible returns the items that pass the current filter, in display order.
func (c *Controller) Visible() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		if !it.Hidden {
			out = append(out, it)
		}
	}
	return out
}

// VisibleCount returns the number of items that pass the current filter.
func (c *Controller) VisibleCount() int {
	n := 0
	for _, it := range c.items {
		if !it.Hidden {
			n++
		}
	}
	return n
}

// Item looks up an item by PR number.
func (c *Controller) Item(number int) (*Item, bool) {
	for _, it := range c.items {
		if it.Number == number {
			return it, true
		}
	}
	return nil, false
}

// SortKey returns the key the items are currently ordered by.
func (c *Controller) SortKey() string {
	return c.sortKey
}

// Panels exposes the comment panel state machine.
func (c *Controller) Panels() *Panels {
	return c.panels
}

// Replace swaps in a freshly loaded snapshot. Checked flags carry over by PR
// number, the active filter and sort key are re-applied, and the timeline
// fetch cache is reset except for the open panel.
func (c *Controller) Replace(items []Item) {
	checked := make(map[int]bool)
	for _, it := range c.items {
		if it.Checked {
			checked[it.Number] = true
		}
	}

	c.items = make([]*Item, len(items))
	for i := range items {
		it := items[i]
		it.Checked = checked[it.Number]
		it.Hidden = false
		c.items[i] = &it
	}

	c.panels.Reset()
	if c.filter.pattern != "" {
		c.Filter(c.filter.pattern)
	}
	c.Sort(c.sortKey)
	c.RefreshTimes()
}

// RefreshTimes recomputes every relative time label, including those inside
// populated comment panels.
func (c *Controller) RefreshTimes() {
	now := c.now()
	for _, it := range c.items {
		it.Created.Refresh(now)
		it.Committed.Refresh(now)
	}
	c.panels.refreshTimes(now)
}

// Stats summarises the snapshot for the header line.
type Stats struct {
	Count    int
	Approved int
	Rollups  int
}

// Stats counts all items, the approved ones that are not conflicting, and
// the subset of those marked for rollup.
func (c *Controller) Stats() Stats {
	var s Stats
	for _, it := range c.items {
		s.Count++
		if it.Priority.Status != StatusApproved || it.Mergeable == "CONFLICTING" {
			continue
		}
		s.Approved++
		if it.Priority.Secondary == RollupPriority {
			s.Rollups++
		}
	}
	return s
}
