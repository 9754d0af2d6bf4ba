package queue

import "time"

// TimelineEvent is one entry in a pull request's comment timeline.
type TimelineEvent struct {
	Kind    string // comment, review, commit, labeled, merged, closed, ...
	Actor   string
	Body    string
	URL     string
	Created Stamp
}

// Panel holds the lazily loaded timeline of one pull request.
type Panel struct {
	Number int
	Events []TimelineEvent
	Loaded bool
	// Failed is set when the last fetch errored; only a failed panel is
	// fetched again.
	Failed bool
	// PinBottom asks the view to scroll to the newest entry on next render.
	PinBottom bool
}

// Panels is the comment panel state machine. At most one panel is open at
// a time, and each PR's timeline is fetched at most once until Reset.
type Panels struct {
	active  int // PR number of the open panel, 0 when closed
	fetched map[int]bool
	content map[int]*Panel
}

// NewPanels returns a closed state machine with an empty fetch cache.
func NewPanels() *Panels {
	return &Panels{
		fetched: make(map[int]bool),
		content: make(map[int]*Panel),
	}
}

// Hover marks the panel of number to be scrolled to the bottom and reports
// whether its timeline must be fetched. The fetch cache flag is set before
// returning so a repeated trigger never asks twice.
func (p *Panels) Hover(number int) bool {
	p.panel(number).PinBottom = true
	if p.fetched[number] {
		return false
	}
	p.fetched[number] = true
	return true
}

// Click closes any open panel, opens the panel of number and reports whether
// its timeline must be fetched.
func (p *Panels) Click(number int) bool {
	p.Close()
	p.active = number
	return p.Hover(number)
}

// ClickOutside closes the open panel unless target is the open panel's own
// number. A target of 0 means the click landed on no panel at all.
func (p *Panels) ClickOutside(target int) {
	if p.active != 0 && target != p.active {
		p.Close()
	}
}

// Close closes the open panel, if any.
func (p *Panels) Close() {
	p.active = 0
}

// IsOpen reports whether a panel is open.
func (p *Panels) IsOpen() bool {
	return p.active != 0
}

// Active returns the open panel.
func (p *Panels) Active() (*Panel, bool) {
	if p.active == 0 {
		return nil, false
	}
	return p.panel(p.active), true
}

// Fetched reports whether a fetch has been issued for number.
func (p *Panels) Fetched(number int) bool {
	return p.fetched[number]
}

// Fail records that the fetch for number errored. Loaded content is kept.
func (p *Panels) Fail(number int) {
	p.panel(number).Failed = true
}

// Retry reports whether the timeline of number must be fetched again, which
// is only the case after a failure. A fetch still in flight is never repeated.
func (p *Panels) Retry(number int) bool {
	panel := p.panel(number)
	if !panel.Failed {
		return false
	}
	panel.Failed = false
	p.fetched[number] = true
	return true
}

// Populate stores a fetched timeline, renders its relative times and pins it
// to the bottom.
func (p *Panels) Populate(number int, events []TimelineEvent, now time.Time) {
	panel := p.panel(number)
	panel.Events = events
	panel.Loaded = true
	panel.Failed = false
	panel.PinBottom = true
	for i := range panel.Events {
		panel.Events[i].Created.Refresh(now)
	}
}

// Reset forgets every settled timeline except the open one. Timelines whose
// fetch is still in flight stay cached so they are not requested twice.
func (p *Panels) Reset() {
	for n := range p.fetched {
		if n == p.active {
			continue
		}
		if panel := p.content[n]; panel != nil && !panel.Loaded && !panel.Failed {
			continue
		}
		delete(p.fetched, n)
		delete(p.content, n)
	}
}

func (p *Panels) panel(number int) *Panel {
	panel, ok := p.content[number]
	if !ok {
		panel = &Panel{Number: number}
		p.content[number] = panel
	}
	return panel
}

func (p *Panels) refreshTimes(now time.Time) {
	for _, panel := range p.content {
		for i := range panel.Events {
			panel.Events[i].Created.Refresh(now)
		}
	}
}
