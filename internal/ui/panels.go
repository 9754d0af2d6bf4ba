package ui

// Panel identifies which panel has focus.
type Panel int

const (
	PanelQueue    Panel = iota // Queue list
	PanelTimeline              // Comment timeline
)

// AppMode represents the current input mode.
type AppMode int

const (
	ModeNavigation AppMode = iota
	ModeFilter
	ModeOverlay
)

// Layout constants
const (
	minQueueWidth    = 50
	minTimelineWidth = 30
	minTotalWidth    = 40
	minPanelHeight   = 5

	// Below this width an open timeline replaces the queue list.
	splitThreshold = minQueueWidth + minTimelineWidth

	queueRatio = 0.60

	headerHeight    = 1
	filterBarHeight = 1
	statusBarHeight = 1
)

// PanelSizes holds calculated panel dimensions.
type PanelSizes struct {
	QueueWidth    int
	TimelineWidth int
	PanelHeight   int
	TooSmall      bool
}

// CalculatePanelSizes determines panel widths based on terminal dimensions,
// whether the timeline panel is open and whether the filter bar is shown.
func CalculatePanelSizes(termWidth, termHeight int, timelineOpen, filterVisible bool) PanelSizes {
	if termWidth < minTotalWidth {
		return PanelSizes{TooSmall: true}
	}

	panelHeight := termHeight - headerHeight - statusBarHeight
	if filterVisible {
		panelHeight -= filterBarHeight
	}
	if panelHeight < minPanelHeight {
		return PanelSizes{TooSmall: true}
	}

	if !timelineOpen {
		return PanelSizes{QueueWidth: termWidth, PanelHeight: panelHeight}
	}
	if termWidth < splitThreshold {
		return PanelSizes{TimelineWidth: termWidth, PanelHeight: panelHeight}
	}

	queueW := max(minQueueWidth, int(float64(termWidth)*queueRatio))
	timelineW := termWidth - queueW
	if timelineW < minTimelineWidth {
		timelineW = minTimelineWidth
		queueW = termWidth - timelineW
	}
	return PanelSizes{
		QueueWidth:    queueW,
		TimelineWidth: timelineW,
		PanelHeight:   panelHeight,
	}
}

// panelTop is the screen row of the panels' top border.
func panelTop(filterVisible bool) int {
	if filterVisible {
		return headerHeight + filterBarHeight
	}
	return headerHeight
}

func (p Panel) Next() Panel {
	switch p {
	case PanelQueue:
		return PanelTimeline
	default:
		return PanelQueue
	}
}

func (p Panel) String() string {
	switch p {
	case PanelQueue:
		return "Queue"
	case PanelTimeline:
		return "Timeline"
	default:
		return "Unknown"
	}
}
