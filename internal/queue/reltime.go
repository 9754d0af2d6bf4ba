package queue

import (
	"strconv"
	"time"
)

// UnknownTime is rendered for timestamps that cannot be parsed.
const UnknownTime = "at unknown time"

// RefreshInterval is how often relative time labels are recomputed.
const RefreshInterval = 30 * time.Second

var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// Stamp is a machine-readable datetime and its rendered relative label.
type Stamp struct {
	Datetime string
	Text     string
}

// NewStamp returns a Stamp for t in RFC 3339 form. A zero time produces an
// empty datetime, which renders as UnknownTime.
func NewStamp(t time.Time) Stamp {
	if t.IsZero() {
		return Stamp{}
	}
	return Stamp{Datetime: t.UTC().Format(time.RFC3339)}
}

// Refresh recomputes the label relative to now.
func (s *Stamp) Refresh(now time.Time) {
	s.Text = RelativeTime(s.Datetime, now)
}

// RelativeTime renders datetime as "<n> <unit> ago" relative to now.
func RelativeTime(datetime string, now time.Time) string {
	t, ok := parseDatetime(datetime)
	if !ok {
		return UnknownTime
	}

	diff := int(now.Sub(t) / time.Minute)
	var text string
	switch {
	case diff < 1:
		text = "1 minute"
	case diff < 60:
		text = strconv.Itoa(diff) + " minutes"
	case diff < 3*60:
		hours, minutes := diff/60, diff%60
		text = plural(hours, "hour")
		if minutes > 0 {
			text += " " + plural(minutes, "minute")
		}
	case diff < 24*60:
		text = strconv.Itoa(diff/60) + " hours"
	default:
		text = plural(diff/(24*60), "day")
	}
	return text + " ago"
}

func plural(n int, unit string) string {
	s := strconv.Itoa(n) + " " + unit
	if n > 1 {
		s += "s"
	}
	return s
}

// parseDatetime accepts the layouts GitHub and homu emit. Times at or before
// the Unix epoch are treated as unparsable.
func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.UnixMilli() <= 0 {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
