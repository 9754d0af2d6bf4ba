package queue

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// filterTimeout bounds a single match so a pathological pattern cannot
// stall the UI.
const filterTimeout = 100 * time.Millisecond

type filterState struct {
	pattern string
	err     error
	status  string
}

// Filter applies pattern to every item's filter text. The pattern is
// compiled case-insensitive and multi-line with ECMAScript semantics. When
// it fails to compile the error is recorded and visibility is left as is.
func (c *Controller) Filter(pattern string) {
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase|regexp2.Multiline|regexp2.ECMAScript)
	if err != nil {
		c.filter.err = fmt.Errorf("invalid filter: %w", err)
		return
	}
	re.MatchTimeout = filterTimeout

	c.filter.pattern = pattern
	c.filter.err = nil

	count := 0
	for _, it := range c.items {
		matched, err := re.MatchString(it.FilterText)
		if err != nil {
			// Timed out; treat as no match.
			matched = false
		}
		it.Hidden = !matched
		if matched {
			count++
		}
	}

	c.filter.status = ""
	if pattern != "" {
		c.filter.status = fmt.Sprintf("(%d filtered)", count)
	}
}

// FilterPattern returns the last pattern that compiled successfully.
func (c *Controller) FilterPattern() string {
	return c.filter.pattern
}

// FilterError returns the compile error of the last pattern, or nil when
// the last pattern was valid.
func (c *Controller) FilterError() error {
	return c.filter.err
}

// FilterStatus returns the "(<n> filtered)" label, empty when no pattern is
// active.
func (c *Controller) FilterStatus() string {
	return c.filter.status
}
