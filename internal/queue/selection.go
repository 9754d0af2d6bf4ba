package queue

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+`)

// Summary describes the checked items, ascending by PR number.
type Summary struct {
	Count   int
	Numbers []int
	Text    string
}

// SelectAll checks every visible item.
func (c *Controller) SelectAll() Summary {
	return c.setVisible(true)
}

// SelectNone unchecks every visible item.
func (c *Controller) SelectNone() Summary {
	return c.setVisible(false)
}

func (c *Controller) setVisible(checked bool) Summary {
	for _, it := range c.items {
		if !it.Hidden {
			it.Checked = checked
		}
	}
	return c.Summary()
}

// Summary scans all items, hidden ones included, and renders the checked
// ones as " - #<number> (<title>)" lines.
func (c *Controller) Summary() Summary {
	var checked []*Item
	for _, it := range c.items {
		if it.Checked {
			checked = append(checked, it)
		}
	}
	slices.SortFunc(checked, func(a, b *Item) int { return a.Number - b.Number })

	s := Summary{Count: len(checked), Numbers: make([]int, 0, len(checked))}
	lines := make([]string, 0, len(checked))
	for _, it := range checked {
		s.Numbers = append(s.Numbers, it.Number)
		lines = append(lines, fmt.Sprintf(" - #%d (%s)", it.Number, it.Title))
	}
	s.Text = strings.Join(lines, "\n")
	return s
}

// ParseNumbers extracts every run of decimal digits in text.
func ParseNumbers(text string) []int {
	var nums []int
	for _, m := range numberPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// SelectByNumbers checks exactly the items whose number appears in text and
// unchecks all others.
func (c *Controller) SelectByNumbers(text string) Summary {
	set := make(map[int]bool)
	for _, n := range ParseNumbers(text) {
		set[n] = true
	}
	for _, it := range c.items {
		it.Checked = set[it.Number]
	}
	return c.Summary()
}

// SelectApprovedRollups checks exactly the approved items marked for rollup.
func (c *Controller) SelectApprovedRollups() Summary {
	for _, it := range c.items {
		it.Checked = it.Priority.IsRollup()
	}
	return c.Summary()
}

// SetChecked sets the checkbox of a single item. It reports false when no
// item has that number.
func (c *Controller) SetChecked(number int, checked bool) bool {
	it, ok := c.Item(number)
	if !ok {
		return false
	}
	it.Checked = checked
	return true
}

// ToggleChecked flips the checkbox of a single item.
func (c *Controller) ToggleChecked(number int) bool {
	it, ok := c.Item(number)
	if !ok {
		return false
	}
	it.Checked = !it.Checked
	return true
}
