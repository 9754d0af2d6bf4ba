package queue

import (
	"slices"
	"strconv"
	"strings"
)

// SortKeys lists the keys offered for cycling in the UI, in cycle order.
var SortKeys = []string{"priority", "number", "complexity", "created", "committed", "title", "author"}

type comparator func(a, b string) int

var comparators = map[string]comparator{
	"priority":   comparePriority,
	"number":     compareNumericDesc,
	"complexity": compareNumericDesc,
}

// comparePriority orders composites by tier ascending, then secondary
// descending, then tertiary ascending.
func comparePriority(a, b string) int {
	aa := strings.Split(a, ":")
	bb := strings.Split(b, ":")
	if part(aa, 0) != part(bb, 0) {
		return statusOrder(part(aa, 0)) - statusOrder(part(bb, 0))
	}
	if part(aa, 1) != part(bb, 1) {
		return atoi(part(bb, 1)) - atoi(part(aa, 1))
	}
	return atoi(part(aa, 2)) - atoi(part(bb, 2))
}

func compareNumericDesc(a, b string) int {
	return atoi(b) - atoi(a)
}

// defaultCompare sorts raw values descending. Unlike the named comparators
// there is no secondary key.
func defaultCompare(a, b string) int {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	}
	return 0
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// Sort reorders every item, hidden or not, by key and relabels ranks 1..N.
// The sort is stable so equal items keep their previous relative order.
func (c *Controller) Sort(key string) {
	cmp, ok := comparators[key]
	if !ok {
		cmp = defaultCompare
	}
	slices.SortStableFunc(c.items, func(a, b *Item) int {
		return cmp(a.Field(key), b.Field(key))
	})
	for i, it := range c.items {
		it.Rank = i + 1
	}
	c.sortKey = key
}

// RankLabel renders a rank as "#<n>".
func RankLabel(rank int) string {
	return "#" + strconv.Itoa(rank)
}

// NextSortKey returns the key following current in SortKeys, wrapping.
func NextSortKey(current string) string {
	i := slices.Index(SortKeys, current)
	return SortKeys[(i+1)%len(SortKeys)]
}
