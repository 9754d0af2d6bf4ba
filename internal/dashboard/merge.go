// Package dashboard combines the homu queue with GitHub pull request data
// into queue items.
package dashboard

import (
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/shhac/queuetea/internal/github"
	"github.com/shhac/queuetea/internal/homu"
	"github.com/shhac/queuetea/internal/queue"
)

const previewLength = 200

var previewPolicy = bluemonday.StrictPolicy()

// Merge joins GitHub PRs and homu entries by number. PRs that homu does not
// know about are Reviewing; homu entries GitHub did not return carry only
// their homu fields. Items are returned ascending by number.
func Merge(prs []github.PullRequest, entries []homu.Entry) []queue.Item {
	byNumber := make(map[int]*queue.Item, len(prs)+len(entries))

	for _, pr := range prs {
		it := &queue.Item{
			Number:     pr.Number,
			Title:      pr.Title,
			Author:     pr.Author.Login,
			HTMLURL:    pr.HTMLURL,
			Mergeable:  pr.Mergeable,
			Complexity: pr.Additions + pr.Deletions,
			Created:    queue.NewStamp(pr.CreatedAt),
			Committed:  queue.NewStamp(pr.CommittedAt),
			Priority:   queue.Priority{Status: queue.StatusReviewing, Tertiary: pr.Number},
		}
		for _, l := range pr.Labels {
			it.Labels = append(it.Labels, queue.Label{Name: l.Name, Color: l.Color})
		}
		for _, c := range pr.CI {
			it.CI = append(it.CI, queue.CIContext(c))
		}
		if pr.LastComment != nil {
			it.LastCommentAuthor = pr.LastComment.Author.Login
			it.LastComment = PreviewText(pr.LastComment.BodyHTML)
		}
		byNumber[pr.Number] = it
	}

	for _, e := range entries {
		it, ok := byNumber[e.Number]
		if !ok {
			it = &queue.Item{Number: e.Number, Title: e.Title}
			byNumber[e.Number] = it
		}
		it.IsTrying = e.IsTrying
		it.Reviewer = e.Reviewer
		it.Approver = e.Approver
		it.Priority = queue.Priority{Status: e.Status, Secondary: e.Priority, Tertiary: e.Number}
	}

	items := make([]queue.Item, 0, len(byNumber))
	for _, it := range byNumber {
		it.FilterText = queue.BuildFilterText(it)
		items = append(items, *it)
	}
	slices.SortFunc(items, func(a, b queue.Item) int { return a.Number - b.Number })
	return items
}

// PRURL returns the github.com URL of a pull request.
func PRURL(owner, repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, number)
}

// PreviewText strips all markup from a comment body and collapses
// whitespace, truncating long bodies.
func PreviewText(bodyHTML string) string {
	text := html.UnescapeString(previewPolicy.Sanitize(bodyHTML))
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > previewLength {
		text = string(r[:previewLength-1]) + "…"
	}
	return text
}

// TextColor picks a readable foreground for a label with the given hex
// background: black on light colors, white otherwise. Malformed colors get
// white.
func TextColor(bg string) string {
	bg = strings.TrimPrefix(bg, "#")
	if len(bg) < 6 {
		return "#fff"
	}
	var rgb [3]int64
	for i := range rgb {
		v, err := strconv.ParseInt(bg[i*2:i*2+2], 16, 32)
		if err != nil {
			return "#fff"
		}
		rgb[i] = v
	}
	if rgb[0]*3+rgb[1]*4+rgb[2] >= 1020 {
		return "#000"
	}
	return "#fff"
}

// NewlyApproved returns the items approved in next that were not approved in
// prev.
func NewlyApproved(prev, next []queue.Item) []queue.Item {
	was := make(map[int]bool, len(prev))
	for _, it := range prev {
		if it.Priority.Status == queue.StatusApproved {
			was[it.Number] = true
		}
	}
	var out []queue.Item
	for _, it := range next {
		if it.Priority.Status == queue.StatusApproved && !was[it.Number] {
			out = append(out, it)
		}
	}
	return out
}
