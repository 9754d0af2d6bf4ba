package queue

import (
	"net/url"
	"strconv"
	"strings"
)

// Label is a GitHub label attached to a pull request.
type Label struct {
	Name  string
	Color string // hex RGB without the leading '#'
}

// CIContext is one commit status context of the PR's last commit.
type CIContext struct {
	Context     string
	Description string
	TargetURL   string
	State       string // EXPECTED, ERROR, FAILURE, PENDING, SUCCESS
}

// Item is one pull request row in the queue view.
type Item struct {
	Number     int
	Title      string
	Author     string
	HTMLURL    string
	Priority   Priority
	FilterText string
	Complexity int

	IsTrying  bool
	Reviewer  string
	Approver  string
	Mergeable string // MERGEABLE, CONFLICTING, UNKNOWN
	Labels    []Label
	CI        []CIContext

	Created   Stamp
	Committed Stamp

	// LastComment is a plain-text preview of the newest comment.
	LastComment       string
	LastCommentAuthor string

	// View state, owned by the Controller.
	Hidden  bool
	Checked bool
	Rank    int
}

// Field returns the raw attribute value used when sorting by key.
// Unknown keys yield the empty string.
func (it *Item) Field(key string) string {
	switch key {
	case "number":
		return strconv.Itoa(it.Number)
	case "priority":
		return it.Priority.String()
	case "complexity":
		return strconv.Itoa(it.Complexity)
	case "title":
		return it.Title
	case "author":
		return it.Author
	case "created":
		return it.Created.Datetime
	case "committed":
		return it.Committed.Datetime
	case "reviewer":
		return it.Reviewer
	case "approver":
		return it.Approver
	case "mergeable":
		return it.Mergeable
	case "filter":
		return it.FilterText
	}
	return ""
}

// BuildFilterText assembles the searchable text for an item from its
// display fields, one field per line.
func BuildFilterText(it *Item) string {
	var b strings.Builder
	b.WriteString("#" + strconv.Itoa(it.Number))
	b.WriteString("\n" + it.Title)
	b.WriteString("\n" + it.Author)
	b.WriteString("\n" + it.Priority.Status.String())
	if it.IsTrying {
		b.WriteString(" (try)")
	}
	if it.Reviewer != "" {
		b.WriteString("\nr=" + it.Reviewer)
	}
	if it.Approver != "" {
		b.WriteString("\napproved by " + it.Approver)
	}
	if it.Mergeable != "" {
		b.WriteString("\n" + strings.ToLower(it.Mergeable))
	}
	for _, l := range it.Labels {
		b.WriteString("\n" + l.Name)
	}
	for _, c := range it.CI {
		b.WriteString("\n" + c.Context + " " + strings.ToLower(c.State))
	}
	return b.String()
}

// LastPathComponent returns the last non-empty path segment of a URL, or ""
// when the URL cannot be parsed or has no path.
func LastPathComponent(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
