package github

import "time"

// User represents a GitHub user.
type User struct {
	Login string
}

// Label represents a PR label.
type Label struct {
	Name  string
	Color string
}

// StatusContext is one commit status reported by CI.
type StatusContext struct {
	Context     string
	Description string
	TargetURL   string
	State       string // "EXPECTED", "ERROR", "FAILURE", "PENDING", "SUCCESS"
}

// Comment represents the most recent issue-level comment on a PR.
type Comment struct {
	ID          int64
	Author      User
	BodyHTML    string
	PublishedAt time.Time
}

// PullRequest is an open PR with the fields the queue view shows.
type PullRequest struct {
	Number      int
	Title       string
	HTMLURL     string
	Author      User
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Mergeable   string // "MERGEABLE", "CONFLICTING", "UNKNOWN"
	Labels      []Label
	Additions   int
	Deletions   int
	CommittedAt time.Time
	CI          []StatusContext
	LastComment *Comment
}

// TimelineEvent is one entry of a PR's recent activity.
type TimelineEvent struct {
	Kind      string // "comment", "review", "commit", "labeled", "unlabeled", "merged", "closed", "reopened", "force-pushed"
	Actor     string
	Body      string
	URL       string
	CreatedAt time.Time
}
