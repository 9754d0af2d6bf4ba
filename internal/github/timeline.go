package github

import (
	"context"
	"fmt"
	"time"
)

const timelineQuery = `
query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $number) {
      timelineItems(last: 30) {
        nodes {
          __typename
          ... on IssueComment { author { login } body createdAt url }
          ... on PullRequestReview { author { login } body createdAt url state }
          ... on PullRequestCommit {
            url
            commit { author { name user { login } } messageHeadline committedDate }
          }
          ... on LabeledEvent { actor { login } createdAt label { name } }
          ... on UnlabeledEvent { actor { login } createdAt label { name } }
          ... on MergedEvent { actor { login } createdAt url }
          ... on ClosedEvent { actor { login } createdAt url }
          ... on ReopenedEvent { actor { login } createdAt }
          ... on HeadRefForcePushedEvent { actor { login } createdAt }
        }
      }
    }
  }
}`

// gqlTimelineItem is the union of the fields selected by timelineQuery.
type gqlTimelineItem struct {
	Typename  string    `json:"__typename"`
	Author    *gqlActor `json:"author"`
	Actor     *gqlActor `json:"actor"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
	State     string    `json:"state"`
	Label     *struct {
		Name string `json:"name"`
	} `json:"label"`
	Commit *struct {
		Author struct {
			Name string    `json:"name"`
			User *gqlActor `json:"user"`
		} `json:"author"`
		MessageHeadline string    `json:"messageHeadline"`
		CommittedDate   time.Time `json:"committedDate"`
	} `json:"commit"`
}

type timelineData struct {
	Repository *struct {
		PullRequest *struct {
			TimelineItems gqlConnection[gqlTimelineItem] `json:"timelineItems"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// Timeline returns the most recent activity on a PR, oldest first.
func (c *Client) Timeline(ctx context.Context, owner, repo string, number int) ([]TimelineEvent, error) {
	data, err := query[timelineData](ctx, c, "PR timeline", timelineQuery, map[string]any{
		"owner":  owner,
		"repo":   repo,
		"number": number,
	})
	if err != nil {
		return nil, err
	}
	if data.Repository == nil || data.Repository.PullRequest == nil {
		return nil, fmt.Errorf("PR #%d not found in %s/%s", number, owner, repo)
	}

	nodes := data.Repository.PullRequest.TimelineItems.Nodes
	events := make([]TimelineEvent, 0, len(nodes))
	for _, n := range nodes {
		if ev, ok := eventFromGQL(n); ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// eventFromGQL maps a timeline node to an event. Node types the query does
// not select fields for are skipped.
func eventFromGQL(n gqlTimelineItem) (TimelineEvent, bool) {
	ev := TimelineEvent{CreatedAt: n.CreatedAt, URL: n.URL, Body: n.Body}
	switch n.Typename {
	case "IssueComment":
		ev.Kind = "comment"
		ev.Actor = userFromActor(n.Author).Login
	case "PullRequestReview":
		ev.Kind = "review"
		ev.Actor = userFromActor(n.Author).Login
		if n.State != "" && n.State != "COMMENTED" {
			ev.Kind = "review " + n.State
		}
	case "PullRequestCommit":
		if n.Commit == nil {
			return TimelineEvent{}, false
		}
		ev.Kind = "commit"
		ev.Actor = n.Commit.Author.Name
		if n.Commit.Author.User != nil {
			ev.Actor = n.Commit.Author.User.Login
		}
		ev.Body = n.Commit.MessageHeadline
		ev.CreatedAt = n.Commit.CommittedDate
	case "LabeledEvent", "UnlabeledEvent":
		ev.Kind = "labeled"
		if n.Typename == "UnlabeledEvent" {
			ev.Kind = "unlabeled"
		}
		ev.Actor = userFromActor(n.Actor).Login
		if n.Label != nil {
			ev.Body = n.Label.Name
		}
	case "MergedEvent":
		ev.Kind = "merged"
		ev.Actor = userFromActor(n.Actor).Login
	case "ClosedEvent":
		ev.Kind = "closed"
		ev.Actor = userFromActor(n.Actor).Login
	case "ReopenedEvent":
		ev.Kind = "reopened"
		ev.Actor = userFromActor(n.Actor).Login
	case "HeadRefForcePushedEvent":
		ev.Kind = "force-pushed"
		ev.Actor = userFromActor(n.Actor).Login
	default:
		return TimelineEvent{}, false
	}
	return ev, true
}
