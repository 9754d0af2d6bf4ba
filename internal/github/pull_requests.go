package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const openPRsQuery = `
query($owner: String!, $repo: String!) {
  repository(owner: $owner, name: $repo) {
    pullRequests(first: 100, states: [OPEN], orderBy: {field: UPDATED_AT, direction: DESC}) {
      nodes {
        author { login }
        createdAt
        updatedAt
        mergeable
        number
        title
        url
        additions
        deletions
        labels(first: 10) { nodes { name color } }
        commits(last: 1) {
          nodes {
            commit {
              committedDate
              status { contexts { context description targetUrl state } }
            }
          }
        }
        comments(last: 1) {
          nodes { databaseId author { login } bodyHTML publishedAt }
        }
      }
    }
  }
}`

type gqlActor struct {
	Login string `json:"login"`
}

type gqlConnection[T any] struct {
	Nodes []T `json:"nodes"`
}

type gqlStatusContext struct {
	Context     string `json:"context"`
	Description string `json:"description"`
	TargetURL   string `json:"targetUrl"`
	State       string `json:"state"`
}

type gqlPullRequest struct {
	Author    *gqlActor `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Mergeable string    `json:"mergeable"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Labels    gqlConnection[struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}] `json:"labels"`
	Commits gqlConnection[struct {
		Commit struct {
			CommittedDate time.Time `json:"committedDate"`
			Status        *struct {
				Contexts []gqlStatusContext `json:"contexts"`
			} `json:"status"`
		} `json:"commit"`
	}] `json:"commits"`
	Comments gqlConnection[struct {
		DatabaseID  int64     `json:"databaseId"`
		Author      *gqlActor `json:"author"`
		BodyHTML    string    `json:"bodyHTML"`
		PublishedAt time.Time `json:"publishedAt"`
	}] `json:"comments"`
}

type openPRsData struct {
	Repository *struct {
		PullRequests gqlConnection[gqlPullRequest] `json:"pullRequests"`
	} `json:"repository"`
}

// ListOpenPRs returns the 100 most recently updated open PRs of owner/repo.
func (c *Client) ListOpenPRs(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	slog.Info("Preparing to send GitHub request", "owner", owner, "repo", repo)

	data, err := query[openPRsData](ctx, c, "list open PRs", openPRsQuery, map[string]any{
		"owner": owner,
		"repo":  repo,
	})
	if err != nil {
		return nil, err
	}
	if data.Repository == nil {
		return nil, fmt.Errorf("repository %s/%s not found", owner, repo)
	}

	nodes := data.Repository.PullRequests.Nodes
	prs := make([]PullRequest, 0, len(nodes))
	for _, n := range nodes {
		prs = append(prs, prFromGQL(n))
	}

	slog.Info("Obtained PRs from GitHub", "count", len(prs))
	return prs, nil
}

func prFromGQL(n gqlPullRequest) PullRequest {
	pr := PullRequest{
		Number:    n.Number,
		Title:     n.Title,
		HTMLURL:   n.URL,
		Author:    userFromActor(n.Author),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Mergeable: n.Mergeable,
		Additions: n.Additions,
		Deletions: n.Deletions,
	}

	pr.Labels = make([]Label, 0, len(n.Labels.Nodes))
	for _, l := range n.Labels.Nodes {
		pr.Labels = append(pr.Labels, Label{Name: l.Name, Color: l.Color})
	}

	if len(n.Commits.Nodes) > 0 {
		commit := n.Commits.Nodes[0].Commit
		pr.CommittedAt = commit.CommittedDate
		if commit.Status != nil {
			for _, sc := range commit.Status.Contexts {
				pr.CI = append(pr.CI, StatusContext(sc))
			}
		}
	}

	if len(n.Comments.Nodes) > 0 {
		cm := n.Comments.Nodes[0]
		pr.LastComment = &Comment{
			ID:          cm.DatabaseID,
			Author:      userFromActor(cm.Author),
			BodyHTML:    cm.BodyHTML,
			PublishedAt: cm.PublishedAt,
		}
	}
	return pr
}

// userFromActor converts a GraphQL actor, which is null for deleted
// accounts, to our User type.
func userFromActor(a *gqlActor) User {
	if a == nil {
		return User{Login: "ghost"}
	}
	return User{Login: a.Login}
}
