package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	gh "github.com/google/go-github/v68/github"
)

const (
	maxRetries    = 4
	maxRetryDelay = 20 * time.Second
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type graphqlReply[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// ErrGraphQL wraps errors reported in a GraphQL reply body.
var ErrGraphQL = errors.New("github graphql error")

// query posts a GraphQL request and decodes its data into out. Network and
// server failures are retried with exponential backoff; auth failures and
// invalid queries are not.
func query[T any](ctx context.Context, c *Client, name, q string, vars map[string]any) (T, error) {
	var reply graphqlReply[T]
	err := retry.Do(func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := c.gh.NewRequest(http.MethodPost, "graphql", graphqlRequest{Query: q, Variables: vars})
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("build %s request: %w", name, err))
		}

		reply = graphqlReply[T]{}
		resp, err := c.gh.Do(reqCtx, req, &reply)
		if err != nil {
			return classify(resp, err)
		}
		slog.Info("GitHub rate limit", "query", name, "remaining", resp.Rate.Remaining, "limit", resp.Rate.Limit)

		if len(reply.Errors) > 0 {
			msgs := make([]string, len(reply.Errors))
			for i, e := range reply.Errors {
				msgs[i] = e.Message
			}
			return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; ")))
		}
		return nil
	},
		retry.Attempts(maxRetries),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("GitHub request failed, retrying", "query", name, "attempt", n+1, "max", maxRetries, "error", err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return reply.Data, nil
}

// classify marks auth failures and invalid requests as unrecoverable.
// Rate limiting, server errors and network errors are retried.
func classify(resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		slog.Warn("GitHub API rate limited", "error", err)
		return err
	}
	if resp == nil || resp.Response == nil {
		slog.Warn("GitHub API network error", "error", err)
		return err
	}
	switch resp.StatusCode {
	case http.StatusForbidden:
		if resp.Header.Get("X-Ratelimit-Remaining") == "0" {
			slog.Warn("GitHub API rate limited", "reset", resp.Header.Get("X-Ratelimit-Reset"))
			return err
		}
		return retry.Unrecoverable(fmt.Errorf("github API access forbidden: %w", err))
	case http.StatusUnauthorized:
		return retry.Unrecoverable(fmt.Errorf("github API authentication failed: %w", err))
	case http.StatusUnprocessableEntity:
		return retry.Unrecoverable(fmt.Errorf("github API query invalid: %w", err))
	}
	slog.Warn("GitHub API error", "status", resp.StatusCode, "error", err)
	return err
}
