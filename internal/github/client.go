package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// DefaultRequestTimeout bounds a single API attempt.
const DefaultRequestTimeout = 120 * time.Second

// CommandRunner executes a CLI command and returns its stdout.
// The default implementation runs the gh CLI via exec.Command.
// Tests can inject a mock implementation.
type CommandRunner func(ctx context.Context, args ...string) (string, error)

// Client talks to the GitHub REST and GraphQL APIs through go-github.
type Client struct {
	gh      *gh.Client
	timeout time.Duration
}

// Options configures NewClient.
type Options struct {
	// Token is the GitHub token. When empty it is read from `gh auth token`.
	Token string
	// HTTPClient is the base client used under the OAuth2 transport, for
	// example one configured with a proxy. Nil uses http.DefaultClient.
	HTTPClient *http.Client
	// RequestTimeout bounds a single attempt. Zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
	// Runner overrides how the gh CLI is invoked for the token fallback.
	Runner CommandRunner
}

// NewClient resolves a token and builds an authenticated client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	run := opts.Runner
	if run == nil {
		run = defaultRunner
	}
	token, err := ResolveToken(ctx, opts.Token, run)
	if err != nil {
		return nil, err
	}

	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		gh:      gh.NewClient(oauth2.NewClient(ctx, ts)),
		timeout: requestTimeout(opts.RequestTimeout),
	}, nil
}

// NewTestClient creates a Client that sends every request to baseURL
// without authentication.
func NewTestClient(httpClient *http.Client, baseURL string) *Client {
	c := gh.NewClient(httpClient)
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err == nil {
		c.BaseURL = u
	}
	return &Client{gh: c, timeout: DefaultRequestTimeout}
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// ResolveToken returns token when set, otherwise asks the gh CLI.
func ResolveToken(ctx context.Context, token string, run CommandRunner) (string, error) {
	if token = strings.TrimSpace(token); token != "" {
		return token, nil
	}
	out, err := run(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("no GitHub token: pass --token or run 'gh auth login': %w", err)
	}
	token = strings.TrimSpace(out)
	if token == "" {
		return "", errors.New("no GitHub token: gh auth token returned nothing")
	}
	return token, nil
}

// Login returns the login of the authenticated user, verifying the token.
func (c *Client) Login(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// defaultRunner executes the gh CLI via exec.Command.
func defaultRunner(ctx context.Context, args ...string) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", fmt.Errorf("gh CLI not found: install from https://cli.github.com")
	}
	cmd := exec.CommandContext(ctx, "gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("gh %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
