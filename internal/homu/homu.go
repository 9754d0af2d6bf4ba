// Package homu scrapes the queue page of a homu merge bot.
package homu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shhac/queuetea/internal/queue"
)

const (
	// DefaultRequestTimeout bounds one download attempt.
	DefaultRequestTimeout = 120 * time.Second

	maxRetries    = 3
	maxRetryDelay = 10 * time.Second

	// cellCount is the number of columns in a homu queue row.
	cellCount = 10
)

// ErrStructureChanged is returned when a queue row does not have the
// expected shape.
var ErrStructureChanged = errors.New("homu queue structure probably changed")

// Entry is one row of the homu queue.
type Entry struct {
	Number   int
	Title    string
	Status   queue.Status
	IsTrying bool
	Reviewer string
	Approver string
	// Priority is the homu priority; rollups are always -1.
	Priority int
}

// Client fetches and parses a homu queue page.
type Client struct {
	http    *http.Client
	url     string
	timeout time.Duration
}

// NewClient returns a client for the queue page at queueURL. Each download
// attempt is cancelled after timeout; zero uses DefaultRequestTimeout.
func NewClient(httpClient *http.Client, queueURL string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{http: httpClient, url: queueURL, timeout: timeout}
}

// Query downloads the queue page and returns its entries. Transient failures
// are retried with exponential backoff; a malformed page is not.
func (c *Client) Query(ctx context.Context) ([]Entry, error) {
	slog.Info("Preparing to send homu request", "url", c.url)

	var entries []Entry
	err := retry.Do(func() error {
		var err error
		entries, err = c.fetch(ctx)
		return err
	},
		retry.Attempts(maxRetries),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("homu request failed, retrying", "attempt", n+1, "max", maxRetries, "error", err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("query homu queue: %w", err)
	}

	slog.Info("Obtained PRs from homu", "count", len(entries))
	return entries, nil
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("homu returned %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	entries, err := Parse(resp.Body)
	if errors.Is(err, ErrStructureChanged) {
		return nil, retry.Unrecoverable(err)
	}
	return entries, err
}

// Parse reads a queue page and extracts the rows of "#queue > tbody > tr".
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse homu page: %w", err)
	}

	table := findByID(doc, "queue")
	if table == nil {
		return []Entry{}, nil
	}

	entries := []Entry{}
	for tbody := range childElements(table, atom.Tbody) {
		for tr := range childElements(tbody, atom.Tr) {
			var cells []string
			for td := range childElements(tr, atom.Td) {
				cells = append(cells, textContent(td))
			}
			entry, err := parseRow(cells)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func parseRow(cells []string) (Entry, error) {
	if len(cells) != cellCount {
		return Entry{}, fmt.Errorf("%w: row has %d cells, want %d", ErrStructureChanged, len(cells), cellCount)
	}
	number, err := strconv.Atoi(strings.TrimSpace(cells[2]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: invalid PR number %q", ErrStructureChanged, cells[2])
	}
	status, trying := ParseStatus(cells[3])
	return Entry{
		Number:   number,
		Title:    strings.TrimSpace(cells[5]),
		Status:   status,
		IsTrying: trying,
		Reviewer: strings.TrimSpace(cells[7]),
		Approver: strings.TrimSpace(cells[8]),
		Priority: ParsePriority(cells[9]),
	}, nil
}

// ParseStatus maps the rendered status cell ("approved", "pending (try)")
// to a status and whether it applies to a try run. Unrecognised words leave
// the status at Reviewing.
func ParseStatus(s string) (queue.Status, bool) {
	status := queue.StatusReviewing
	trying := false
	for _, word := range strings.SplitN(strings.TrimSpace(s), " ", 2) {
		switch word {
		case "success":
			status = queue.StatusSuccess
		case "pending":
			status = queue.StatusPending
		case "approved":
			status = queue.StatusApproved
		case "error":
			status = queue.StatusError
		case "failure":
			status = queue.StatusFailure
		case "(try)":
			trying = true
		}
	}
	return status, trying
}

// ParsePriority reads the priority cell. "rollup" is -1 and anything else
// that is not an integer is 0.
func ParsePriority(s string) int {
	s = strings.TrimSpace(s)
	if s == "rollup" {
		return queue.RollupPriority
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
