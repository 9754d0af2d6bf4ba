package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shhac/queuetea/internal/github"
	"github.com/shhac/queuetea/internal/homu"
	"github.com/shhac/queuetea/internal/queue"
	"github.com/shhac/queuetea/internal/ttl"
)

// PRLister lists the open pull requests of a repository.
type PRLister interface {
	ListOpenPRs(ctx context.Context, owner, repo string) ([]github.PullRequest, error)
}

// QueueScraper reads the homu queue.
type QueueScraper interface {
	Query(ctx context.Context) ([]homu.Entry, error)
}

// TimelineFetcher loads the recent activity of one pull request.
type TimelineFetcher interface {
	Timeline(ctx context.Context, owner, repo string, number int) ([]github.TimelineEvent, error)
}

// Snapshot is one merged view of the queue.
type Snapshot struct {
	Items     []queue.Item
	FetchedAt time.Time
}

// Config wires a Loader to its sources.
type Config struct {
	PRs       PRLister
	Queue     QueueScraper
	Timelines TimelineFetcher
	Owner     string
	Repo      string
	// Interval is how long a loaded snapshot is served from cache.
	Interval time.Duration
	Now      func() time.Time
}

// Loader fetches GitHub and homu concurrently and caches the merged result.
type Loader struct {
	cfg   Config
	cache *ttl.Cache[Snapshot]
}

// NewLoader returns a loader with an empty cache.
func NewLoader(cfg Config) *Loader {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loader{cfg: cfg, cache: ttl.New[Snapshot](cfg.Now)}
}

// Owner returns the repository owner.
func (l *Loader) Owner() string { return l.cfg.Owner }

// Repo returns the repository name.
func (l *Loader) Repo() string { return l.cfg.Repo }

// Load returns the cached snapshot while it is fresh, otherwise fetches both
// sources in parallel. If either source fails nothing is cached.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	return l.cache.GetOrRefresh(l.cfg.Interval, func() (Snapshot, error) {
		return l.fetch(ctx)
	})
}

// Invalidate makes the next Load fetch fresh data.
func (l *Loader) Invalidate() {
	l.cache.Invalidate()
}

func (l *Loader) fetch(ctx context.Context) (Snapshot, error) {
	start := l.cfg.Now()

	var (
		prs     []github.PullRequest
		entries []homu.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prs, err = l.cfg.PRs.ListOpenPRs(gctx, l.cfg.Owner, l.cfg.Repo)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = l.cfg.Queue.Query(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load queue: %w", err)
	}

	items := Merge(prs, entries)
	for i := range items {
		if items[i].HTMLURL == "" {
			items[i].HTMLURL = PRURL(l.cfg.Owner, l.cfg.Repo, items[i].Number)
		}
	}

	slog.Info("Queue loaded", "items", len(items), "github", len(prs), "homu", len(entries), "elapsed", l.cfg.Now().Sub(start))
	return Snapshot{Items: items, FetchedAt: l.cfg.Now()}, nil
}

// Timeline loads the timeline of one PR as queue events.
func (l *Loader) Timeline(ctx context.Context, number int) ([]queue.TimelineEvent, error) {
	events, err := l.cfg.Timelines.Timeline(ctx, l.cfg.Owner, l.cfg.Repo, number)
	if err != nil {
		return nil, fmt.Errorf("load timeline of #%d: %w", number, err)
	}
	out := make([]queue.TimelineEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, queue.TimelineEvent{
			Kind:    ev.Kind,
			Actor:   ev.Actor,
			Body:    ev.Body,
			URL:     ev.URL,
			Created: queue.NewStamp(ev.CreatedAt),
		})
	}
	return out, nil
}
