// Package demo provides in-memory queue sources for demo mode.
// All data is fictional; the homu page and GitHub are never contacted.
package demo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shhac/queuetea/internal/github"
	"github.com/shhac/queuetea/internal/homu"
)

// Service implements the dashboard's PR, queue and timeline sources with
// fake data.
type Service struct {
	prs       []github.PullRequest
	entries   []homu.Entry
	timelines map[int][]github.TimelineEvent
}

// NewService creates a Service populated with fake queue data.
func NewService() *Service {
	return &Service{
		prs:       pullRequests,
		entries:   queueEntries,
		timelines: timelines,
	}
}

// Owner and Repo name the fictional repository.
func (s *Service) Owner() string { return demoOwner }
func (s *Service) Repo() string  { return demoRepo }

func (s *Service) ListOpenPRs(_ context.Context, owner, repo string) ([]github.PullRequest, error) {
	if owner != demoOwner || repo != demoRepo {
		return nil, fmt.Errorf("demo: unknown repository %s/%s", owner, repo)
	}
	return clonePRs(s.prs), nil
}

func (s *Service) Query(_ context.Context) ([]homu.Entry, error) {
	out := make([]homu.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Service) Timeline(_ context.Context, _, _ string, number int) ([]github.TimelineEvent, error) {
	events, ok := s.timelines[number]
	if !ok {
		return []github.TimelineEvent{}, nil
	}
	out := make([]github.TimelineEvent, len(events))
	copy(out, events)
	return out, nil
}

func clonePRs(prs []github.PullRequest) []github.PullRequest {
	out := make([]github.PullRequest, len(prs))
	copy(out, prs)
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
