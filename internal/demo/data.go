package demo

import (
	"time"

	"github.com/shhac/queuetea/internal/github"
	"github.com/shhac/queuetea/internal/homu"
	"github.com/shhac/queuetea/internal/queue"
)

const (
	demoOwner = "acme"
	demoRepo  = "engine"
)

var baseTime = time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)

// Fictional users
var (
	userAlice = github.User{Login: "alice"}
	userBob   = github.User{Login: "bob"}
	userCarol = github.User{Login: "carol"}
	userDave  = github.User{Login: "dave"}
	userEve   = github.User{Login: "eve"}
	userFrank = github.User{Login: "frank"}
	userBors  = github.User{Login: "bors"}
)

var (
	labelPerf     = github.Label{Name: "I-slow", Color: "e10c02"}
	labelRollup   = github.Label{Name: "rollup", Color: "fbca04"}
	labelDocs     = github.Label{Name: "A-docs", Color: "f7e101"}
	labelCompiler = github.Label{Name: "T-compiler", Color: "bfd4f2"}
	labelBeta     = github.Label{Name: "beta-nominated", Color: "0e8a16"}
	labelWaiting  = github.Label{Name: "S-waiting-on-author", Color: "d3dddd"}
)

func prURL(n int) string {
	return "https://github.com/acme/engine/pull/" + itoa(n)
}

func ciContext(name, state string) github.StatusContext {
	return github.StatusContext{
		Context:     name,
		Description: name + " " + state,
		TargetURL:   "https://ci.acme.dev/builds/" + name,
		State:       state,
	}
}

// -- GitHub side --

var pullRequests = []github.PullRequest{
	{
		Number: 4101, Title: "Speed up trait selection cache lookups",
		HTMLURL: prURL(4101), Author: userAlice,
		CreatedAt: baseTime.Add(-72 * time.Hour), UpdatedAt: baseTime.Add(-2 * time.Hour),
		Mergeable: "MERGEABLE", Labels: []github.Label{labelPerf, labelCompiler},
		Additions: 412, Deletions: 188,
		CommittedAt: baseTime.Add(-3 * time.Hour),
		CI:          []github.StatusContext{ciContext("linux", "SUCCESS"), ciContext("windows", "PENDING")},
		LastComment: &github.Comment{
			ID: 9001, Author: userBors,
			BodyHTML:    "<p>&#x231B; <strong>Testing commit</strong> 3f2a1c with merge 88d0e4...</p>",
			PublishedAt: baseTime.Add(-50 * time.Minute),
		},
	},
	{
		Number: 4102, Title: "Fix typo in borrow checker docs",
		HTMLURL: prURL(4102), Author: userBob,
		CreatedAt: baseTime.Add(-26 * time.Hour), UpdatedAt: baseTime.Add(-5 * time.Hour),
		Mergeable: "MERGEABLE", Labels: []github.Label{labelDocs, labelRollup},
		Additions: 3, Deletions: 3,
		CommittedAt: baseTime.Add(-25 * time.Hour),
		CI:          []github.StatusContext{ciContext("linux", "SUCCESS")},
	},
	{
		Number: 4103, Title: "Update lockfile dependencies",
		HTMLURL: prURL(4103), Author: userCarol,
		CreatedAt: baseTime.Add(-8 * time.Hour), UpdatedAt: baseTime.Add(-1 * time.Hour),
		Mergeable: "MERGEABLE", Labels: []github.Label{labelRollup},
		Additions: 120, Deletions: 96,
		CommittedAt: baseTime.Add(-8 * time.Hour),
	},
	{
		Number: 4104, Title: "Stabilize `let_chains` on the 2024 edition",
		HTMLURL: prURL(4104), Author: userDave,
		CreatedAt: baseTime.Add(-240 * time.Hour), UpdatedAt: baseTime.Add(-30 * time.Minute),
		Mergeable: "CONFLICTING", Labels: []github.Label{labelCompiler, labelWaiting},
		Additions: 1530, Deletions: 402,
		CommittedAt: baseTime.Add(-96 * time.Hour),
		CI:          []github.StatusContext{ciContext("linux", "FAILURE")},
		LastComment: &github.Comment{
			ID: 9002, Author: userEve,
			BodyHTML:    "<p>This conflicts with #4101 now, could you rebase?</p>",
			PublishedAt: baseTime.Add(-30 * time.Minute),
		},
	},
	{
		Number: 4105, Title: "Backport: avoid ICE on malformed attributes",
		HTMLURL: prURL(4105), Author: userEve,
		CreatedAt: baseTime.Add(-4 * time.Hour), UpdatedAt: baseTime.Add(-4 * time.Hour),
		Mergeable: "UNKNOWN", Labels: []github.Label{labelBeta},
		Additions: 22, Deletions: 4,
		CommittedAt: baseTime.Add(-4 * time.Hour),
	},
	{
		Number: 4106, Title: "Add regression test for issue 3988",
		HTMLURL: prURL(4106), Author: userFrank,
		CreatedAt: baseTime.Add(-90 * time.Minute), UpdatedAt: baseTime.Add(-90 * time.Minute),
		Mergeable: "MERGEABLE",
		Additions: 48, Deletions: 0,
		CommittedAt: baseTime.Add(-95 * time.Minute),
	},
}

// -- homu side --

var queueEntries = []homu.Entry{
	{Number: 4101, Title: "Speed up trait selection cache lookups", Status: queue.StatusPending, Reviewer: "carol", Approver: "carol", Priority: 5},
	{Number: 4102, Title: "Fix typo in borrow checker docs", Status: queue.StatusApproved, Reviewer: "alice", Approver: "alice", Priority: queue.RollupPriority},
	{Number: 4103, Title: "Update lockfile dependencies", Status: queue.StatusApproved, Reviewer: "alice", Approver: "alice", Priority: queue.RollupPriority},
	{Number: 4104, Title: "Stabilize `let_chains` on the 2024 edition", Status: queue.StatusFailure, Reviewer: "frank", Approver: "frank"},
	{Number: 4105, Title: "Backport: avoid ICE on malformed attributes", Status: queue.StatusSuccess, IsTrying: true, Reviewer: "bob"},
	{Number: 4099, Title: "Rollup of 7 pull requests", Status: queue.StatusError, Reviewer: "bob", Approver: "bob", Priority: 10},
}

// -- Timelines --

var timelines = map[int][]github.TimelineEvent{
	4101: {
		{Kind: "commit", Actor: "alice", Body: "Cache trait selection candidates per param env", CreatedAt: baseTime.Add(-70 * time.Hour)},
		{Kind: "review APPROVED", Actor: "carol", Body: "Nice win on the benchmarks. r=me", URL: prURL(4101) + "#pullrequestreview-1", CreatedAt: baseTime.Add(-6 * time.Hour)},
		{Kind: "comment", Actor: "carol", Body: "@bors r+ p=5", URL: prURL(4101) + "#issuecomment-1", CreatedAt: baseTime.Add(-6 * time.Hour)},
		{Kind: "comment", Actor: "bors", Body: "📌 Commit 3f2a1c has been approved by `carol`", URL: prURL(4101) + "#issuecomment-2", CreatedAt: baseTime.Add(-6 * time.Hour)},
		{Kind: "comment", Actor: "bors", Body: "⌛ **Testing commit** 3f2a1c with merge 88d0e4...", URL: prURL(4101) + "#issuecomment-3", CreatedAt: baseTime.Add(-50 * time.Minute)},
	},
	4102: {
		{Kind: "labeled", Actor: "bob", Body: "A-docs", CreatedAt: baseTime.Add(-26 * time.Hour)},
		{Kind: "comment", Actor: "alice", Body: "@bors r+ rollup", URL: prURL(4102) + "#issuecomment-4", CreatedAt: baseTime.Add(-5 * time.Hour)},
	},
	4104: {
		{Kind: "review CHANGES_REQUESTED", Actor: "frank", Body: "The feature gate removal needs a note in the release notes.", CreatedAt: baseTime.Add(-120 * time.Hour)},
		{Kind: "force-pushed", Actor: "dave", CreatedAt: baseTime.Add(-96 * time.Hour)},
		{Kind: "comment", Actor: "bors", Body: "💔 Test failed - checks-actions", CreatedAt: baseTime.Add(-2 * time.Hour)},
		{Kind: "comment", Actor: "eve", Body: "This conflicts with #4101 now, could you rebase?", CreatedAt: baseTime.Add(-30 * time.Minute)},
	},
}
