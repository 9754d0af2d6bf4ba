package queue

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	// AuthorizeURL is GitHub's OAuth authorization endpoint.
	AuthorizeURL = "https://github.com/login/oauth/authorize"
	// RollupScope is the OAuth scope homu needs to create a rollup.
	RollupScope = "public_repo,admin:repo_hook"
)

// RollupRequest is the state payload homu receives back from the OAuth flow.
type RollupRequest struct {
	Cmd       string `json:"cmd"`
	RepoLabel string `json:"repo_label"`
	Nums      []int  `json:"nums"`
}

// RollupNumbers returns the numbers of all checked items in display order,
// including checked items hidden by the filter.
func (c *Controller) RollupNumbers() []int {
	nums := []int{}
	for _, it := range c.items {
		if it.Checked {
			nums = append(nums, it.Number)
		}
	}
	return nums
}

// RollupURL builds the OAuth authorize URL that asks homu to roll up nums.
func RollupURL(clientID, repoLabel string, nums []int) (string, error) {
	if nums == nil {
		nums = []int{}
	}
	state, err := json.Marshal(RollupRequest{Cmd: "rollup", RepoLabel: repoLabel, Nums: nums})
	if err != nil {
		return "", fmt.Errorf("encoding rollup state: %w", err)
	}
	return AuthorizeURL +
		"?client_id=" + url.QueryEscape(clientID) +
		"&scope=" + RollupScope +
		"&state=" + url.QueryEscape(string(state)), nil
}

// RollupPrompt is the confirmation question shown before launching a rollup.
func RollupPrompt(n int) string {
	return fmt.Sprintf("Create a rollup of %d PRs?", n)
}
