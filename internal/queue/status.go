package queue

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the approval state of a pull request in the merge queue.
// The declaration order is the order used when sorting by priority.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusError
	StatusFailure
	StatusSuccess
	StatusReviewing
)

var statusNames = [...]string{
	StatusPending:   "Pending",
	StatusApproved:  "Approved",
	StatusError:     "Error",
	StatusFailure:   "Failure",
	StatusSuccess:   "Success",
	StatusReviewing: "Reviewing",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

// ParseStatus maps a status name as it appears in a priority composite
// ("Approved", "Pending", ...) to its Status.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusReviewing, false
}

// statusOrder returns the sort position of a tier name. Unknown names sort
// after every known tier.
func statusOrder(name string) int {
	if s, ok := ParseStatus(name); ok {
		return int(s)
	}
	return len(statusNames)
}

// RollupPriority is the homu priority assigned to rollup-eligible PRs.
const RollupPriority = -1

// Priority is the composite sort key "<status>:<secondary>:<tertiary>".
// Secondary is the homu priority and tertiary is the PR number.
type Priority struct {
	Status    Status
	Secondary int
	Tertiary  int
}

func (p Priority) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Status, p.Secondary, p.Tertiary)
}

// IsRollup reports whether the priority marks an approved rollup candidate.
func (p Priority) IsRollup() bool {
	return p.Status == StatusApproved && p.Secondary == RollupPriority
}

// ParsePriority parses a composite priority string. Missing or malformed
// numeric parts are read as zero and an unknown tier as Reviewing.
func ParsePriority(s string) Priority {
	parts := strings.SplitN(s, ":", 3)
	var p Priority
	p.Status, _ = ParseStatus(parts[0])
	if len(parts) > 1 {
		p.Secondary, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		p.Tertiary, _ = strconv.Atoi(parts[2])
	}
	return p
}
