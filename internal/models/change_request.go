package models

import (
	"strconv"
	"strings"
	"time"
)

// ChangeRequest is a pull request snapshot taken once per synchronization pass
type ChangeRequest struct {
	// Number is the pull request number
	Number uint64
	// HTMLURL is the browser URL of the pull request
	HTMLURL string
	// Body is the description text
	Body string
	// Draft is set while the pull request is a draft
	Draft bool
	// MergedAt is nil while the pull request is open
	MergedAt *time.Time
	// HeadRef is the source branch name
	HeadRef string
	// RequestedReviewers are users still asked to review
	RequestedReviewers []Identity
	// Assignees are users assigned to the pull request
	Assignees []Identity
	// Labels are label names
	Labels []string
}

// IsMerged returns true once a merge timestamp is present
func (c ChangeRequest) IsMerged() bool {
	return c.MergedAt != nil
}

// NumberString returns the pull request number, falling back to the last
// segment of the html URL when the payload had no number
func (c ChangeRequest) NumberString() string {
	if c.Number != 0 {
		return strconv.FormatUint(c.Number, 10)
	}
	parts := strings.Split(strings.TrimRight(c.HTMLURL, "/"), "/")
	return parts[len(parts)-1]
}

// WithTesterAssigned returns a copy where login moved from the requested
// reviewers to the assignees. The receiver is left untouched.
func (c ChangeRequest) WithTesterAssigned(login string) ChangeRequest {
	reviewers := make([]Identity, 0, len(c.RequestedReviewers))
	var moved Identity
	found := false
	for _, r := range c.RequestedReviewers {
		if r.Login == login {
			moved = r
			found = true
			continue
		}
		reviewers = append(reviewers, r)
	}
	if !found {
		moved = Identity{Login: login}
	}

	assignees := make([]Identity, 0, len(c.Assignees)+1)
	assignees = append(assignees, c.Assignees...)
	if !ContainsLogin(assignees, login) {
		assignees = append(assignees, moved)
	}

	c.RequestedReviewers = reviewers
	c.Assignees = assignees
	return c
}
