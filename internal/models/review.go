package models

import "time"

// ReviewState is the state a reviewer left on a review
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
	ReviewPending          ReviewState = "PENDING"
)

// IsVerdict returns true for the states that count toward a verdict
func (s ReviewState) IsVerdict() bool {
	return s == ReviewApproved || s == ReviewChangesRequested
}

// ReviewEvent is one submitted review
type ReviewEvent struct {
	// Reviewer is the author of the review
	Reviewer Identity
	// State is the review outcome
	State ReviewState
	// SubmittedAt is the submission time
	SubmittedAt time.Time
}

// ReviewVerdict is the aggregated outcome of all reviewers' latest verdicts.
// Both flags can be set when reviewers disagree.
type ReviewVerdict struct {
	IsApproved bool
	IsRejected bool
}
