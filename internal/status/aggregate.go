// Package status derives the task status of a pull request from its reviews
// and lifecycle flags.
package status

import (
	"sort"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Aggregate collapses review events into a verdict. Only the most recent
// approving or change-requesting review of each reviewer counts; comments and
// other states never override an earlier verdict.
func Aggregate(reviews []models.ReviewEvent) models.ReviewVerdict {
	sorted := make([]models.ReviewEvent, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	latest := make(map[string]models.ReviewState)
	for _, r := range sorted {
		if !r.State.IsVerdict() {
			continue
		}
		key := r.Reviewer.Key()
		if _, seen := latest[key]; seen {
			continue
		}
		latest[key] = r.State
	}

	var verdict models.ReviewVerdict
	for _, state := range latest {
		switch state {
		case models.ReviewApproved:
			verdict.IsApproved = true
		case models.ReviewChangesRequested:
			verdict.IsRejected = true
		}
	}
	return verdict
}
