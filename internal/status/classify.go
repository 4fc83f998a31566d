package status

import "github.com/mobsuccess-devops/github-actions-asana/internal/models"

// Classifier maps a pull request and its verdict to a task status
type Classifier struct {
	// TesterLogin is excluded when counting pending reviewers
	TesterLogin string
}

// Classify returns the status, first match wins:
// merged, draft, rejected, pending review, approved, in progress.
func (c Classifier) Classify(cr models.ChangeRequest, verdict models.ReviewVerdict) models.TaskStatus {
	switch {
	case cr.IsMerged():
		return models.StatusMerged
	case cr.Draft:
		return models.StatusInProgress
	case verdict.IsRejected:
		return models.StatusRejected
	case c.pendingReviewers(cr) > 0:
		return models.StatusInReview
	case verdict.IsApproved:
		return models.StatusApproved
	default:
		return models.StatusInProgress
	}
}

func (c Classifier) pendingReviewers(cr models.ChangeRequest) int {
	n := 0
	for _, r := range cr.RequestedReviewers {
		if r.Login != c.TesterLogin {
			n++
		}
	}
	return n
}
