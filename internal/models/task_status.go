package models

// TaskStatus is the pull request status mirrored onto the task
type TaskStatus int

const (
	StatusInProgress TaskStatus = iota
	StatusInReview
	StatusApproved
	StatusRejected
	StatusMerged
)

// String returns the config key of the status
func (s TaskStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusInReview:
		return "in_review"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusMerged:
		return "merged"
	default:
		return "unknown"
	}
}

// Display returns a human readable label
func (s TaskStatus) Display() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusMerged:
		return "Merged"
	default:
		return ""
	}
}
