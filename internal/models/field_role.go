package models

// FieldRole is a task custom field this tool writes
type FieldRole int

const (
	FieldPullRequest FieldRole = iota
	FieldStatus
	FieldLive
	FieldStorybook
	FieldDescription
	FieldAssignee
)

// String returns the config key of the field
func (f FieldRole) String() string {
	switch f {
	case FieldPullRequest:
		return "pull_request"
	case FieldStatus:
		return "status"
	case FieldLive:
		return "live"
	case FieldStorybook:
		return "storybook"
	case FieldDescription:
		return "description"
	case FieldAssignee:
		return "assignee"
	default:
		return "unknown"
	}
}
