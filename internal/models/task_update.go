package models

// AssigneeOp says what to do with the task assignee
type AssigneeOp int

const (
	AssigneeKeep AssigneeOp = iota
	AssigneeClear
	AssigneeSet
)

// TaskUpdate is a tracker-independent field update. Field ids are resolved
// by the tracker adapter.
type TaskUpdate struct {
	// Fields are text values keyed by field role
	Fields map[FieldRole]string
	// Status is written to the status enum field when set
	Status *TaskStatus
	// Assignee is the assignee operation
	Assignee AssigneeOp
	// AssigneeID is the tracker user id for AssigneeSet
	AssigneeID string
}

// NewTaskUpdate returns an empty update
func NewTaskUpdate() *TaskUpdate {
	return &TaskUpdate{Fields: make(map[FieldRole]string)}
}

// Set writes value to field
func (u *TaskUpdate) Set(field FieldRole, value string) *TaskUpdate {
	u.Fields[field] = value
	return u
}

// SetStatus writes the status field
func (u *TaskUpdate) SetStatus(s TaskStatus) *TaskUpdate {
	u.Status = &s
	return u
}

// ClearAssignee unassigns the task
func (u *TaskUpdate) ClearAssignee() *TaskUpdate {
	u.Assignee = AssigneeClear
	u.AssigneeID = ""
	return u
}

// AssignTo assigns the task to a tracker user
func (u *TaskUpdate) AssignTo(userID string) *TaskUpdate {
	u.Assignee = AssigneeSet
	u.AssigneeID = userID
	return u
}
