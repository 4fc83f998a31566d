package models

// Task is a work item read from the task tracker
type Task struct {
	// ID is the tracker id (gid)
	ID string
	// Completed is set once the task is checked off
	Completed bool
	// Memberships are the (project, section) pairs the task belongs to
	Memberships []Membership
	// CreatorID is the tracker user id of the task creator (empty if not requested)
	CreatorID string
}

// Membership places a task in a section of a project
type Membership struct {
	ProjectID string
	SectionID string
}

// MembershipIn returns the task's membership for projectID, if any
func (t Task) MembershipIn(projectID string) (Membership, bool) {
	for _, m := range t.Memberships {
		if m.ProjectID == projectID {
			return m, true
		}
	}
	return Membership{}, false
}
