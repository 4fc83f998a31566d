package models

// TransitionDecision is what the board resolver wants done to a task.
// A nil *TransitionDecision means no change.
type TransitionDecision struct {
	// Target is the section role to move the task to
	Target SectionRole
	// ClearAssignee unassigns the task
	ClearAssignee bool
	// AssignToCreator assigns the task to its creator; wins over ClearAssignee
	AssignToCreator bool
}
