package models

// SectionRole is the workflow stage a board section stands for
type SectionRole int

const (
	RoleDesign SectionRole = iota
	RoleReadyToDo
	RoleInProgress
	RoleToTest
	RoleReady
)

// AllSectionRoles lists every role in board order
var AllSectionRoles = []SectionRole{RoleDesign, RoleReadyToDo, RoleInProgress, RoleToTest, RoleReady}

// String returns the config key of the role
func (r SectionRole) String() string {
	switch r {
	case RoleDesign:
		return "design"
	case RoleReadyToDo:
		return "ready_to_do"
	case RoleInProgress:
		return "in_progress"
	case RoleToTest:
		return "to_test"
	case RoleReady:
		return "ready"
	default:
		return "unknown"
	}
}

// BoardSection is a named section of a project
type BoardSection struct {
	ID   string `json:"gid"`
	Name string `json:"name"`
}
