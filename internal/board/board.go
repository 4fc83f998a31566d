// Package board decides where a task belongs on the sprint board and moves it
// there in every project the task is a member of.
package board

import (
	"context"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// TaskReader reads a fresh task snapshot
type TaskReader interface {
	GetTask(ctx context.Context, taskID string, fields ...string) (models.Task, error)
}

// ReviewMutator fixes up the pull request on the source host
type ReviewMutator interface {
	RemoveRequestedReviewer(ctx context.Context, number uint64, login string) error
	AddAssignee(ctx context.Context, number uint64, login string) error
}

// SectionLister lists the sections of a project
type SectionLister interface {
	GetSectionsForProject(ctx context.Context, projectID string) ([]models.BoardSection, error)
}

// SectionMover moves a task into a project section
type SectionMover interface {
	MoveTaskToSection(ctx context.Context, taskID, projectID, sectionID string) error
}

// Task fields requested from the tracker
const (
	FieldMemberships = "memberships"
	FieldCompleted   = "completed"
	FieldCreatedBy   = "created_by"
)

// Sprint is the primary board: the current sprint project and its section ids
type Sprint struct {
	ProjectID string
	Sections  map[models.SectionRole]string
}

// SectionID returns the configured section id for role
func (s Sprint) SectionID(role models.SectionRole) (string, bool) {
	id, ok := s.Sections[role]
	return id, ok && id != ""
}

// RoleOf returns the role of a sprint section id
func (s Sprint) RoleOf(sectionID string) (models.SectionRole, bool) {
	if sectionID == "" {
		return 0, false
	}
	for role, id := range s.Sections {
		if id == sectionID {
			return role, true
		}
	}
	return 0, false
}
