package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
	"github.com/mobsuccess-devops/github-actions-asana/internal/retry"
)

// Mover moves a task to the section matching a role in each of its projects
type Mover struct {
	sprintProjectID string
	primary         SectionResolver
	fallback        SectionResolver
	tasks           TaskReader
	moves           SectionMover
	applier         *retry.Applier
	log             *zap.Logger
}

// NewMover creates a Mover. primary serves the sprint project, fallback every
// other project.
func NewMover(sprintProjectID string, primary, fallback SectionResolver, tasks TaskReader, moves SectionMover, applier *retry.Applier, log *zap.Logger) *Mover {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mover{
		sprintProjectID: sprintProjectID,
		primary:         primary,
		fallback:        fallback,
		tasks:           tasks,
		moves:           moves,
		applier:         applier,
		log:             log,
	}
}

// Move applies role to every membership of the task, in membership order.
// Projects without a matching section are skipped. It returns the number of
// moves performed.
func (m *Mover) Move(ctx context.Context, taskID string, role models.SectionRole) (int, error) {
	log := m.log.With(zap.String("task_id", taskID), zap.Stringer("role", role))

	task, err := m.tasks.GetTask(ctx, taskID, FieldMemberships)
	if err != nil {
		return 0, fmt.Errorf("reading memberships of task %s: %w", taskID, err)
	}

	moved := 0
	for _, membership := range task.Memberships {
		projectID := membership.ProjectID
		resolver := m.fallback
		if projectID == m.sprintProjectID {
			resolver = m.primary
		}

		sectionID, ok, err := resolver.ResolveSection(ctx, projectID, role)
		if err != nil {
			return moved, err
		}
		if !ok {
			log.Info("no matching section, skipping project", zap.String("project_id", projectID))
			continue
		}

		log.Info("moving task", zap.String("project_id", projectID), zap.String("section_id", sectionID))
		err = m.applier.Do(ctx, "move task to section", func(ctx context.Context) error {
			return m.moves.MoveTaskToSection(ctx, taskID, projectID, sectionID)
		})
		if err != nil {
			return moved, fmt.Errorf("moving task %s to section %s of project %s: %w", taskID, sectionID, projectID, err)
		}
		moved++
	}
	return moved, nil
}
