package board

import (
	"context"
	"fmt"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

const (
	sprintProject = "sprint"
	tester        = "ms-testers"
	taskID        = "1200114477821446"
)

var testSprint = Sprint{
	ProjectID: sprintProject,
	Sections: map[models.SectionRole]string{
		models.RoleDesign:     "s-design",
		models.RoleReadyToDo:  "s-todo",
		models.RoleInProgress: "s-progress",
		models.RoleToTest:     "s-test",
		models.RoleReady:      "s-ready",
	},
}

// fakeTracker keeps tasks and project sections in memory and applies moves
type fakeTracker struct {
	tasks      map[string]*models.Task
	sections   map[string][]models.BoardSection
	moves      []string
	failMoves  int
	reads      int
	listErrFor string
}

func newFakeTracker(task models.Task) *fakeTracker {
	return &fakeTracker{
		tasks:    map[string]*models.Task{task.ID: &task},
		sections: map[string][]models.BoardSection{},
	}
}

func (f *fakeTracker) GetTask(_ context.Context, id string, _ ...string) (models.Task, error) {
	f.reads++
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s not found", id)
	}
	cp := *t
	cp.Memberships = append([]models.Membership(nil), t.Memberships...)
	return cp, nil
}

func (f *fakeTracker) GetSectionsForProject(_ context.Context, projectID string) ([]models.BoardSection, error) {
	if projectID == f.listErrFor {
		return nil, fmt.Errorf("project %s unavailable", projectID)
	}
	return f.sections[projectID], nil
}

func (f *fakeTracker) MoveTaskToSection(_ context.Context, id, projectID, sectionID string) error {
	if f.failMoves > 0 {
		f.failMoves--
		return fmt.Errorf("transient failure")
	}
	f.moves = append(f.moves, projectID+"/"+sectionID)
	t := f.tasks[id]
	for i := range t.Memberships {
		if t.Memberships[i].ProjectID == projectID {
			t.Memberships[i].SectionID = sectionID
		}
	}
	return nil
}

// fakeReviews records source host mutations in call order
type fakeReviews struct {
	calls []string
	err   error
}

func (f *fakeReviews) RemoveRequestedReviewer(_ context.Context, number uint64, login string) error {
	f.calls = append(f.calls, fmt.Sprintf("remove-reviewer %d %s", number, login))
	return f.err
}

func (f *fakeReviews) AddAssignee(_ context.Context, number uint64, login string) error {
	f.calls = append(f.calls, fmt.Sprintf("add-assignee %d %s", number, login))
	return f.err
}
