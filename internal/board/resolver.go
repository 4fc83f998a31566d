package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Resolution is the outcome of Resolve
type Resolution struct {
	// Decision is nil when the task stays where it is
	Decision *models.TransitionDecision
	// Request is the pull request as seen after any tester correction
	Request models.ChangeRequest
	// Corrected is set when a tester review request was turned into an assignment
	Corrected bool
}

// Resolver decides whether a task should move on the sprint board
type Resolver struct {
	sprint          Sprint
	testerLogin     string
	assignToCreator bool
	tasks           TaskReader
	reviews         ReviewMutator
	log             *zap.Logger
}

// NewResolver creates a Resolver. assignToCreator makes tester handoffs
// assign the task back to its creator instead of leaving it unassigned.
func NewResolver(sprint Sprint, testerLogin string, assignToCreator bool, tasks TaskReader, reviews ReviewMutator, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		sprint:          sprint,
		testerLogin:     testerLogin,
		assignToCreator: assignToCreator,
		tasks:           tasks,
		reviews:         reviews,
		log:             log,
	}
}

// Resolve computes the transition for taskID. A review requested from the
// tester is converted to an assignment before any branch is picked.
func (r *Resolver) Resolve(ctx context.Context, taskID string, cr models.ChangeRequest) (Resolution, error) {
	res := Resolution{Request: cr}
	log := r.log.With(zap.String("task_id", taskID))

	if cr.IsMerged() {
		log.Info("pull request is merged, not moving task")
		return res, nil
	}

	task, err := r.tasks.GetTask(ctx, taskID, FieldMemberships, FieldCompleted)
	if err != nil {
		return res, fmt.Errorf("reading task %s: %w", taskID, err)
	}
	if task.Completed {
		log.Info("task is completed, not moving task")
		return res, nil
	}

	if models.ContainsLogin(cr.RequestedReviewers, r.testerLogin) {
		log.Info("review was requested from the tester, assigning instead", zap.String("tester", r.testerLogin))
		if err := r.reviews.RemoveRequestedReviewer(ctx, cr.Number, r.testerLogin); err != nil {
			return res, fmt.Errorf("removing requested reviewer %s: %w", r.testerLogin, err)
		}
		if err := r.reviews.AddAssignee(ctx, cr.Number, r.testerLogin); err != nil {
			return res, fmt.Errorf("adding assignee %s: %w", r.testerLogin, err)
		}
		res.Request = cr.WithTesterAssigned(r.testerLogin)
		res.Corrected = true
	}

	membership, ok := task.MembershipIn(r.sprint.ProjectID)
	if !ok {
		log.Info("task is not included in the current sprint, not moving task")
		return res, nil
	}
	role, known := r.sprint.RoleOf(membership.SectionID)
	log = log.With(zap.String("section_id", membership.SectionID))

	if models.ContainsLogin(res.Request.Assignees, r.testerLogin) {
		if known && (role == models.RoleToTest || role == models.RoleReady) {
			log.Info("task is already in or past the to test section, not moving task", zap.Stringer("section", role))
			return res, nil
		}
		log.Info("tester is assigned, moving task to test")
		res.Decision = &models.TransitionDecision{
			Target:          models.RoleToTest,
			ClearAssignee:   true,
			AssignToCreator: r.assignToCreator,
		}
		return res, nil
	}

	if !known {
		log.Info("task section has no workflow role, not moving task")
		return res, nil
	}
	switch role {
	case models.RoleToTest:
		log.Info("tester was unassigned while task is in to test, moving task back to in progress")
		res.Decision = &models.TransitionDecision{Target: models.RoleInProgress, ClearAssignee: true}
	case models.RoleDesign, models.RoleReadyToDo:
		log.Info("pull request is open, moving task to in progress", zap.Stringer("section", role))
		res.Decision = &models.TransitionDecision{Target: models.RoleInProgress}
	default:
		log.Info("task is in its expected section, not moving task", zap.Stringer("section", role))
	}
	return res, nil
}
