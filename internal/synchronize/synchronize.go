// Package synchronize runs one synchronization pass of a pull request onto
// its Asana task.
package synchronize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/board"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
	"github.com/mobsuccess-devops/github-actions-asana/internal/retry"
	"github.com/mobsuccess-devops/github-actions-asana/internal/status"
)

// ReviewSystem is the source host
type ReviewSystem interface {
	ListReviews(ctx context.Context, number uint64) ([]models.ReviewEvent, error)
	board.ReviewMutator
}

// TaskTracker is the task tracker
type TaskTracker interface {
	board.TaskReader
	board.SectionLister
	board.SectionMover
	UpdateTask(ctx context.Context, taskID string, update models.TaskUpdate) error
}

// PolicyLookup returns the repository policy at a branch
type PolicyLookup interface {
	Load(ctx context.Context, branch string) models.RepoPolicy
}

// Options are the rules of a pass
type Options struct {
	Sprint            board.Sprint
	TesterLogin       string
	AssignToCreator   bool
	MirrorDescription bool
	MirrorAssignees   bool
}

// Request is one pull request event to synchronize
type Request struct {
	PullRequest         models.ChangeRequest
	TriggerPhrase       string
	AmplifyURI          string
	StorybookAmplifyURI string
}

// Result describes what a pass did
type Result struct {
	TaskID    string
	Verdict   models.ReviewVerdict
	Status    models.TaskStatus
	Decision  *models.TransitionDecision
	Corrected bool
	Moves     int
	Update    *models.TaskUpdate
	Completed bool
	Bypassed  bool
}

// Orchestrator composes status classification, board transitions and field
// updates. Build one per pass.
type Orchestrator struct {
	opts       Options
	reviews    ReviewSystem
	tasks      TaskTracker
	policy     PolicyLookup
	applier    *retry.Applier
	classifier status.Classifier
	resolver   *board.Resolver
	mover      *board.Mover
	log        *zap.Logger
}

// New creates an Orchestrator
func New(opts Options, reviews ReviewSystem, tasks TaskTracker, policy PolicyLookup, applier *retry.Applier, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		opts:       opts,
		reviews:    reviews,
		tasks:      tasks,
		policy:     policy,
		applier:    applier,
		classifier: status.Classifier{TesterLogin: opts.TesterLogin},
		resolver:   board.NewResolver(opts.Sprint, opts.TesterLogin, opts.AssignToCreator, tasks, reviews, log),
		mover: board.NewMover(opts.Sprint.ProjectID,
			board.ByID{Sprint: opts.Sprint},
			board.ByName{Sections: tasks},
			tasks, tasks, applier, log),
		log: log,
	}
}

// Status fetches the reviews of cr and classifies it
func (o *Orchestrator) Status(ctx context.Context, cr models.ChangeRequest) (models.TaskStatus, models.ReviewVerdict, error) {
	reviews, err := o.reviews.ListReviews(ctx, cr.Number)
	if err != nil {
		return 0, models.ReviewVerdict{}, fmt.Errorf("listing reviews: %w", err)
	}
	verdict := status.Aggregate(reviews)
	s := o.classifier.Classify(cr, verdict)

	o.log.Info("classified pull request",
		zap.Bool("approved", verdict.IsApproved),
		zap.Bool("rejected", verdict.IsRejected),
		zap.Bool("merged", cr.IsMerged()),
		zap.Bool("draft", cr.Draft),
		zap.Int("requested_reviewers", len(cr.RequestedReviewers)),
		zap.Stringer("status", s),
	)
	return s, verdict, nil
}

// Synchronize runs the pass. It returns ErrTaskNotCompleted when the
// pull request is ready but its task is open and no bypass applies.
func (o *Orchestrator) Synchronize(ctx context.Context, req Request) (*Result, error) {
	cr := req.PullRequest
	res := &Result{TaskID: FindTaskID(req.TriggerPhrase, cr.Body)}

	s, verdict, err := o.Status(ctx, cr)
	if err != nil {
		return nil, err
	}
	res.Status, res.Verdict = s, verdict

	if res.TaskID == "" {
		o.log.Info("cannot update asana task: no task id was found")
		return res, nil
	}
	log := o.log.With(zap.String("task_id", res.TaskID))

	update, err := o.buildUpdate(req, s)
	if err != nil {
		return nil, err
	}

	resolution, err := o.resolver.Resolve(ctx, res.TaskID, cr)
	if err != nil {
		return nil, err
	}
	res.Decision, res.Corrected = resolution.Decision, resolution.Corrected
	cr = resolution.Request

	if o.opts.MirrorAssignees {
		logins := make([]string, 0, len(cr.Assignees))
		for _, a := range cr.Assignees {
			logins = append(logins, a.Login)
		}
		update.Set(models.FieldAssignee, strings.Join(logins, ", "))
	}

	if d := res.Decision; d != nil {
		if d.AssignToCreator {
			task, err := o.tasks.GetTask(ctx, res.TaskID, board.FieldCreatedBy)
			if err != nil {
				return nil, fmt.Errorf("reading task creator: %w", err)
			}
			update.AssignTo(task.CreatorID)
		} else if d.ClearAssignee {
			update.ClearAssignee()
		}

		log.Info("moving task", zap.Stringer("role", d.Target))
		res.Moves, err = o.mover.Move(ctx, res.TaskID, d.Target)
		if err != nil {
			return nil, err
		}
	}

	log.Info("updating asana task", zap.Int("fields", len(update.Fields)), zap.Stringer("status", s))
	err = o.applier.Do(ctx, "update task", func(ctx context.Context) error {
		return o.tasks.UpdateTask(ctx, res.TaskID, *update)
	})
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", res.TaskID, err)
	}
	res.Update = update

	if cr.Draft {
		log.Info("pull request in draft mode, not checking asana task for completion")
		return res, nil
	}

	task, err := o.tasks.GetTask(ctx, res.TaskID, board.FieldCompleted)
	if err != nil {
		return nil, fmt.Errorf("reading task completion: %w", err)
	}
	res.Completed = task.Completed
	if task.Completed {
		return res, nil
	}

	if o.canMergeWithoutTask(ctx, cr) {
		log.Info("task is not completed but the repository allows tester handoffs without a closed task")
		res.Bypassed = true
		return res, nil
	}
	return res, ErrTaskNotCompleted
}

// canMergeWithoutTask grants the bypass only to pull requests handed to the
// tester, and only when the repository policy allows it
func (o *Orchestrator) canMergeWithoutTask(ctx context.Context, cr models.ChangeRequest) bool {
	if !models.ContainsLogin(cr.Assignees, o.opts.TesterLogin) {
		return false
	}
	return o.policy.Load(ctx, cr.HeadRef).AllowBypassWithoutCompletedTask
}

func (o *Orchestrator) buildUpdate(req Request, s models.TaskStatus) (*models.TaskUpdate, error) {
	cr := req.PullRequest
	number := cr.NumberString()

	update := models.NewTaskUpdate().
		Set(models.FieldPullRequest, cr.HTMLURL).
		SetStatus(s)

	live, err := PreviewURLs(number, cr.Labels, req.AmplifyURI)
	if err != nil {
		return nil, err
	}
	if len(live) > 0 {
		update.Set(models.FieldLive, strings.Join(live, "\n"))
	}
	if req.StorybookAmplifyURI != "" {
		update.Set(models.FieldStorybook, expand(req.StorybookAmplifyURI, number))
	}
	if o.opts.MirrorDescription {
		update.Set(models.FieldDescription, Description(cr.Body))
	}
	return update, nil
}
