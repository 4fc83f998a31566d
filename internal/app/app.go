// Package app wires the GitHub and Asana adapters into synchronization
// passes for the action and the webhook server.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/asana"
	"github.com/mobsuccess-devops/github-actions-asana/internal/board"
	"github.com/mobsuccess-devops/github-actions-asana/internal/config"
	"github.com/mobsuccess-devops/github-actions-asana/internal/git"
	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
	"github.com/mobsuccess-devops/github-actions-asana/internal/policy"
	"github.com/mobsuccess-devops/github-actions-asana/internal/retry"
	"github.com/mobsuccess-devops/github-actions-asana/internal/synchronize"
	"github.com/mobsuccess-devops/github-actions-asana/internal/ui"
)

// ErrNoPullRequest is returned for events that do not carry a pull request
var ErrNoPullRequest = errors.New("event has no pull request")

// Settings are the per-deployment values that do not live in the config file
type Settings struct {
	TriggerPhrase       string
	AmplifyURI          string
	StorybookAmplifyURI string
	AsanaToken          string
	// Workspace is the local checkout used by the local policy source
	Workspace string
}

// App builds fresh sessions for every pass
type App struct {
	config   *config.Config
	settings Settings
	run      github.Runner
	retry    []retry.Option
	log      *zap.Logger
}

// Option customizes an App
type Option func(*App)

// WithRetryOptions passes options to every retry applier
func WithRetryOptions(opts ...retry.Option) Option {
	return func(a *App) {
		a.retry = append(a.retry, opts...)
	}
}

// New creates an App. A nil runner uses the gh binary.
func New(cfg *config.Config, settings Settings, run github.Runner, log *zap.Logger, opts ...Option) *App {
	if run == nil {
		run = github.ExecRunner
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{config: cfg, settings: settings, run: run, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Synchronize runs one pass for ev with its own GitHub and Asana sessions
func (a *App) Synchronize(ctx context.Context, ev *github.Event) (*synchronize.Result, error) {
	if ev.MergeGroup {
		a.log.Info("skipping merge group event")
		return &synchronize.Result{}, nil
	}
	if ev.PullRequest == nil {
		return nil, ErrNoPullRequest
	}

	log := a.passLogger(ev)
	orch, err := a.orchestrator(ev.Repository, log)
	if err != nil {
		return nil, err
	}

	return orch.Synchronize(ctx, synchronize.Request{
		PullRequest:         *ev.PullRequest,
		TriggerPhrase:       a.settings.TriggerPhrase,
		AmplifyURI:          a.settings.AmplifyURI,
		StorybookAmplifyURI: a.settings.StorybookAmplifyURI,
	})
}

// Debug logs the raw event and renders what a pass would work with,
// including the status computed from the current reviews. It only reads
// from GitHub and needs no Asana session.
func (a *App) Debug(ctx context.Context, ev *github.Event) (string, error) {
	log := a.passLogger(ev)
	log.Info("event payload", zap.String("event", ev.Name), zap.ByteString("payload", ev.Raw))

	if ev.PullRequest == nil || ev.MergeGroup {
		return ui.DebugReport(*ev, ui.Classification{}), nil
	}

	// status only touches the review system
	orch := synchronize.New(a.options(), github.NewClient(ev.Repository, a.run), nil, nil, nil, log)
	s, verdict, err := orch.Status(ctx, *ev.PullRequest)
	if err != nil {
		return "", err
	}
	return ui.DebugReport(*ev, ui.Classification{
		TaskID:  synchronize.FindTaskID(a.settings.TriggerPhrase, ev.PullRequest.Body),
		Status:  s,
		Verdict: verdict,
	}), nil
}

func (a *App) passLogger(ev *github.Event) *zap.Logger {
	fields := []zap.Field{
		zap.String("run_id", uuid.NewString()),
		zap.String("repository", ev.Repository.FullName()),
	}
	if ev.PullRequest != nil {
		fields = append(fields, zap.String("pull_request", ev.PullRequest.NumberString()))
	}
	return a.log.With(fields...)
}

func (a *App) orchestrator(repo models.RepoRef, log *zap.Logger) (*synchronize.Orchestrator, error) {
	cfg := a.config

	tracker, err := asana.NewClient(cfg.Asana.BaseURL, a.settings.AsanaToken, asana.FieldMap{
		Fields:       cfg.Asana.Fields.ByRole(),
		StatusValues: cfg.Asana.StatusValues.ByStatus(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating asana session: %w", err)
	}

	gh := github.NewClient(repo, a.run)

	var src policy.Source = gh
	if cfg.Sync.PolicySource == config.PolicySourceLocal {
		src = git.LocalSource{RepoPath: a.settings.Workspace}
	}

	return synchronize.New(a.options(),
		gh,
		tracker,
		policy.NewLoader(src, cfg.GitHub.PolicyPath, cfg.GitHub.DefaultBranch, log),
		retry.New(cfg.Retry.MaxRetries, cfg.Retry.BaseDelay(), log, a.retry...),
		log,
	), nil
}

func (a *App) options() synchronize.Options {
	cfg := a.config
	return synchronize.Options{
		Sprint: board.Sprint{
			ProjectID: cfg.Asana.SprintProject,
			Sections:  cfg.Asana.Sections.ByRole(),
		},
		TesterLogin:       cfg.GitHub.TesterLogin,
		AssignToCreator:   cfg.Sync.AssignTesterTasksToCreator,
		MirrorDescription: cfg.Sync.MirrorDescription,
		MirrorAssignees:   cfg.Sync.MirrorAssignees,
	}
}
