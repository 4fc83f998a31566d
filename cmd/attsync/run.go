package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/app"
	"github.com/mobsuccess-devops/github-actions-asana/internal/config"
	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/logger"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
	"github.com/mobsuccess-devops/github-actions-asana/internal/ui"
)

func newRunCmd() *cobra.Command {
	var action, number string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the action for the current GitHub Actions event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), action, number)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "Action to run (debug, synchronize), overrides INPUT_ACTION")
	cmd.Flags().StringVar(&number, "pr", "", "Pull request number to read instead of the event payload")

	return cmd
}

func run(ctx context.Context, action, number string) error {
	inputs, err := config.LoadInputs()
	if err != nil {
		return fmt.Errorf("failed to read action inputs: %w", err)
	}
	if action != "" {
		inputs.Action = action
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ev, err := loadEvent(ctx, inputs, number)
	if err != nil {
		return err
	}

	a := app.New(cfg, settingsFrom(inputs), github.ExecRunner, log)

	switch inputs.Action {
	case config.ActionDebug:
		report, err := a.Debug(ctx, ev)
		if err != nil {
			return err
		}
		fmt.Println(report)
		return nil
	case config.ActionSynchronize:
		if err := github.CheckAuth(ctx, github.ExecRunner); err != nil {
			return err
		}
		res, err := a.Synchronize(ctx, ev)
		fmt.Println(ui.Summary(res, err))
		if err != nil {
			log.Error("synchronization failed", zap.Error(err))
			fmt.Printf("::error::%s\n", err)
			return err
		}
		return nil
	case "":
		return fmt.Errorf("no action given, set INPUT_ACTION or --action")
	default:
		return fmt.Errorf("unknown action %q", inputs.Action)
	}
}

// loadEvent reads the event payload, or the pull request given by number
func loadEvent(ctx context.Context, inputs *config.Inputs, number string) (*github.Event, error) {
	ev := &github.Event{Name: inputs.EventName}
	if inputs.EventPath != "" {
		loaded, err := github.LoadEvent(inputs.EventName, inputs.EventPath)
		if err != nil {
			return nil, err
		}
		ev = loaded
	}

	if ev.Repository.Owner == "" && inputs.Repository != "" {
		repo, err := models.ParseRepoRef(inputs.Repository)
		if err != nil {
			return nil, err
		}
		ev.Repository = repo
	}

	if number == "" {
		return ev, nil
	}
	n, err := github.ParseNumber(number)
	if err != nil {
		return nil, err
	}
	if ev.Repository.Owner == "" {
		return nil, fmt.Errorf("--pr needs GITHUB_REPOSITORY or an event payload")
	}
	cr, err := github.NewClient(ev.Repository, github.ExecRunner).GetPullRequest(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read pull request #%d: %w", n, err)
	}
	ev.PullRequest = &cr
	ev.MergeGroup = false
	return ev, nil
}

func settingsFrom(inputs *config.Inputs) app.Settings {
	return app.Settings{
		TriggerPhrase:       inputs.TriggerPhrase,
		AmplifyURI:          inputs.AmplifyURI,
		StorybookAmplifyURI: inputs.StorybookAmplifyURI,
		AsanaToken:          inputs.AsanaPAT,
		Workspace:           inputs.Workspace,
	}
}
