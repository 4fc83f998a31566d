package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mobsuccess-devops/github-actions-asana/internal/logger"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Policy sources
const (
	PolicySourceGitHub = "github"
	PolicySourceLocal  = "local"
)

type Config struct {
	Asana  AsanaConfig   `toml:"asana"`
	GitHub GitHubConfig  `toml:"github"`
	Sync   SyncConfig    `toml:"sync"`
	Retry  RetryConfig   `toml:"retry"`
	Logger logger.Config `toml:"logger"`
}

// AsanaConfig holds the task tracker identifiers
type AsanaConfig struct {
	BaseURL       string             `toml:"base_url"`
	SprintProject string             `toml:"sprint_project"`
	Sections      SectionsConfig     `toml:"sections"`
	Fields        FieldsConfig       `toml:"fields"`
	StatusValues  StatusValuesConfig `toml:"status_values"`
}

// SectionsConfig maps workflow roles to sprint section ids
type SectionsConfig struct {
	Design     string `toml:"design"`
	ReadyToDo  string `toml:"ready_to_do"`
	InProgress string `toml:"in_progress"`
	ToTest     string `toml:"to_test"`
	Ready      string `toml:"ready"`
}

// FieldsConfig maps field roles to custom field ids. Empty ids are not written.
type FieldsConfig struct {
	PullRequest string `toml:"pull_request"`
	Status      string `toml:"status"`
	Live        string `toml:"live"`
	Storybook   string `toml:"storybook"`
	Description string `toml:"description"`
	Assignee    string `toml:"assignee"`
}

// StatusValuesConfig maps statuses to enum option ids of the status field
type StatusValuesConfig struct {
	InProgress string `toml:"in_progress"`
	InReview   string `toml:"in_review"`
	Approved   string `toml:"approved"`
	Rejected   string `toml:"rejected"`
	Merged     string `toml:"merged"`
}

type GitHubConfig struct {
	TesterLogin   string `toml:"tester_login"`
	PolicyPath    string `toml:"policy_path"`
	DefaultBranch string `toml:"default_branch"`
}

type SyncConfig struct {
	AssignTesterTasksToCreator bool   `toml:"assign_tester_tasks_to_creator"`
	MirrorDescription          bool   `toml:"mirror_description"`
	MirrorAssignees            bool   `toml:"mirror_assignees"`
	PolicySource               string `toml:"policy_source"`
}

type RetryConfig struct {
	MaxRetries       int `toml:"max_retries"`
	BaseDelaySeconds int `toml:"base_delay_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		Asana: AsanaConfig{
			BaseURL:       "https://app.asana.com/api/1.0",
			SprintProject: "1200175269622723",
			Sections: SectionsConfig{
				ReadyToDo:  "1200175269622815",
				InProgress: "1200175269622840",
				ToTest:     "1200175269622816",
				Ready:      "1200175269622817",
			},
			Fields: FieldsConfig{
				PullRequest: "1200114403104483",
				Status:      "1200114505696486",
				Live:        "1200323257708391",
				Storybook:   "1201338340578371",
				Description: "1204032332257162",
				Assignee:    "1204034768535484",
			},
			StatusValues: StatusValuesConfig{
				InProgress: "1200114505696487",
				InReview:   "1200114505696488",
				Approved:   "1200114505696489",
				Rejected:   "1200114505696490",
				Merged:     "1200114505696491",
			},
		},
		GitHub: GitHubConfig{
			TesterLogin:   "ms-testers",
			PolicyPath:    ".mobsuccess.yml",
			DefaultBranch: "master",
		},
		Sync: SyncConfig{
			AssignTesterTasksToCreator: true,
			PolicySource:               PolicySourceGitHub,
		},
		Retry: RetryConfig{
			MaxRetries:       5,
			BaseDelaySeconds: 2,
		},
		Logger: logger.Config{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Path returns the default config file location
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "attsync.toml"), nil
}

// Load reads the config at path (the default location when empty).
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values the rest of the program relies on
func (c *Config) Validate() error {
	if c.Asana.SprintProject == "" {
		return errors.New("asana.sprint_project is required")
	}
	if c.Asana.BaseURL == "" {
		return errors.New("asana.base_url is required")
	}
	if c.Asana.Fields.Status == "" {
		return errors.New("asana.fields.status is required")
	}
	for status, option := range c.Asana.StatusValues.ByStatus() {
		if option == "" {
			return fmt.Errorf("asana.status_values.%s is required", status)
		}
	}
	if c.GitHub.TesterLogin == "" {
		return errors.New("github.tester_login is required")
	}
	switch c.Sync.PolicySource {
	case PolicySourceGitHub, PolicySourceLocal:
	default:
		return fmt.Errorf("sync.policy_source must be %q or %q, got %q", PolicySourceGitHub, PolicySourceLocal, c.Sync.PolicySource)
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New("retry.max_retries must not be negative")
	}
	if c.Retry.BaseDelaySeconds <= 0 {
		return errors.New("retry.base_delay_seconds must be positive")
	}
	return nil
}

// BaseDelay returns the retry base delay as a duration
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelaySeconds) * time.Second
}

// ByRole returns the configured section ids keyed by role
func (s SectionsConfig) ByRole() map[models.SectionRole]string {
	return map[models.SectionRole]string{
		models.RoleDesign:     s.Design,
		models.RoleReadyToDo:  s.ReadyToDo,
		models.RoleInProgress: s.InProgress,
		models.RoleToTest:     s.ToTest,
		models.RoleReady:      s.Ready,
	}
}

// ByRole returns the configured custom field ids keyed by role
func (f FieldsConfig) ByRole() map[models.FieldRole]string {
	return map[models.FieldRole]string{
		models.FieldPullRequest: f.PullRequest,
		models.FieldStatus:      f.Status,
		models.FieldLive:        f.Live,
		models.FieldStorybook:   f.Storybook,
		models.FieldDescription: f.Description,
		models.FieldAssignee:    f.Assignee,
	}
}

// ByStatus returns the enum option ids keyed by status
func (s StatusValuesConfig) ByStatus() map[models.TaskStatus]string {
	return map[models.TaskStatus]string{
		models.StatusInProgress: s.InProgress,
		models.StatusInReview:   s.InReview,
		models.StatusApproved:   s.Approved,
		models.StatusRejected:   s.Rejected,
		models.StatusMerged:     s.Merged,
	}
}
