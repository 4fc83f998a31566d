// Package policy reads the per-repository escape hatch settings.
package policy

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Source reads a repository file at a ref
type Source interface {
	ReadFile(ctx context.Context, path, ref string) ([]byte, error)
}

type file struct {
	Asana struct {
		AcceptTestersWithoutClosedTask bool `yaml:"accept_ms_testers_without_closed_task"`
	} `yaml:"asana"`
}

// Loader looks up the policy file of one repository
type Loader struct {
	src           Source
	path          string
	defaultBranch string
	log           *zap.Logger
}

// NewLoader creates a Loader reading path from src
func NewLoader(src Source, path, defaultBranch string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{src: src, path: path, defaultBranch: defaultBranch, log: log}
}

// Load returns the policy at branch. Any failure to read or parse the file
// yields the restrictive zero policy.
func (l *Loader) Load(ctx context.Context, branch string) models.RepoPolicy {
	if branch == "" {
		branch = l.defaultBranch
	}
	log := l.log.With(zap.String("path", l.path), zap.String("branch", branch))

	data, err := l.src.ReadFile(ctx, l.path, branch)
	if err != nil {
		log.Info("could not read repository policy, using defaults", zap.Error(err))
		return models.RepoPolicy{}
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		log.Warn("could not parse repository policy, using defaults", zap.Error(err))
		return models.RepoPolicy{}
	}

	return models.RepoPolicy{AllowBypassWithoutCompletedTask: f.Asana.AcceptTestersWithoutClosedTask}
}
