package board

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// SectionResolver finds the section standing for role in a project
type SectionResolver interface {
	ResolveSection(ctx context.Context, projectID string, role models.SectionRole) (sectionID string, ok bool, err error)
}

// ByID resolves sections of the sprint project from the configured ids
type ByID struct {
	Sprint Sprint
}

// ResolveSection implements SectionResolver
func (b ByID) ResolveSection(_ context.Context, projectID string, role models.SectionRole) (string, bool, error) {
	if projectID != b.Sprint.ProjectID {
		return "", false, nil
	}
	id, ok := b.Sprint.SectionID(role)
	return id, ok, nil
}

var sectionPatterns = map[models.SectionRole]*regexp.Regexp{
	models.RoleDesign:     regexp.MustCompile(`(?i)design`),
	models.RoleReadyToDo:  regexp.MustCompile(`(?i)to ?do`),
	models.RoleInProgress: regexp.MustCompile(`(?i)in ?progress`),
	models.RoleToTest:     regexp.MustCompile(`(?i)test`),
	// anchored so "Already Ready" and "Ready to do" do not match
	models.RoleReady: regexp.MustCompile(`(?i)^ready$`),
}

// MatchSection returns the first section whose name fits role's pattern
func MatchSection(sections []models.BoardSection, role models.SectionRole) (models.BoardSection, bool) {
	pattern, ok := sectionPatterns[role]
	if !ok {
		return models.BoardSection{}, false
	}
	for _, s := range sections {
		if pattern.MatchString(s.Name) {
			return s, true
		}
	}
	return models.BoardSection{}, false
}

// ByName resolves sections of any project by matching section names
type ByName struct {
	Sections SectionLister
}

// ResolveSection implements SectionResolver
func (b ByName) ResolveSection(ctx context.Context, projectID string, role models.SectionRole) (string, bool, error) {
	sections, err := b.Sections.GetSectionsForProject(ctx, projectID)
	if err != nil {
		return "", false, fmt.Errorf("listing sections of project %s: %w", projectID, err)
	}
	section, ok := MatchSection(sections, role)
	return section.ID, ok, nil
}
