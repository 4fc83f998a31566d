package github

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Event is the part of a webhook payload the synchronizer needs
type Event struct {
	// Name is the event type (e.g., "pull_request")
	Name string
	// Action is the payload action (e.g., "synchronize")
	Action string
	// Repository the event belongs to
	Repository models.RepoRef
	// PullRequest is nil for events without one
	PullRequest *models.ChangeRequest
	// MergeGroup is set for merge queue events
	MergeGroup bool
	// Raw is the original payload
	Raw json.RawMessage
}

type pullRequestPayload struct {
	Number             uint64            `json:"number"`
	HTMLURL            string            `json:"html_url"`
	Body               *string           `json:"body"`
	Draft              bool              `json:"draft"`
	MergedAt           *time.Time        `json:"merged_at"`
	RequestedReviewers []models.Identity `json:"requested_reviewers"`
	Assignees          []models.Identity `json:"assignees"`
	Labels             []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

func (p pullRequestPayload) toModel() models.ChangeRequest {
	cr := models.ChangeRequest{
		Number:             p.Number,
		HTMLURL:            p.HTMLURL,
		Draft:              p.Draft,
		MergedAt:           p.MergedAt,
		HeadRef:            p.Head.Ref,
		RequestedReviewers: p.RequestedReviewers,
		Assignees:          p.Assignees,
	}
	if p.Body != nil {
		cr.Body = *p.Body
	}
	for _, l := range p.Labels {
		cr.Labels = append(cr.Labels, l.Name)
	}
	return cr
}

type eventPayload struct {
	Action      string              `json:"action"`
	PullRequest *pullRequestPayload `json:"pull_request"`
	MergeGroup  json.RawMessage     `json:"merge_group"`
	Repository  *struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// ParseEvent decodes a webhook payload
func ParseEvent(name string, data []byte) (*Event, error) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse %s event: %w", name, err)
	}

	event := &Event{
		Name:       name,
		Action:     payload.Action,
		MergeGroup: len(payload.MergeGroup) > 0 && string(payload.MergeGroup) != "null",
		Raw:        json.RawMessage(data),
	}
	if payload.Repository != nil {
		event.Repository = models.RepoRef{Owner: payload.Repository.Owner.Login, Name: payload.Repository.Name}
	}
	if payload.PullRequest != nil {
		cr := payload.PullRequest.toModel()
		event.PullRequest = &cr
	}
	return event, nil
}

// LoadEvent reads the payload file GitHub Actions points GITHUB_EVENT_PATH at
func LoadEvent(name, path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return ParseEvent(name, data)
}
