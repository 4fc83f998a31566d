package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Runner executes the gh CLI and returns its stdout
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// CommandError provides context for gh command failures
type CommandError struct {
	Args   []string
	Output string
}

func (e *CommandError) Error() string {
	return "gh " + strings.Join(e.Args, " ") + ": " + e.Output
}

// ExecRunner runs the real gh binary
func ExecRunner(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, &CommandError{Args: args, Output: msg}
	}
	return output, nil
}

// CheckAuth verifies gh CLI is authenticated
func CheckAuth(ctx context.Context, run Runner) error {
	if _, err := run(ctx, "auth", "status"); err != nil {
		return fmt.Errorf("not authenticated with GitHub CLI, set GH_TOKEN or run 'gh auth login': %w", err)
	}
	return nil
}

// Client is a session against one repository
type Client struct {
	repo models.RepoRef
	run  Runner
}

// NewClient creates a client for repo. A nil runner uses the gh binary.
func NewClient(repo models.RepoRef, run Runner) *Client {
	if run == nil {
		run = ExecRunner
	}
	return &Client{repo: repo, run: run}
}

func (c *Client) endpoint(format string, args ...any) string {
	return fmt.Sprintf("repos/%s/%s/", c.repo.Owner, c.repo.Name) + fmt.Sprintf(format, args...)
}

type reviewPayload struct {
	User        models.Identity `json:"user"`
	State       string          `json:"state"`
	SubmittedAt *time.Time      `json:"submitted_at"`
}

// ListReviews returns every review submitted on the pull request
func (c *Client) ListReviews(ctx context.Context, number uint64) ([]models.ReviewEvent, error) {
	output, err := c.run(ctx, "api", "--paginate", c.endpoint("pulls/%d/reviews", number))
	if err != nil {
		return nil, err
	}

	// --paginate prints one JSON array per page
	var reviews []models.ReviewEvent
	dec := json.NewDecoder(bytes.NewReader(output))
	for {
		var page []reviewPayload
		if err := dec.Decode(&page); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse reviews: %w", err)
		}
		for _, r := range page {
			event := models.ReviewEvent{Reviewer: r.User, State: models.ReviewState(r.State)}
			if r.SubmittedAt != nil {
				event.SubmittedAt = *r.SubmittedAt
			}
			reviews = append(reviews, event)
		}
	}
	return reviews, nil
}

// RemoveRequestedReviewer withdraws a review request
func (c *Client) RemoveRequestedReviewer(ctx context.Context, number uint64, login string) error {
	_, err := c.run(ctx, "api", "--method", "DELETE",
		c.endpoint("pulls/%d/requested_reviewers", number),
		"-f", "reviewers[]="+login,
	)
	return err
}

// AddAssignee assigns a user to the pull request
func (c *Client) AddAssignee(ctx context.Context, number uint64, login string) error {
	_, err := c.run(ctx, "api", "--method", "POST",
		c.endpoint("issues/%d/assignees", number),
		"-f", "assignees[]="+login,
	)
	return err
}

// GetPullRequest reads a pull request
func (c *Client) GetPullRequest(ctx context.Context, number uint64) (models.ChangeRequest, error) {
	output, err := c.run(ctx, "api", c.endpoint("pulls/%d", number))
	if err != nil {
		return models.ChangeRequest{}, err
	}

	var pr pullRequestPayload
	if err := json.Unmarshal(output, &pr); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("failed to parse pull request: %w", err)
	}
	return pr.toModel(), nil
}

// ReadFile returns the raw content of path at ref
func (c *Client) ReadFile(ctx context.Context, path, ref string) ([]byte, error) {
	endpoint := c.endpoint("contents/%s", strings.TrimPrefix(path, "/"))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}
	return c.run(ctx, "api", "-H", "Accept: application/vnd.github.raw", endpoint)
}

// ParseNumber parses a pull request number flag
func ParseNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid pull request number %q", s)
	}
	return n, nil
}
